package viewmodel

import (
	"context"
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/filters"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/repository"
	"github.com/amaumene/cinescope/internal/result"
)

func page(prefix string, n, total int) result.Result[models.MediaResponseInfo] {
	items := make([]models.MediaInfo, 2)
	for i := range items {
		items[i] = models.MediaInfo{ID: n*10 + i, Title: fmt.Sprintf("%s-%d-%d", prefix, n, i)}
	}
	return result.Success(models.MediaResponseInfo{Page: n, Results: items, TotalPages: total, TotalResults: total * 2})
}

type fakeHome struct{}

func (fakeHome) Trending(ctx context.Context, mediaType models.MediaType, window models.TimeWindow, n int) result.Result[models.MediaResponseInfo] {
	return page("trending-"+string(window), n, 2)
}

func (fakeHome) Popular(ctx context.Context, mediaType models.MediaType, n int) result.Result[models.MediaResponseInfo] {
	return page("popular-"+string(mediaType), n, 2)
}

func (fakeHome) TopRated(ctx context.Context, mediaType models.MediaType, n int) result.Result[models.MediaResponseInfo] {
	return result.Failure[models.MediaResponseInfo](errors.New(errors.KindTooManyRequests, nil))
}

func TestHomeLoadsSections(t *testing.T) {
	vm := NewHomeViewModel(fakeHome{}, nil)
	defer vm.Close()
	assert.False(t, vm.Loaded())

	vm.Load()
	vm.Wait()
	assert.True(t, vm.Loaded())

	st := vm.State()
	assert.Len(t, st.Sections[SectionTrending].Items, 2)
	assert.Equal(t, "trending-day-1-0", st.Sections[SectionTrending].Items[0].Title)
	assert.Equal(t, models.LoadStatusSuccess, st.Sections[SectionPopular].Refresh.Status)
	assert.Equal(t, models.LoadStatusError, st.Sections[SectionTopRated].Refresh.Status)
	assert.Equal(t, errors.KindTooManyRequests, st.Sections[SectionTopRated].Refresh.Err.Kind)

	vm.LoadMore(SectionPopular)
	vm.Wait()
	assert.Len(t, vm.State().Sections[SectionPopular].Items, 4)
	assert.True(t, vm.State().Sections[SectionPopular].EndReached)

	vm.SetWindow(models.TimeWindowWeek)
	vm.Wait()
	st = vm.State()
	assert.Equal(t, "trending-week-1-0", st.Sections[SectionTrending].Items[0].Title)
	assert.Len(t, st.Sections[SectionPopular].Items, 4, "other rows untouched")
}

type fakeSearch struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeSearch) SearchMulti(ctx context.Context, query string, n int, adult bool) result.Result[models.MediaResponseInfo] {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return page(query, n, 1)
}

func (f *fakeSearch) SearchByType(ctx context.Context, mediaType models.MediaType, query string, n int, adult bool) result.Result[models.MediaResponseInfo] {
	return f.SearchMulti(ctx, string(mediaType)+":"+query, n, adult)
}

func (f *fakeSearch) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func TestSearchLastKeystrokeWins(t *testing.T) {
	src := &fakeSearch{}
	vm := NewSearchViewModel(src, nil, false)
	defer vm.Close()

	for _, q := range []string{"m", "ma", "mat", "matrix"} {
		vm.SetQuery(q)
	}

	require.Eventually(t, func() bool {
		return len(vm.State().Results.Items) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"matrix"}, src.seen())
	assert.Equal(t, "matrix-1-0", vm.State().Results.Items[0].Title)

	vm.SetMediaType(models.MediaTypeTV)
	vm.Wait()
	assert.Equal(t, "tv:matrix-1-0", vm.State().Results.Items[0].Title)

	vm.SetQuery("  ")
	assert.Empty(t, vm.State().Results.Items)
}

type fakeReference struct{}

func (fakeReference) Countries(ctx context.Context) result.Result[[]models.Country] {
	return result.Success([]models.Country{
		{Code: "FR", EnglishName: "France"},
		{Code: "JP", EnglishName: "Japan"},
	})
}

func (fakeReference) Languages(ctx context.Context) result.Result[[]models.Language] {
	return result.Success([]models.Language{{Code: "ja", EnglishName: "Japanese"}})
}

func TestFiltersDebouncedOriginSearch(t *testing.T) {
	vm := NewFiltersViewModel(fakeReference{})
	defer vm.Close()

	vm.LoadReference()
	vm.Wait()
	require.Equal(t, models.LoadStatusSuccess, vm.State().Reference.Status)
	assert.Len(t, vm.State().Filters.FilteredCountries, 2)

	vm.Dispatch(filters.SetSearchQuery{Query: "f"})
	vm.Dispatch(filters.SetSearchQuery{Query: "ja"})
	assert.Len(t, vm.State().Filters.FilteredCountries, 2, "not refiltered before the quiet period")

	require.Eventually(t, func() bool {
		return len(vm.State().Filters.FilteredCountries) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "JP", vm.State().Filters.FilteredCountries[0].Code)
	assert.Len(t, vm.State().Filters.FilteredLanguages, 1)

	st := vm.Dispatch(filters.SetRuntimeRange{Min: "90"})
	assert.True(t, st.Applied.Runtime)
	require.NotNil(t, vm.Query().MinRuntime)
	assert.Equal(t, 90, *vm.Query().MinRuntime)
}

type fakeDiscover struct {
	mu   sync.Mutex
	last repository.DiscoverQuery
}

func (f *fakeDiscover) Discover(ctx context.Context, mediaType models.MediaType, q repository.DiscoverQuery, n int) result.Result[models.MediaResponseInfo] {
	f.mu.Lock()
	f.last = q
	f.mu.Unlock()
	return page("discover-"+string(mediaType), n, 3)
}

func (f *fakeDiscover) Genres(ctx context.Context, mediaType models.MediaType) result.Result[[]models.Genre] {
	return result.Success([]models.Genre{{ID: 18, Name: "Drama"}})
}

func TestDiscoverApply(t *testing.T) {
	src := &fakeDiscover{}
	vm := NewDiscoverViewModel(src, nil)
	defer vm.Close()

	minRating := 7.5
	vm.Apply(repository.DiscoverQuery{MinRating: &minRating})
	vm.Wait()
	assert.Len(t, vm.State().Results.Items, 2)

	src.mu.Lock()
	require.NotNil(t, src.last.MinRating)
	assert.Equal(t, 7.5, *src.last.MinRating)
	src.mu.Unlock()

	vm.SetMediaType(models.MediaTypeTV)
	vm.Wait()
	st := vm.State()
	assert.Equal(t, "discover-tv-1-0", st.Results.Items[0].Title)
	assert.Equal(t, []models.Genre{{ID: 18, Name: "Drama"}}, st.Genres)
}

type fakeLists struct {
	release chan struct{}
	adds    atomic.Int32
}

func (f *fakeLists) MyLists(ctx context.Context, n int) result.Result[models.MyListsResponse] {
	return result.Success(models.MyListsResponse{
		Page: 1,
		Results: []models.MyList{
			{ID: 1, Name: "Noir", ItemCount: 3, AddState: models.NotLoading()},
			{ID: 2, Name: "Heist", AddState: models.NotLoading()},
		},
		TotalPages: 1,
	})
}

func (f *fakeLists) CreateList(ctx context.Context, name, description string) result.Result[int] {
	return result.Success(3)
}

func (f *fakeLists) DeleteList(ctx context.Context, listID int) result.Empty {
	return result.Done()
}

func (f *fakeLists) AddToList(ctx context.Context, listID, mediaID int) result.Empty {
	f.adds.Add(1)
	<-f.release
	return result.Done()
}

func (f *fakeLists) RemoveFromList(ctx context.Context, listID, mediaID int) result.Empty {
	return result.Failure[struct{}](errors.New(errors.KindServer, nil))
}

func TestListsOneMutationPerList(t *testing.T) {
	src := &fakeLists{release: make(chan struct{})}
	vm := NewListsViewModel(src)
	defer vm.Close()

	vm.Load()
	vm.Wait()
	require.Len(t, vm.State().Lists, 2)

	assert.True(t, vm.AddToList(1, 603))
	assert.False(t, vm.AddToList(1, 604), "list 1 is busy")
	assert.True(t, vm.RemoveFromList(2, 603), "other lists are independent")
	assert.Equal(t, models.LoadStatusLoading, vm.State().Lists[0].AddState.Status)

	close(src.release)
	vm.Wait()

	lists := vm.State().Lists
	assert.Equal(t, models.LoadStatusSuccess, lists[0].AddState.Status)
	assert.Equal(t, 4, lists[0].ItemCount)
	assert.Equal(t, models.LoadStatusError, lists[1].AddState.Status)
	assert.Equal(t, int32(1), src.adds.Load())

	vm.DeleteList(2)
	vm.Wait()
	require.Len(t, vm.State().Lists, 1)
	assert.Equal(t, 1, vm.State().Lists[0].ID)
}

type fakeDetail struct {
	rated atomic.Bool
}

func (f *fakeDetail) Bundle(ctx context.Context, mediaType models.MediaType, id int) result.Result[repository.DetailBundle] {
	return result.Success(repository.DetailBundle{
		Details: models.MediaDetails{ID: id, MediaType: mediaType, Title: "Heat", BackdropPath: "/heat.jpg"},
	})
}

func (f *fakeDetail) Recommendations(ctx context.Context, mediaType models.MediaType, id, n int) result.Result[models.MediaResponseInfo] {
	return page("reco", n, 1)
}

func (f *fakeDetail) Reviews(ctx context.Context, mediaType models.MediaType, id, n int) result.Result[models.ReviewsResponse] {
	return result.Success(models.ReviewsResponse{Page: 1, Results: []models.Review{{ID: "r1", Author: "critic"}}})
}

func (f *fakeDetail) AccountState(ctx context.Context, mediaType models.MediaType, id int) result.Result[models.AccountState] {
	return result.Success(models.AccountState{ID: id, Rated: models.NotRated()})
}

func (f *fakeDetail) Rate(ctx context.Context, mediaType models.MediaType, id int, rating models.Rated) result.Empty {
	f.rated.Store(true)
	return result.Done()
}

type fakeColors struct {
	url string
}

func (f *fakeColors) CalculateDominantColor(ctx context.Context, url string, cacheSize int) *models.DominantColors {
	f.url = url
	return &models.DominantColors{Background: color.RGBA{R: 10, A: 0xff}, Foreground: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}
}

func TestDetailLoadAndRate(t *testing.T) {
	src := &fakeDetail{}
	colors := &fakeColors{}
	vm := NewDetailViewModel(src, nil, colors, DetailOptions{
		ImageBase:      "https://image.tmdb.org/t/p/",
		ColorCacheSize: 10,
		DynamicColors:  true,
	})
	defer vm.Close()

	vm.Load(models.MediaTypeMovie, 949)
	vm.Wait()

	st := vm.State()
	assert.Equal(t, models.LoadStatusSuccess, st.Status.Status)
	require.NotNil(t, st.Bundle)
	assert.Equal(t, "Heat", st.Bundle.Details.Title)
	require.NotNil(t, st.Colors)
	assert.Equal(t, "https://image.tmdb.org/t/p/w300/heat.jpg", colors.url)
	assert.Len(t, st.Reviews, 1)
	assert.Len(t, st.Recommendations.Items, 2)
	require.NotNil(t, st.Account)
	assert.False(t, st.Account.Rated.IsRated())

	rating, err := models.RatedValue(8.5)
	require.NoError(t, err)
	vm.Rate(rating)
	vm.Wait()

	st = vm.State()
	assert.True(t, src.rated.Load())
	assert.Equal(t, models.LoadStatusSuccess, st.AccountAction.Status)
	v, ok := st.Account.Rated.Value()
	require.True(t, ok)
	assert.Equal(t, 8.5, v)
}

type fakePrefs struct {
	saved models.Preferences
}

func (f *fakePrefs) Preferences() result.Result[models.Preferences] {
	return result.Success(models.DefaultPreferences())
}

func (f *fakePrefs) SavePreferences(p models.Preferences) result.Empty {
	f.saved = p
	return result.Done()
}

func TestSettingsSave(t *testing.T) {
	src := &fakePrefs{}
	vm := NewSettingsViewModel(src)
	defer vm.Close()

	assert.Equal(t, models.DefaultPreferences(), vm.State().Preferences)

	prefs := models.DefaultPreferences()
	prefs.Theme = models.ThemeDark
	require.NoError(t, vm.Save(prefs))
	assert.Equal(t, models.ThemeDark, vm.State().Preferences.Theme)
	assert.Equal(t, prefs, src.saved)
}
