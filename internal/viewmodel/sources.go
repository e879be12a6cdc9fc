// Package viewmodel holds one state container per screen. Each view model
// publishes immutable snapshots through a state.Holder and takes intents as
// method calls; network work runs under the holder scope and is dropped once
// the view model is closed.
package viewmodel

import (
	"context"

	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/paging"
	"github.com/amaumene/cinescope/internal/repository"
	"github.com/amaumene/cinescope/internal/result"
	"github.com/amaumene/cinescope/internal/state"
)

// The interfaces below are the slices of the repositories each screen needs.

type HomeSource interface {
	Trending(ctx context.Context, mediaType models.MediaType, window models.TimeWindow, page int) result.Result[models.MediaResponseInfo]
	Popular(ctx context.Context, mediaType models.MediaType, page int) result.Result[models.MediaResponseInfo]
	TopRated(ctx context.Context, mediaType models.MediaType, page int) result.Result[models.MediaResponseInfo]
}

type SearchSource interface {
	SearchMulti(ctx context.Context, query string, page int, includeAdult bool) result.Result[models.MediaResponseInfo]
	SearchByType(ctx context.Context, mediaType models.MediaType, query string, page int, includeAdult bool) result.Result[models.MediaResponseInfo]
}

type DiscoverSource interface {
	Discover(ctx context.Context, mediaType models.MediaType, query repository.DiscoverQuery, page int) result.Result[models.MediaResponseInfo]
	Genres(ctx context.Context, mediaType models.MediaType) result.Result[[]models.Genre]
}

type ReferenceSource interface {
	Countries(ctx context.Context) result.Result[[]models.Country]
	Languages(ctx context.Context) result.Result[[]models.Language]
}

type DetailSource interface {
	Bundle(ctx context.Context, mediaType models.MediaType, id int) result.Result[repository.DetailBundle]
	Recommendations(ctx context.Context, mediaType models.MediaType, id, page int) result.Result[models.MediaResponseInfo]
	Reviews(ctx context.Context, mediaType models.MediaType, id, page int) result.Result[models.ReviewsResponse]
	AccountState(ctx context.Context, mediaType models.MediaType, id int) result.Result[models.AccountState]
	Rate(ctx context.Context, mediaType models.MediaType, id int, rating models.Rated) result.Empty
}

type AccountSource interface {
	CreateRequestToken(ctx context.Context) result.Result[string]
	CreateSession(ctx context.Context, requestToken string) result.Result[models.User]
	CurrentUser() result.Result[*models.User]
	Logout(ctx context.Context) result.Empty
	Collection(ctx context.Context, kind repository.Collection, mediaType models.MediaType, page int) result.Result[models.MediaResponseInfo]
	SetWatchlist(ctx context.Context, mediaType models.MediaType, mediaID int, on bool) result.Empty
	SetFavorite(ctx context.Context, mediaType models.MediaType, mediaID int, on bool) result.Empty
}

type ListSource interface {
	MyLists(ctx context.Context, page int) result.Result[models.MyListsResponse]
	CreateList(ctx context.Context, name, description string) result.Result[int]
	DeleteList(ctx context.Context, listID int) result.Empty
	AddToList(ctx context.Context, listID, mediaID int) result.Empty
	RemoveFromList(ctx context.Context, listID, mediaID int) result.Empty
}

type PreferenceSource interface {
	Preferences() result.Result[models.Preferences]
	SavePreferences(prefs models.Preferences) result.Empty
}

// ColorSource is satisfied by *colors.Extractor.
type ColorSource interface {
	CalculateDominantColor(ctx context.Context, url string, cacheSize int) *models.DominantColors
}

var (
	_ HomeSource       = (*repository.HomeRepository)(nil)
	_ SearchSource     = (*repository.SearchRepository)(nil)
	_ DiscoverSource   = (*repository.DiscoverRepository)(nil)
	_ ReferenceSource  = (*repository.SettingsRepository)(nil)
	_ PreferenceSource = (*repository.SettingsRepository)(nil)
	_ DetailSource     = (*repository.DetailRepository)(nil)
	_ AccountSource    = (*repository.UserRepository)(nil)
	_ ListSource       = (*repository.UserRepository)(nil)
)

// MediaList is the snapshot type of every paged media list.
type MediaList = paging.Snapshot[models.MediaInfo]

type resultMedia = result.Result[models.MediaResponseInfo]

func emptyList() MediaList {
	return MediaList{
		Items:   []models.MediaInfo{},
		Refresh: models.NotLoading(),
		Append:  models.NotLoading(),
		Prepend: models.NotLoading(),
	}
}

// newMediaPager builds a pager over fn whose snapshots are written into the
// holder through set. A pager that is no longer current (per isCurrent) is
// ignored so a superseded list cannot overwrite its replacement.
func newMediaPager[S any](
	h *state.Holder[S],
	fn func(ctx context.Context, page int) resultMedia,
	maxPages *int,
	set func(S, MediaList) S,
	isCurrent func(*paging.Pager[models.MediaInfo]) bool,
) *paging.Pager[models.MediaInfo] {
	pager := paging.NewPager(paging.NewSource(paging.Media(fn), maxPages))
	pager.OnChange(func(snap MediaList) {
		if isCurrent != nil && !isCurrent(pager) {
			return
		}
		h.Update(func(s S) S { return set(s, snap) })
	})
	return pager
}

// errOf converts an empty result into a plain error, nil on success.
func errOf(r result.Empty) error {
	if err := r.Err(); err != nil {
		return err
	}
	return nil
}
