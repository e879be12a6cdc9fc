package viewmodel

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/paging"
	"github.com/amaumene/cinescope/internal/state"
	"github.com/amaumene/cinescope/pkg/debounce"
)

// QueryDebounce is the quiet period before a typed query hits the network.
const QueryDebounce = 300 * time.Millisecond

type SearchState struct {
	Query        string           `json:"query"`
	MediaType    models.MediaType `json:"media_type"`
	IncludeAdult bool             `json:"include_adult"`
	Results      MediaList        `json:"results"`
}

type SearchViewModel struct {
	*state.Holder[SearchState]

	source    SearchSource
	maxPages  *int
	debouncer *debounce.Debouncer

	mu    sync.Mutex
	pager *paging.Pager[models.MediaInfo]
}

func NewSearchViewModel(source SearchSource, maxPages *int, includeAdult bool) *SearchViewModel {
	return &SearchViewModel{
		Holder: state.NewHolder(SearchState{
			MediaType:    models.MediaTypeAll,
			IncludeAdult: includeAdult,
			Results:      emptyList(),
		}),
		source:    source,
		maxPages:  maxPages,
		debouncer: debounce.New(QueryDebounce),
	}
}

// SetQuery records the query and schedules a search. A newer keystroke
// cancels the pending one; a blank query clears the results.
func (vm *SearchViewModel) SetQuery(query string) {
	vm.Update(func(s SearchState) SearchState {
		s.Query = query
		return s
	})
	if strings.TrimSpace(query) == "" {
		vm.debouncer.Cancel()
		vm.setPager(nil)
		vm.Update(func(s SearchState) SearchState {
			s.Results = emptyList()
			return s
		})
		return
	}
	vm.debouncer.Do(vm.Context(), vm.search)
}

// SetMediaType narrows the search and reruns it right away.
func (vm *SearchViewModel) SetMediaType(mediaType models.MediaType) {
	vm.Update(func(s SearchState) SearchState {
		s.MediaType = mediaType
		return s
	})
	if strings.TrimSpace(vm.State().Query) == "" {
		return
	}
	vm.debouncer.Cancel()
	vm.Launch(vm.search)
}

func (vm *SearchViewModel) search(ctx context.Context) {
	st := vm.State()
	query, mediaType, adult := st.Query, st.MediaType, st.IncludeAdult

	fn := func(ctx context.Context, page int) resultMedia {
		if mediaType == models.MediaTypeAll {
			return vm.source.SearchMulti(ctx, query, page, adult)
		}
		return vm.source.SearchByType(ctx, mediaType, query, page, adult)
	}
	p := newMediaPager(vm.Holder, fn, vm.maxPages,
		func(s SearchState, snap MediaList) SearchState {
			s.Results = snap
			return s
		},
		vm.isCurrent)

	vm.setPager(p)
	p.Refresh(ctx)
}

func (vm *SearchViewModel) LoadMore() {
	if p := vm.current(); p != nil {
		vm.Launch(func(ctx context.Context) { p.Append(ctx) })
	}
}

func (vm *SearchViewModel) Retry() {
	if p := vm.current(); p != nil {
		vm.Launch(func(ctx context.Context) { p.Retry(ctx) })
	}
}

func (vm *SearchViewModel) Close() {
	vm.debouncer.Cancel()
	vm.Holder.Close()
}

func (vm *SearchViewModel) setPager(p *paging.Pager[models.MediaInfo]) {
	vm.mu.Lock()
	vm.pager = p
	vm.mu.Unlock()
}

func (vm *SearchViewModel) current() *paging.Pager[models.MediaInfo] {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.pager
}

func (vm *SearchViewModel) isCurrent(p *paging.Pager[models.MediaInfo]) bool {
	return vm.current() == p
}
