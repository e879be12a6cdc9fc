package viewmodel

import (
	"context"
	"sync"

	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/paging"
	"github.com/amaumene/cinescope/internal/repository"
	"github.com/amaumene/cinescope/internal/state"
)

type DiscoverState struct {
	MediaType models.MediaType         `json:"media_type"`
	Query     repository.DiscoverQuery `json:"query"`
	Genres    []models.Genre           `json:"genres"`
	Results   MediaList                `json:"results"`
}

type DiscoverViewModel struct {
	*state.Holder[DiscoverState]

	source   DiscoverSource
	maxPages *int

	mu    sync.Mutex
	pager *paging.Pager[models.MediaInfo]
}

func NewDiscoverViewModel(source DiscoverSource, maxPages *int) *DiscoverViewModel {
	return &DiscoverViewModel{
		Holder: state.NewHolder(DiscoverState{
			MediaType: models.MediaTypeMovie,
			Genres:    []models.Genre{},
			Results:   emptyList(),
		}),
		source:   source,
		maxPages: maxPages,
	}
}

// Apply replaces the query and reloads from page 1.
func (vm *DiscoverViewModel) Apply(query repository.DiscoverQuery) {
	vm.Update(func(s DiscoverState) DiscoverState {
		s.Query = query
		return s
	})
	vm.reload()
}

// SetMediaType switches between movies and TV, reloading results and genres.
func (vm *DiscoverViewModel) SetMediaType(mediaType models.MediaType) {
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		return
	}
	vm.Update(func(s DiscoverState) DiscoverState {
		s.MediaType = mediaType
		s.Genres = []models.Genre{}
		return s
	})
	vm.LoadGenres()
	vm.reload()
}

func (vm *DiscoverViewModel) LoadGenres() {
	mediaType := vm.State().MediaType
	vm.Launch(func(ctx context.Context) {
		vm.source.Genres(ctx, mediaType).OnSuccess(func(genres []models.Genre) {
			vm.Update(func(s DiscoverState) DiscoverState {
				if s.MediaType == mediaType {
					s.Genres = genres
				}
				return s
			})
		})
	})
}

func (vm *DiscoverViewModel) reload() {
	st := vm.State()
	mediaType, query := st.MediaType, st.Query

	p := newMediaPager(vm.Holder,
		func(ctx context.Context, page int) resultMedia {
			return vm.source.Discover(ctx, mediaType, query, page)
		},
		vm.maxPages,
		func(s DiscoverState, snap MediaList) DiscoverState {
			s.Results = snap
			return s
		},
		func(p *paging.Pager[models.MediaInfo]) bool {
			return vm.current() == p
		})

	vm.mu.Lock()
	vm.pager = p
	vm.mu.Unlock()

	vm.Launch(func(ctx context.Context) { p.Refresh(ctx) })
}

func (vm *DiscoverViewModel) LoadMore() {
	if p := vm.current(); p != nil {
		vm.Launch(func(ctx context.Context) { p.Append(ctx) })
	}
}

func (vm *DiscoverViewModel) Retry() {
	if p := vm.current(); p != nil {
		vm.Launch(func(ctx context.Context) { p.Retry(ctx) })
	}
}

func (vm *DiscoverViewModel) current() *paging.Pager[models.MediaInfo] {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.pager
}
