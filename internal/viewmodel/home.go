package viewmodel

import (
	"context"
	"sync"

	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/paging"
	"github.com/amaumene/cinescope/internal/state"
)

type Section string

const (
	SectionTrending Section = "trending"
	SectionPopular  Section = "popular"
	SectionTopRated Section = "top_rated"
)

var homeSections = []Section{SectionTrending, SectionPopular, SectionTopRated}

type HomeState struct {
	MediaType models.MediaType      `json:"media_type"`
	Window    models.TimeWindow     `json:"window"`
	Sections  map[Section]MediaList `json:"sections"`
}

// HomeViewModel drives the trending, popular and top rated rows.
type HomeViewModel struct {
	*state.Holder[HomeState]

	source   HomeSource
	maxPages *int

	mu     sync.Mutex
	pagers map[Section]*paging.Pager[models.MediaInfo]
}

func NewHomeViewModel(source HomeSource, maxPages *int) *HomeViewModel {
	initial := HomeState{
		MediaType: models.MediaTypeMovie,
		Window:    models.TimeWindowDay,
		Sections:  make(map[Section]MediaList, len(homeSections)),
	}
	for _, s := range homeSections {
		initial.Sections[s] = emptyList()
	}
	return &HomeViewModel{
		Holder:   state.NewHolder(initial),
		source:   source,
		maxPages: maxPages,
		pagers:   make(map[Section]*paging.Pager[models.MediaInfo]),
	}
}

// Load rebuilds every row for the current media type and window.
func (vm *HomeViewModel) Load() {
	st := vm.State()
	pagers := make(map[Section]*paging.Pager[models.MediaInfo], len(homeSections))
	for _, section := range homeSections {
		pagers[section] = vm.newSectionPager(section, st.MediaType, st.Window)
	}

	vm.mu.Lock()
	vm.pagers = pagers
	vm.mu.Unlock()

	for _, p := range pagers {
		p := p
		vm.Launch(func(ctx context.Context) { p.Refresh(ctx) })
	}
}

func (vm *HomeViewModel) newSectionPager(section Section, mediaType models.MediaType, window models.TimeWindow) *paging.Pager[models.MediaInfo] {
	var fn func(ctx context.Context, page int) resultMedia
	switch section {
	case SectionTrending:
		fn = func(ctx context.Context, page int) resultMedia {
			return vm.source.Trending(ctx, mediaType, window, page)
		}
	case SectionPopular:
		fn = func(ctx context.Context, page int) resultMedia {
			return vm.source.Popular(ctx, mediaType, page)
		}
	default:
		fn = func(ctx context.Context, page int) resultMedia {
			return vm.source.TopRated(ctx, mediaType, page)
		}
	}

	return newMediaPager(vm.Holder, fn, vm.maxPages,
		func(s HomeState, snap MediaList) HomeState {
			sections := make(map[Section]MediaList, len(s.Sections))
			for k, v := range s.Sections {
				sections[k] = v
			}
			sections[section] = snap
			s.Sections = sections
			return s
		},
		func(p *paging.Pager[models.MediaInfo]) bool {
			vm.mu.Lock()
			defer vm.mu.Unlock()
			return vm.pagers[section] == p
		})
}

// SetMediaType switches every row to mediaType and reloads.
func (vm *HomeViewModel) SetMediaType(mediaType models.MediaType) {
	if mediaType == models.MediaTypePerson {
		return
	}
	vm.Update(func(s HomeState) HomeState {
		s.MediaType = mediaType
		return s
	})
	vm.Load()
}

// SetWindow changes the trending window; only that row reloads.
func (vm *HomeViewModel) SetWindow(window models.TimeWindow) {
	vm.Update(func(s HomeState) HomeState {
		s.Window = window
		return s
	})
	st := vm.State()
	p := vm.newSectionPager(SectionTrending, st.MediaType, window)

	vm.mu.Lock()
	vm.pagers[SectionTrending] = p
	vm.mu.Unlock()

	vm.Launch(func(ctx context.Context) { p.Refresh(ctx) })
}

// LoadMore appends the next page of one row.
func (vm *HomeViewModel) LoadMore(section Section) {
	if p := vm.pager(section); p != nil {
		vm.Launch(func(ctx context.Context) { p.Append(ctx) })
	}
}

// Retry repeats the failed load of one row.
func (vm *HomeViewModel) Retry(section Section) {
	if p := vm.pager(section); p != nil {
		vm.Launch(func(ctx context.Context) { p.Retry(ctx) })
	}
}

// Loaded reports whether Load has built the rows at least once.
func (vm *HomeViewModel) Loaded() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.pagers) > 0
}

func (vm *HomeViewModel) pager(section Section) *paging.Pager[models.MediaInfo] {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.pagers[section]
}
