package viewmodel

import (
	"context"
	"strings"
	"sync"

	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/paging"
	"github.com/amaumene/cinescope/internal/repository"
	"github.com/amaumene/cinescope/internal/state"
)

// ColorImageSize is the TMDB image size fetched for color extraction.
const ColorImageSize = "w300"

type DetailState struct {
	MediaType       models.MediaType         `json:"media_type"`
	ID              int                      `json:"id"`
	Status          models.LoadState         `json:"status"`
	Bundle          *repository.DetailBundle `json:"bundle,omitempty"`
	Colors          *models.DominantColors   `json:"colors,omitempty"`
	Account         *models.AccountState     `json:"account,omitempty"`
	AccountAction   models.LoadState         `json:"account_action"`
	Reviews         []models.Review          `json:"reviews"`
	Recommendations MediaList                `json:"recommendations"`
}

type DetailOptions struct {
	ImageBase      string
	ColorCacheSize int
	MaxPages       *int
	DynamicColors  bool
}

// DetailViewModel drives one media detail screen.
type DetailViewModel struct {
	*state.Holder[DetailState]

	source  DetailSource
	account AccountSource
	colors  ColorSource
	opts    DetailOptions

	mu    sync.Mutex
	recos *paging.Pager[models.MediaInfo]
}

// NewDetailViewModel creates the view model. account and colors may be nil.
func NewDetailViewModel(source DetailSource, account AccountSource, colors ColorSource, opts DetailOptions) *DetailViewModel {
	return &DetailViewModel{
		Holder: state.NewHolder(DetailState{
			Status:          models.NotLoading(),
			AccountAction:   models.NotLoading(),
			Reviews:         []models.Review{},
			Recommendations: emptyList(),
		}),
		source:  source,
		account: account,
		colors:  colors,
		opts:    opts,
	}
}

// Load fetches everything the screen shows for one title.
func (vm *DetailViewModel) Load(mediaType models.MediaType, id int) {
	vm.Update(func(s DetailState) DetailState {
		s.MediaType, s.ID = mediaType, id
		s.Status = models.Loading()
		return s
	})

	vm.Launch(func(ctx context.Context) {
		res := vm.source.Bundle(ctx, mediaType, id)
		vm.Update(func(s DetailState) DetailState {
			if res.IsError() {
				s.Status = models.Failed(res.Err())
				return s
			}
			bundle := res.Value()
			s.Bundle = &bundle
			s.Status = models.Succeeded()
			return s
		})
		if res.IsSuccess() && vm.colors != nil && vm.opts.DynamicColors {
			vm.loadColors(ctx, res.Value().Details)
		}
	})

	vm.Launch(func(ctx context.Context) {
		vm.source.AccountState(ctx, mediaType, id).
			OnSuccess(func(as models.AccountState) {
				vm.Update(func(s DetailState) DetailState {
					s.Account = &as
					return s
				})
			})
	})

	vm.Launch(func(ctx context.Context) {
		vm.source.Reviews(ctx, mediaType, id, 1).
			OnSuccess(func(r models.ReviewsResponse) {
				vm.Update(func(s DetailState) DetailState {
					s.Reviews = r.Results
					return s
				})
			})
	})

	p := newMediaPager(vm.Holder,
		func(ctx context.Context, page int) resultMedia {
			return vm.source.Recommendations(ctx, mediaType, id, page)
		},
		vm.opts.MaxPages,
		func(s DetailState, snap MediaList) DetailState {
			s.Recommendations = snap
			return s
		},
		func(p *paging.Pager[models.MediaInfo]) bool {
			vm.mu.Lock()
			defer vm.mu.Unlock()
			return vm.recos == p
		})
	vm.mu.Lock()
	vm.recos = p
	vm.mu.Unlock()
	vm.Launch(func(ctx context.Context) { p.Refresh(ctx) })
}

func (vm *DetailViewModel) loadColors(ctx context.Context, d models.MediaDetails) {
	path := d.BackdropPath
	if path == "" {
		path = d.PosterPath
	}
	if path == "" {
		return
	}
	url := strings.TrimRight(vm.opts.ImageBase, "/") + "/" + ColorImageSize + path
	if c := vm.colors.CalculateDominantColor(ctx, url, vm.opts.ColorCacheSize); c != nil {
		vm.Update(func(s DetailState) DetailState {
			s.Colors = c
			return s
		})
	}
}

// LoadMoreRecommendations appends the next recommendations page.
func (vm *DetailViewModel) LoadMoreRecommendations() {
	vm.mu.Lock()
	p := vm.recos
	vm.mu.Unlock()
	if p != nil {
		vm.Launch(func(ctx context.Context) { p.Append(ctx) })
	}
}

// Rate sets or clears the user's rating.
func (vm *DetailViewModel) Rate(rating models.Rated) {
	vm.mutateAccount(func(ctx context.Context, st DetailState) error {
		return errOf(vm.source.Rate(ctx, st.MediaType, st.ID, rating))
	}, func(as *models.AccountState) { as.Rated = rating })
}

func (vm *DetailViewModel) SetWatchlist(on bool) {
	if vm.account == nil {
		return
	}
	vm.mutateAccount(func(ctx context.Context, st DetailState) error {
		return errOf(vm.account.SetWatchlist(ctx, st.MediaType, st.ID, on))
	}, func(as *models.AccountState) { as.Watchlist = on })
}

func (vm *DetailViewModel) SetFavorite(on bool) {
	if vm.account == nil {
		return
	}
	vm.mutateAccount(func(ctx context.Context, st DetailState) error {
		return errOf(vm.account.SetFavorite(ctx, st.MediaType, st.ID, on))
	}, func(as *models.AccountState) { as.Favorite = on })
}

// mutateAccount runs one account mutation at a time and patches the local
// account state when it succeeds.
func (vm *DetailViewModel) mutateAccount(call func(context.Context, DetailState) error, patch func(*models.AccountState)) {
	started := false
	vm.Update(func(s DetailState) DetailState {
		if s.AccountAction.IsLoading() || s.ID == 0 {
			return s
		}
		started = true
		s.AccountAction = models.Loading()
		return s
	})
	if !started {
		return
	}

	st := vm.State()
	vm.Launch(func(ctx context.Context) {
		err := call(ctx, st)
		vm.Update(func(s DetailState) DetailState {
			if err != nil {
				s.AccountAction = models.Failed(errors.Classify(err))
				return s
			}
			as := models.AccountState{ID: s.ID, Rated: models.NotRated()}
			if s.Account != nil {
				as = *s.Account
			}
			patch(&as)
			s.Account = &as
			s.AccountAction = models.Succeeded()
			return s
		})
	})
}
