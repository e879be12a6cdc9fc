package viewmodel

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/filters"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/repository"
	"github.com/amaumene/cinescope/internal/state"
	"github.com/amaumene/cinescope/pkg/debounce"
)

type FiltersScreen struct {
	Filters   filters.State    `json:"filters"`
	Reference models.LoadState `json:"reference"`
}

// FiltersViewModel owns the discover filter state. Edits go through
// filters.Reduce; origin search re-filters the candidate lists after
// filters.SearchDebounce of quiet.
type FiltersViewModel struct {
	*state.Holder[FiltersScreen]

	reference ReferenceSource
	debouncer *debounce.Debouncer
}

func NewFiltersViewModel(reference ReferenceSource) *FiltersViewModel {
	return &FiltersViewModel{
		Holder: state.NewHolder(FiltersScreen{
			Filters:   filters.Baseline(),
			Reference: models.NotLoading(),
		}),
		reference: reference,
		debouncer: debounce.New(filters.SearchDebounce),
	}
}

// Dispatch applies e and returns the resulting filter state.
func (vm *FiltersViewModel) Dispatch(e filters.Event) filters.State {
	vm.Update(func(s FiltersScreen) FiltersScreen {
		s.Filters = filters.Reduce(s.Filters, e)
		return s
	})

	switch e.(type) {
	case filters.SetSearchQuery, *filters.SetSearchQuery:
		vm.debouncer.Do(vm.Context(), func(ctx context.Context) {
			vm.UpdateIn(ctx, func(s FiltersScreen) FiltersScreen {
				s.Filters = filters.Reduce(s.Filters, filters.FilterOrigins{})
				return s
			})
		})
	}
	return vm.State().Filters
}

// LoadReference fetches the country and language catalogs.
func (vm *FiltersViewModel) LoadReference() {
	vm.Update(func(s FiltersScreen) FiltersScreen {
		s.Reference = models.Loading()
		return s
	})
	vm.Launch(func(ctx context.Context) {
		var (
			countries []models.Country
			languages []models.Language
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			countries, err = vm.reference.Countries(gctx).Get()
			return err
		})
		g.Go(func() error {
			var err error
			languages, err = vm.reference.Languages(gctx).Get()
			return err
		})
		err := g.Wait()

		vm.Update(func(s FiltersScreen) FiltersScreen {
			if err != nil {
				s.Reference = models.Failed(errors.Classify(err))
				return s
			}
			s.Filters = filters.Reduce(s.Filters, filters.SetReferenceData{Countries: countries, Languages: languages})
			s.Reference = models.Succeeded()
			return s
		})
	})
}

// Query converts the applied filters into discover parameters.
func (vm *FiltersViewModel) Query() repository.DiscoverQuery {
	return vm.State().Filters.DiscoverQuery()
}

func (vm *FiltersViewModel) Close() {
	vm.debouncer.Cancel()
	vm.Holder.Close()
}
