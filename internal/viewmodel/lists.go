package viewmodel

import (
	"context"

	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/state"
)

type ListsState struct {
	Lists  []models.MyList  `json:"lists"`
	Status models.LoadState `json:"status"`
	Create models.LoadState `json:"create"`
}

// ListsViewModel shows the user's lists. Each list carries its own AddState
// and at most one add or remove runs against a list at a time.
type ListsViewModel struct {
	*state.Holder[ListsState]

	source ListSource
}

func NewListsViewModel(source ListSource) *ListsViewModel {
	return &ListsViewModel{
		Holder: state.NewHolder(ListsState{
			Lists:  []models.MyList{},
			Status: models.NotLoading(),
			Create: models.NotLoading(),
		}),
		source: source,
	}
}

func (vm *ListsViewModel) Load() {
	vm.Update(func(s ListsState) ListsState {
		s.Status = models.Loading()
		return s
	})
	vm.Launch(vm.load)
}

func (vm *ListsViewModel) load(ctx context.Context) {
	res := vm.source.MyLists(ctx, 1)
	vm.Update(func(s ListsState) ListsState {
		if res.IsError() {
			s.Status = models.Failed(res.Err())
			return s
		}
		s.Lists = res.Value().Results
		s.Status = models.Succeeded()
		return s
	})
}

// AddToList adds mediaID to listID. It reports false, doing nothing, when a
// mutation on that list is already in flight or the list is unknown.
func (vm *ListsViewModel) AddToList(listID, mediaID int) bool {
	return vm.mutate(listID, 1, func(ctx context.Context) error {
		return errOf(vm.source.AddToList(ctx, listID, mediaID))
	})
}

func (vm *ListsViewModel) RemoveFromList(listID, mediaID int) bool {
	return vm.mutate(listID, -1, func(ctx context.Context) error {
		return errOf(vm.source.RemoveFromList(ctx, listID, mediaID))
	})
}

func (vm *ListsViewModel) mutate(listID, delta int, call func(context.Context) error) bool {
	started := false
	vm.Update(func(s ListsState) ListsState {
		return withList(s, listID, func(l *models.MyList) {
			if l.AddState.IsLoading() {
				return
			}
			started = true
			l.AddState = models.Loading()
		})
	})
	if !started {
		return false
	}

	vm.Launch(func(ctx context.Context) {
		err := call(ctx)
		vm.Update(func(s ListsState) ListsState {
			return withList(s, listID, func(l *models.MyList) {
				if err != nil {
					l.AddState = models.Failed(errors.Classify(err))
					return
				}
				l.ItemCount = max(0, l.ItemCount+delta)
				l.AddState = models.Succeeded()
			})
		})
	})
	return true
}

// CreateList creates a list and reloads.
func (vm *ListsViewModel) CreateList(name, description string) {
	vm.Update(func(s ListsState) ListsState {
		s.Create = models.Loading()
		return s
	})
	vm.Launch(func(ctx context.Context) {
		res := vm.source.CreateList(ctx, name, description)
		vm.Update(func(s ListsState) ListsState {
			if res.IsError() {
				s.Create = models.Failed(res.Err())
			} else {
				s.Create = models.Succeeded()
			}
			return s
		})
		if res.IsSuccess() {
			vm.load(ctx)
		}
	})
}

func (vm *ListsViewModel) DeleteList(listID int) {
	vm.Launch(func(ctx context.Context) {
		vm.source.DeleteList(ctx, listID).OnSuccess(func(struct{}) {
			vm.Update(func(s ListsState) ListsState {
				lists := make([]models.MyList, 0, len(s.Lists))
				for _, l := range s.Lists {
					if l.ID != listID {
						lists = append(lists, l)
					}
				}
				s.Lists = lists
				return s
			})
		})
	})
}

// withList copies the list slice and edits one entry.
func withList(s ListsState, listID int, edit func(*models.MyList)) ListsState {
	lists := make([]models.MyList, len(s.Lists))
	copy(lists, s.Lists)
	for i := range lists {
		if lists[i].ID == listID {
			edit(&lists[i])
			break
		}
	}
	s.Lists = lists
	return s
}
