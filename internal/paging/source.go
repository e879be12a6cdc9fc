// Package paging turns a "fetch page N" function into an incrementally
// loadable sequence with bidirectional keys and an optional page cap.
package paging

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/result"
)

// Envelope is one page as reported by the server.
type Envelope[T any] struct {
	Page         int
	Items        []T
	TotalPages   int
	TotalResults int
}

// LoadPageFunc fetches one page. Pages are 1-based.
type LoadPageFunc[T any] func(ctx context.Context, page int) result.Result[Envelope[T]]

// LoadParams selects the page to load. A nil Key means the first load.
type LoadParams struct {
	Key *int
}

// LoadResult is either a page with its neighbour keys or an error for this
// attempt. An error is retryable with the same key.
type LoadResult[T any] struct {
	Data    []T
	Key     int
	PrevKey *int
	NextKey *int
	Err     *errors.DataError

	// TotalPages is the server count clamped to the cap.
	TotalPages   int
	TotalResults int
}

func (r LoadResult[T]) IsError() bool {
	return r.Err != nil
}

// Page is a loaded page kept by a consumer.
type Page[T any] struct {
	Data    []T
	Key     int
	PrevKey *int
	NextKey *int
}

// State is what a consumer has loaded so far. Anchor is the index, across
// all pages, of the item last visited; nil when unknown.
type State[T any] struct {
	Pages  []Page[T]
	Anchor *int
}

// ClosestPage returns the page containing the anchor position, clamped to the
// first or last page.
func (s State[T]) ClosestPage() *Page[T] {
	if s.Anchor == nil || len(s.Pages) == 0 {
		return nil
	}
	pos := *s.Anchor
	if pos < 0 {
		return &s.Pages[0]
	}
	for i := range s.Pages {
		if pos < len(s.Pages[i].Data) {
			return &s.Pages[i]
		}
		pos -= len(s.Pages[i].Data)
	}
	return &s.Pages[len(s.Pages)-1]
}

// Source loads pages. Concurrent loads of the same key on one Source share a
// single fetch.
type Source[T any] struct {
	load     LoadPageFunc[T]
	maxPages *int
	group    singleflight.Group
}

// NewSource creates a Source. maxPages caps the sequence when non-nil.
func NewSource[T any](load LoadPageFunc[T], maxPages *int) *Source[T] {
	return &Source[T]{load: load, maxPages: maxPages}
}

func (s *Source[T]) Load(ctx context.Context, params LoadParams) LoadResult[T] {
	page := 1
	if params.Key != nil && *params.Key > 1 {
		page = *params.Key
	}
	// past the cap the sequence is over and nothing is fetched
	if s.maxPages != nil && page > *s.maxPages {
		return LoadResult[T]{Data: []T{}, Key: page, PrevKey: intPtr(*s.maxPages), TotalPages: *s.maxPages}
	}

	v, _, _ := s.group.Do(strconv.Itoa(page), func() (interface{}, error) {
		return s.load(ctx, page), nil
	})
	res := v.(result.Result[Envelope[T]])

	if res.IsError() {
		return LoadResult[T]{Key: page, Err: res.Err()}
	}
	env := res.Value()

	total := env.TotalPages
	if s.maxPages != nil && *s.maxPages < total {
		total = *s.maxPages
	}

	out := LoadResult[T]{Data: env.Items, Key: page, TotalPages: total, TotalResults: env.TotalResults}
	if out.Data == nil {
		out.Data = []T{}
	}
	if page > 1 {
		out.PrevKey = intPtr(page - 1)
	}
	if page < total {
		out.NextKey = intPtr(page + 1)
	}
	return out
}

// RefreshKey picks the key to resume from after invalidation: the page next to
// the anchor's neighbours, so a refresh does not always restart at page 1.
func (s *Source[T]) RefreshKey(state State[T]) *int {
	closest := state.ClosestPage()
	if closest == nil {
		return nil
	}
	if closest.PrevKey != nil {
		return intPtr(*closest.PrevKey + 1)
	}
	if closest.NextKey != nil {
		return intPtr(*closest.NextKey - 1)
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}

// Media adapts a repository page function to a LoadPageFunc.
func Media(fn func(ctx context.Context, page int) result.Result[models.MediaResponseInfo]) LoadPageFunc[models.MediaInfo] {
	return func(ctx context.Context, page int) result.Result[Envelope[models.MediaInfo]] {
		return result.Map(fn(ctx, page), func(r models.MediaResponseInfo) Envelope[models.MediaInfo] {
			return Envelope[models.MediaInfo]{
				Page:         r.Page,
				Items:        r.Results,
				TotalPages:   r.TotalPages,
				TotalResults: r.TotalResults,
			}
		})
	}
}
