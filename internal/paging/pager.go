package paging

import (
	"context"
	"sync"

	"github.com/amaumene/cinescope/internal/models"
)

// Snapshot is an immutable view of a Pager.
type Snapshot[T any] struct {
	Items        []T              `json:"items"`
	Refresh      models.LoadState `json:"refresh"`
	Append       models.LoadState `json:"append"`
	Prepend      models.LoadState `json:"prepend"`
	EndReached   bool             `json:"end_reached"`
	LoadedPages  int              `json:"loaded_pages"`
	FirstPageKey int              `json:"first_page"`
}

type op int

const (
	opNone op = iota
	opRefresh
	opAppend
	opPrepend
)

// Pager accumulates pages from a Source for one logical list. An append
// error is scoped to that page: already loaded pages stay.
type Pager[T any] struct {
	source *Source[T]

	mu           sync.Mutex
	pages        []Page[T]
	anchor       *int
	refreshState models.LoadState
	appendState  models.LoadState
	prependState models.LoadState
	failed       op
	generation   int
	appendSeq    int
	prependSeq   int
	onChange     func(Snapshot[T])
}

func NewPager[T any](source *Source[T]) *Pager[T] {
	return &Pager[T]{
		source:       source,
		refreshState: models.NotLoading(),
		appendState:  models.NotLoading(),
		prependState: models.NotLoading(),
	}
}

// OnChange registers fn to receive a snapshot after every state change. fn runs
// with the pager locked and must not call back into it.
func (p *Pager[T]) OnChange(fn func(Snapshot[T])) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// SetAnchor records the last visited item index, used by Refresh.
func (p *Pager[T]) SetAnchor(position int) {
	p.mu.Lock()
	p.anchor = &position
	p.mu.Unlock()
}

// Refresh reloads from the page around the anchor, or page 1, replacing all
// loaded pages on success.
func (p *Pager[T]) Refresh(ctx context.Context) {
	p.mu.Lock()
	key := p.source.RefreshKey(State[T]{Pages: p.pages, Anchor: p.anchor})
	p.generation++
	gen := p.generation
	p.refreshState = models.Loading()
	p.publishLocked()
	p.mu.Unlock()

	res := p.source.Load(ctx, LoadParams{Key: key})

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation || ctx.Err() != nil {
		return
	}
	if res.IsError() {
		p.refreshState = models.Failed(res.Err)
		p.failed = opRefresh
		p.publishLocked()
		return
	}
	p.pages = []Page[T]{{Data: res.Data, Key: res.Key, PrevKey: res.PrevKey, NextKey: res.NextKey}}
	p.anchor = nil
	p.refreshState = models.Succeeded()
	p.appendState = models.NotLoading()
	p.prependState = models.NotLoading()
	p.failed = opNone
	p.publishLocked()
}

// Append loads the page after the last one. It is a no-op while another
// append is in flight or when the end was reached.
func (p *Pager[T]) Append(ctx context.Context) {
	p.mu.Lock()
	if len(p.pages) == 0 || p.appendState.IsLoading() || p.refreshState.IsLoading() {
		p.mu.Unlock()
		return
	}
	next := p.pages[len(p.pages)-1].NextKey
	if next == nil {
		p.mu.Unlock()
		return
	}
	gen := p.generation
	p.appendSeq++
	seq := p.appendSeq
	p.appendState = models.Loading()
	p.publishLocked()
	p.mu.Unlock()

	res := p.source.Load(ctx, LoadParams{Key: next})

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation || ctx.Err() != nil {
		// a newer append may own the state by now
		if seq == p.appendSeq && p.appendState.IsLoading() {
			p.appendState = models.NotLoading()
			p.publishLocked()
		}
		return
	}
	if res.IsError() {
		p.appendState = models.Failed(res.Err)
		p.failed = opAppend
		p.publishLocked()
		return
	}
	p.pages = append(p.pages, Page[T]{Data: res.Data, Key: res.Key, PrevKey: res.PrevKey, NextKey: res.NextKey})
	p.appendState = models.Succeeded()
	p.failed = opNone
	p.publishLocked()
}

// Prepend loads the page before the first one, after a refresh that resumed
// past page 1.
func (p *Pager[T]) Prepend(ctx context.Context) {
	p.mu.Lock()
	if len(p.pages) == 0 || p.prependState.IsLoading() || p.refreshState.IsLoading() {
		p.mu.Unlock()
		return
	}
	prev := p.pages[0].PrevKey
	if prev == nil {
		p.mu.Unlock()
		return
	}
	gen := p.generation
	p.prependSeq++
	seq := p.prependSeq
	p.prependState = models.Loading()
	p.publishLocked()
	p.mu.Unlock()

	res := p.source.Load(ctx, LoadParams{Key: prev})

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation || ctx.Err() != nil {
		if seq == p.prependSeq && p.prependState.IsLoading() {
			p.prependState = models.NotLoading()
			p.publishLocked()
		}
		return
	}
	if res.IsError() {
		p.prependState = models.Failed(res.Err)
		p.failed = opPrepend
		p.publishLocked()
		return
	}
	p.pages = append([]Page[T]{{Data: res.Data, Key: res.Key, PrevKey: res.PrevKey, NextKey: res.NextKey}}, p.pages...)
	p.prependState = models.Succeeded()
	p.failed = opNone
	p.publishLocked()
}

// Retry repeats the last failed load with the same key.
func (p *Pager[T]) Retry(ctx context.Context) {
	p.mu.Lock()
	failed := p.failed
	switch failed {
	case opAppend:
		p.appendState = models.NotLoading()
	case opPrepend:
		p.prependState = models.NotLoading()
	}
	p.mu.Unlock()

	switch failed {
	case opRefresh:
		p.Refresh(ctx)
	case opAppend:
		p.Append(ctx)
	case opPrepend:
		p.Prepend(ctx)
	}
}

func (p *Pager[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Pager[T]) snapshotLocked() Snapshot[T] {
	snap := Snapshot[T]{
		Items:       []T{},
		Refresh:     p.refreshState,
		Append:      p.appendState,
		Prepend:     p.prependState,
		LoadedPages: len(p.pages),
	}
	for _, page := range p.pages {
		snap.Items = append(snap.Items, page.Data...)
	}
	if len(p.pages) > 0 {
		snap.FirstPageKey = p.pages[0].Key
		snap.EndReached = p.pages[len(p.pages)-1].NextKey == nil
	}
	return snap
}

func (p *Pager[T]) publishLocked() {
	if p.onChange != nil {
		p.onChange(p.snapshotLocked())
	}
}
