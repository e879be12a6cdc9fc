// Package state provides the snapshot container every view model is built on.
//
// A Holder owns one immutable state value and a scope context. Work started
// through Launch runs under that scope; once Close cancels it, late results
// are dropped instead of being applied.
package state

import (
	"context"
	"sync"
)

type Holder[S any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// publish serializes update-then-notify so subscribers see snapshots in
	// the order they were produced.
	publish sync.Mutex

	mu     sync.RWMutex
	state  S
	subs   map[int]func(S)
	nextID int
	closed bool
}

func NewHolder[S any](initial S) *Holder[S] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Holder[S]{
		ctx:    ctx,
		cancel: cancel,
		state:  initial,
		subs:   make(map[int]func(S)),
	}
}

// State returns the current snapshot.
func (h *Holder[S]) State() S {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Context is cancelled by Close.
func (h *Holder[S]) Context() context.Context {
	return h.ctx
}

// Update replaces the state with fn(current) and notifies subscribers. It
// returns false, leaving the state alone, once the holder is closed.
func (h *Holder[S]) Update(fn func(S) S) bool {
	return h.UpdateIn(h.ctx, fn)
}

// UpdateIn is Update for work running under a narrower context, such as a
// superseded search. A cancelled ctx drops the update.
func (h *Holder[S]) UpdateIn(ctx context.Context, fn func(S) S) bool {
	h.publish.Lock()
	defer h.publish.Unlock()

	h.mu.Lock()
	if h.closed || ctx.Err() != nil {
		h.mu.Unlock()
		return false
	}
	h.state = fn(h.state)
	next := h.state
	subs := make([]func(S), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return true
}

// Subscribe calls fn with the current state and after every update. fn must
// not call Update. The returned func removes the subscription.
func (h *Holder[S]) Subscribe(fn func(S)) func() {
	h.publish.Lock()
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	current := h.state
	h.mu.Unlock()
	fn(current)
	h.publish.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Launch runs fn in its own goroutine under the holder scope. Launch after
// Close is a no-op.
func (h *Holder[S]) Launch(fn func(ctx context.Context)) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	h.wg.Add(1)
	h.mu.RUnlock()

	go func() {
		defer h.wg.Done()
		fn(h.ctx)
	}()
}

// Wait blocks until every launched task returned.
func (h *Holder[S]) Wait() {
	h.wg.Wait()
}

// Close cancels the scope, drops subscribers and waits for launched work.
func (h *Holder[S]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.subs = make(map[int]func(S))
	h.mu.Unlock()

	h.cancel()
	h.wg.Wait()
}
