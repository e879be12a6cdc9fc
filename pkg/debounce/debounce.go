// Package debounce runs the latest of a burst of calls after a quiet period.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer schedules at most one pending call. Scheduling a new call cancels
// the pending one, so only the last call of a burst runs.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	gen    uint64
}

// New creates a Debouncer with the given quiet period.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Do schedules fn to run after the quiet period. fn receives a context that is
// cancelled if a newer call supersedes it or parent is done.
func (d *Debouncer) Do(parent context.Context, fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()

	ctx, cancel := context.WithCancel(parent)
	d.cancel = cancel
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := gen == d.gen
		d.mu.Unlock()
		if !current || ctx.Err() != nil {
			return
		}
		fn(ctx)
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
