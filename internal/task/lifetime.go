// Package task provides the cooperative cancellation primitive shared
// between the UI dispatch loop and the tree-building worker. A Lifetime is
// handed to each build; when the user types again, the dispatcher cancels
// the old Lifetime and starts a new build with a fresh one.
package task

import (
	"context"
	"sync/atomic"
)

// Lifetime is a shared monotonic cancellation flag. It is written once by
// the dispatching goroutine (Cancel) and polled by the worker (IsCancelled)
// at well-defined points: never in tight per-entry loops, at least once per
// directory opened.
//
// The zero value is not usable; construct with New.
type Lifetime struct {
	cancelled *atomic.Bool
	ctx       context.Context
	stop      context.CancelFunc
}

// New returns a live, uncancelled Lifetime.
func New() *Lifetime {
	ctx, stop := context.WithCancel(context.Background())
	return &Lifetime{
		cancelled: &atomic.Bool{},
		ctx:       ctx,
		stop:      stop,
	}
}

// Cancel flips the flag. Safe to call from any goroutine, any number of
// times; a Lifetime never becomes live again.
func (l *Lifetime) Cancel() {
	l.cancelled.Store(true)
	l.stop()
}

// IsCancelled reports whether Cancel has been called.
func (l *Lifetime) IsCancelled() bool {
	return l.cancelled.Load()
}

// Context returns a context that is done once the Lifetime is cancelled.
// Collaborators built on context plumbing (the sizer's worker pool) use
// this instead of polling.
func (l *Lifetime) Context() context.Context {
	return l.ctx
}
