// Package awaitctx models the ambient execution context a continuation may
// resume on after a suspension point.
//
// A Dispatcher is a captured serial context: one goroutine runs every posted
// continuation in order, the way a UI thread drains its update queue. Code that
// resumes "on the captured context" hops onto that goroutine; code that
// releases the context keeps running on whatever goroutine finished the wait.
package awaitctx

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrDispatcherClosed is returned when posting to a closed dispatcher
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Dispatcher runs posted functions one at a time on a single goroutine
type Dispatcher struct {
	queue chan func()
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts a dispatcher goroutine. Close must be called to stop it.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		queue: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for fn := range d.queue {
		fn()
	}
}

// Post queues fn to run on the dispatcher goroutine
func (d *Dispatcher) Post(fn func()) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	d.queue <- fn
	return nil
}

// Close stops accepting work, drains queued functions and waits for the
// dispatcher goroutine to exit.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}

type (
	ambientKey struct{}
	runningKey struct{}
)

// WithContext returns a copy of ctx carrying d as its ambient context
func WithContext(ctx context.Context, d *Dispatcher) context.Context {
	return context.WithValue(ctx, ambientKey{}, d)
}

// FromContext returns the ambient dispatcher, or nil when there is none
func FromContext(ctx context.Context) *Dispatcher {
	d, _ := ctx.Value(ambientKey{}).(*Dispatcher)
	return d
}

// OnDispatcher reports whether ctx was handed to a continuation that is
// running on its ambient dispatcher
func OnDispatcher(ctx context.Context) bool {
	d := FromContext(ctx)
	r, _ := ctx.Value(runningKey{}).(*Dispatcher)
	return d != nil && r == d
}

// Resume runs the continuation fn after a suspension point. With
// resumeOnCaptured set and an ambient dispatcher present, fn runs on the
// dispatcher and Resume blocks until it returns. Otherwise fn runs inline.
// A nil fn still performs the hop.
//
// fn receives the context to use for further work. A Resume issued with that
// context from inside fn is already on the dispatcher and runs inline.
func Resume(ctx context.Context, resumeOnCaptured bool, fn func(ctx context.Context) error) error {
	if fn == nil {
		fn = func(context.Context) error { return nil }
	}

	d := FromContext(ctx)
	if !resumeOnCaptured || d == nil || OnDispatcher(ctx) {
		return fn(ctx)
	}

	inner := context.WithValue(ctx, runningKey{}, d)
	// buffered so the dispatcher never blocks on a caller that went away
	result := make(chan error, 1)
	if err := d.Post(func() { result <- fn(inner) }); err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Delay suspends for d or until ctx is done
func Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
