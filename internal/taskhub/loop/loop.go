// Package loop runs closures one at a time on a single goroutine. State that
// is only touched from closures on the loop needs no locking.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrStopped is returned when work is submitted to a stopped loop.
var ErrStopped = errors.New("loop: stopped")

const defaultQueue = 64

type Loop struct {
	logger *slog.Logger
	queue  chan func()

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a loop with a queue of size closures. A size of 0 or less
// uses the default.
func New(logger *slog.Logger, size int) *Loop {
	if size <= 0 {
		size = defaultQueue
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		logger: logger,
		queue:  make(chan func(), size),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start runs the loop goroutine. Call Stop to end it.
func (l *Loop) Start() {
	go l.run()
}

// Stop ends the loop after the closure in progress. Closures still queued
// are dropped. Stop blocks until the goroutine has exited.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
	<-l.doneCh
}

func (l *Loop) run() {
	defer close(l.doneCh)

	for {
		select {
		case fn := <-l.queue:
			l.exec(fn)
		case <-l.stopCh:
			return
		}
	}
}

// exec runs fn, keeping the loop alive if it panics.
func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panicked", "panic", r)
		}
	}()
	fn()
}

// Post queues fn without waiting for it to run. It blocks while the queue
// is full and returns ErrStopped once the loop is stopped.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.stopCh:
		return ErrStopped
	default:
	}

	select {
	case l.queue <- fn:
		return nil
	case <-l.stopCh:
		return ErrStopped
	}
}

// Call runs fn on the loop and waits for its result. If ctx ends first,
// Call returns ctx.Err() and fn may still run later.
func Call[T any](ctx context.Context, l *Loop, fn func() (T, error)) (T, error) {
	var zero T
	type result struct {
		v   T
		err error
	}
	out := make(chan result, 1)

	if err := l.Post(func() {
		v, err := fn()
		out <- result{v, err}
	}); err != nil {
		return zero, err
	}

	select {
	case r := <-out:
		return r.v, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-l.doneCh:
		// fn may have completed just before the loop stopped.
		select {
		case r := <-out:
			return r.v, r.err
		default:
			return zero, ErrStopped
		}
	}
}

// Do is Call for closures without a result.
func Do(ctx context.Context, l *Loop, fn func() error) error {
	_, err := Call(ctx, l, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
