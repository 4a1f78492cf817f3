package asset

import (
	"context"
	"sync"
)

// Task is a handle to a load running in the background. The owner keeps the
// handle so failures are observed rather than dropped.
type Task[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}

	once    sync.Once
	outcome Outcome[T]
}

// Go runs fn on a new goroutine under a cancellable child of ctx.
func Go[T any](ctx context.Context, fn func(ctx context.Context) Outcome[T]) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task[T]{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer cancel()
		t.finish(fn(ctx))
	}()
	return t
}

func (t *Task[T]) finish(o Outcome[T]) {
	t.once.Do(func() {
		t.outcome = o
		close(t.done)
	})
}

// Cancel aborts the load. It is safe to call more than once and after the
// task has finished.
func (t *Task[T]) Cancel() { t.cancel() }

// Done is closed once the outcome is available.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Outcome returns the outcome and true if the task has finished. Until then
// it returns a pending Outcome and false.
func (t *Task[T]) Outcome() (Outcome[T], bool) {
	select {
	case <-t.done:
		return t.outcome, true
	default:
		return Outcome[T]{Status: StatusPending}, false
	}
}

// Wait blocks until the task finishes or ctx is done. If ctx ends first the
// task keeps running and a pending Outcome is returned with ctx.Err().
func (t *Task[T]) Wait(ctx context.Context) (Outcome[T], error) {
	select {
	case <-t.done:
		return t.outcome, nil
	case <-ctx.Done():
		return Outcome[T]{Status: StatusPending}, ctx.Err()
	}
}
