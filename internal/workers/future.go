// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
)

// Future is the pending result of a task submitted to an [Executor].
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) complete(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the task finished or ctx ends. A cancelled ctx only
// abandons the wait; the task itself keeps running.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
