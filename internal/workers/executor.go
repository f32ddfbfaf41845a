// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/MKhiriev/go-key-vault/internal/logger"
)

// Executor runs submitted tasks on a fixed pool of goroutines.
//
// Admission is bounded by a weighted semaphore of poolSize+queueSize slots:
// Submit blocks while the pool and queue are full. Once accepted, a task runs
// to completion even if the submitter's context is cancelled; callers that
// lose interest stop awaiting the [Future].
type Executor struct {
	tasks    chan func()
	sem      *semaphore.Weighted
	poolSize int
	logger   *logger.Logger

	mu      sync.RWMutex
	started bool
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewExecutor creates an idle executor. Tasks submitted before Run wait in
// the queue.
func NewExecutor(poolSize, queueSize int, log *logger.Logger) *Executor {
	if poolSize < 1 {
		poolSize = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	capacity := poolSize + queueSize
	return &Executor{
		tasks:    make(chan func(), capacity),
		sem:      semaphore.NewWeighted(int64(capacity)),
		poolSize: poolSize,
		logger:   log,
		done:     make(chan struct{}),
	}
}

// Run implements [Worker]. It starts the pool; the executor stops when ctx
// is cancelled or Stop is called.
func (e *Executor) Run(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started || e.stopped {
		return
	}
	e.started = true

	for i := 0; i < e.poolSize; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for task := range e.tasks {
				task()
			}
		}()
	}

	go func() {
		select {
		case <-ctx.Done():
			e.Stop()
		case <-e.done:
		}
	}()

	e.logger.Debug().
		Str("func", "Executor.Run").
		Int("pool_size", e.poolSize).
		Msg("executor started")
}

// Stop implements [Worker]. Queued tasks still run; Stop returns after the
// last one finished.
func (e *Executor) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		e.wg.Wait()
		return
	}
	e.stopped = true
	started := e.started
	close(e.tasks)
	close(e.done)
	e.mu.Unlock()

	if !started {
		// nobody will drain the queue
		for task := range e.tasks {
			task()
		}
	}
	e.wg.Wait()
}

func (e *Executor) enqueue(ctx context.Context, task func()) error {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.stopped {
		e.sem.Release(1)
		return ErrExecutorStopped
	}

	// never blocks: the channel holds as many tasks as the semaphore admits
	e.tasks <- func() {
		defer e.sem.Release(1)
		task()
	}
	return nil
}

// Submit schedules fn on e and returns a future for its result. fn receives
// a context detached from ctx's cancellation but carrying its values, so the
// task cannot be cancelled once accepted. If ctx ends while waiting for a
// free slot, the future completes with ctx's error and fn never runs.
func Submit[T any](ctx context.Context, e *Executor, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	taskCtx := context.WithoutCancel(ctx)

	err := e.enqueue(ctx, func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error().
					Str("func", "Executor.Submit").
					Interface("panic", r).
					Msg("task panicked")
				var zero T
				f.complete(zero, fmt.Errorf("%w: %v", ErrTaskPanicked, r))
			}
		}()

		value, err := fn(taskCtx)
		f.complete(value, err)
	})
	if err != nil {
		var zero T
		f.complete(zero, err)
	}

	return f
}
