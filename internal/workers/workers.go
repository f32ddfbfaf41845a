// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import "context"

// Workers runs a fixed set of workers as one unit.
type Workers struct {
	workers []Worker
}

// NewWorkers groups ws. Nil workers are skipped.
func NewWorkers(ws ...Worker) *Workers {
	w := &Workers{}
	for _, worker := range ws {
		if worker != nil {
			w.workers = append(w.workers, worker)
		}
	}
	return w
}

// Run starts the workers in registration order.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// Stop stops the workers in reverse registration order, so a worker never
// outlives one it was started after.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
