// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface, a Workers aggregate that starts and stops
// several workers together, and the Executor that runs vault operations off
// the command goroutine.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run starts the worker and returns without blocking; the worker keeps
// running until ctx is cancelled or Stop is called. Stop blocks until every
// goroutine of the worker has exited and is safe to call more than once.
//
// Example implementation:
//
//	type MyWorker struct{ cancel context.CancelFunc }
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    ctx, w.cancel = context.WithCancel(ctx)
//	    go process(ctx)
//	}
//
//	func (w *MyWorker) Stop() { w.cancel() }
type Worker interface {
	Run(ctx context.Context)
	Stop()
}
