// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import "errors"

var (
	// ErrExecutorStopped is returned for tasks submitted after Stop.
	ErrExecutorStopped = errors.New("executor is stopped")

	// ErrTaskPanicked is returned when a task panics.
	ErrTaskPanicked = errors.New("task panicked")
)
