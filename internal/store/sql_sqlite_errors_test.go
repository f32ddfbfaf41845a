// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteErrorClassifier_Classify(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "plain error", err: errors.New("boom"), want: NonRetryable},
		{name: "busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: Retryable},
		{name: "locked", err: sqlite3.Error{Code: sqlite3.ErrLocked}, want: Retryable},
		{name: "wrapped busy", err: fmt.Errorf("exec: %w", sqlite3.Error{Code: sqlite3.ErrBusy}), want: Retryable},
		{name: "constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}, want: NonRetryable},
		{name: "corrupt", err: sqlite3.Error{Code: sqlite3.ErrCorrupt}, want: NonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func newRetryDB() *DB {
	return &DB{
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             logger.Nop(),
		baseDelay:          time.Millisecond,
	}
}

func TestWithRetry_RecoversFromBusy(t *testing.T) {
	db := newRetryDB()

	calls := 0
	err := db.withRetry(context.Background(), "test", func() error {
		calls++
		if calls < 3 {
			return sqlite3.Error{Code: sqlite3.ErrBusy}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_NonRetryableReturnsImmediately(t *testing.T) {
	db := newRetryDB()

	calls := 0
	err := db.withRetry(context.Background(), "test", func() error {
		calls++
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_Exhausted(t *testing.T) {
	db := newRetryDB()

	calls := 0
	err := db.withRetry(context.Background(), "test", func() error {
		calls++
		return sqlite3.Error{Code: sqlite3.ErrLocked}
	})

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, retryAttempts, calls)
}

func TestWithRetry_StopsOnCancelledContext(t *testing.T) {
	db := newRetryDB()
	db.baseDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := db.withRetry(ctx, "test", func() error {
		return sqlite3.Error{Code: sqlite3.ErrBusy}
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithRetry_NoClassifier(t *testing.T) {
	db := &DB{logger: logger.Nop()}

	calls := 0
	err := db.withRetry(context.Background(), "test", func() error {
		calls++
		return sqlite3.Error{Code: sqlite3.ErrBusy}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithBusyTimeout(t *testing.T) {
	assert.Equal(t, "vault.db?_busy_timeout=5000", withBusyTimeout("vault.db"))
	assert.Equal(t, "file:vault.db?mode=rwc&_busy_timeout=5000", withBusyTimeout("file:vault.db?mode=rwc"))
	assert.Equal(t, "vault.db?_busy_timeout=10", withBusyTimeout("vault.db?_busy_timeout=10"))
}
