// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/migrations"
)

const (
	retryAttempts  = 3
	retryBaseDelay = 50 * time.Millisecond
)

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// DB wraps *sql.DB with the error classifier used for retries.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	baseDelay          time.Duration
}

// Migrate applies pending schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// withRetry runs fn until it succeeds, fails with a non-retryable error or
// retryAttempts is reached. Delay grows linearly from baseDelay.
func (db *DB) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		if db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		if attempt == retryAttempts {
			break
		}

		db.logger.Warn().
			Str("func", "DB.withRetry").
			Str("op", op).
			Int("attempt", attempt).
			Msg("retryable database error, retrying")

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(db.baseDelay * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("%w: %s failed after %d attempts: %w", ErrRetriesExhausted, op, retryAttempts, err)
}
