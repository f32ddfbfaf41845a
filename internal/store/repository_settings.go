// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-key-vault/internal/logger"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type settingsRepository struct {
	*DB
	logger *logger.Logger
}

// NewSettingsRepository returns the SQLite-backed [SettingsRepository].
func NewSettingsRepository(db *DB, logger *logger.Logger) SettingsRepository {
	return &settingsRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := selectSettingQuery(key)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = r.withRetry(ctx, "settingsRepository.Get", func() error {
		return r.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Err(err).
			Str("func", "settingsRepository.Get").
			Str("key", key).
			Msg("failed to read setting")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, true, nil
}

func (r *settingsRepository) Put(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	err := r.inTx(ctx, "settingsRepository.Put", func(tx *sql.Tx) error {
		return putSettings(ctx, tx, values)
	})
	if err != nil {
		r.logger.Err(err).
			Str("func", "settingsRepository.Put").
			Int("count", len(values)).
			Msg("failed to write settings")
		return err
	}

	return nil
}

// putSettings upserts values in key order.
func putSettings(ctx context.Context, ex execer, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		query, args, err := upsertSettingQuery(key, values[key])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = ex.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: setting %s: %w", ErrExecutingStatement, key, err)
		}
	}

	return nil
}

// inTx runs fn inside a transaction, retrying the whole transaction on
// retryable errors.
func (db *DB) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	return db.withRetry(ctx, op, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
		}
		defer tx.Rollback()

		if err = fn(tx); err != nil {
			return err
		}

		if err = tx.Commit(); err != nil {
			return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
		}
		return nil
	})
}
