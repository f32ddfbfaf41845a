// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

type entryRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntryRepository returns the SQLite-backed [EntryRepository].
func NewEntryRepository(db *DB, logger *logger.Logger) EntryRepository {
	return &entryRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *entryRepository) Insert(ctx context.Context, e models.EncryptedEntry) (bool, error) {
	query, args, err := insertEntryQuery(e)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var result sql.Result
	err = r.withRetry(ctx, "entryRepository.Insert", func() error {
		var execErr error
		result, execErr = r.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		r.logger.Err(err).
			Str("func", "entryRepository.Insert").
			Str("id", e.ID).
			Msg("failed to insert entry")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		r.logger.Debug().
			Str("func", "entryRepository.Insert").
			Str("id", e.ID).
			Msg("entry with this id already exists, insert skipped")
	}

	return affected > 0, nil
}

func (r *entryRepository) Get(ctx context.Context, id string) (models.EncryptedEntry, error) {
	query, args, err := selectEntryByIDQuery(id)
	if err != nil {
		return models.EncryptedEntry{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var e models.EncryptedEntry
	err = r.withRetry(ctx, "entryRepository.Get", func() error {
		return scanEntry(r.DB.QueryRowContext(ctx, query, args...), &e)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.EncryptedEntry{}, ErrEntryNotFound
	}
	if err != nil {
		r.logger.Err(err).
			Str("func", "entryRepository.Get").
			Str("id", id).
			Msg("failed to get entry")
		return models.EncryptedEntry{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return e, nil
}

func (r *entryRepository) GetRange(ctx context.Context, offset, limit int) ([]models.EncryptedEntry, error) {
	if offset < 0 || limit <= 0 {
		return []models.EncryptedEntry{}, nil
	}

	query, args, err := selectEntriesRangeQuery(uint64(offset), uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryEntries(ctx, "entryRepository.GetRange", query, args)
}

func (r *entryRepository) GetAll(ctx context.Context) ([]models.EncryptedEntry, error) {
	query, args, err := selectEntriesQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryEntries(ctx, "entryRepository.GetAll", query, args)
}

func (r *entryRepository) Update(ctx context.Context, e models.EncryptedEntry) error {
	query, args, err := updateEntryQuery(e)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execAffectingOne(ctx, "entryRepository.Update", e.ID, query, args)
}

func (r *entryRepository) Delete(ctx context.Context, id string) error {
	query, args, err := deleteEntryQuery(id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execAffectingOne(ctx, "entryRepository.Delete", id, query, args)
}

func (r *entryRepository) Count(ctx context.Context) (int, error) {
	query, args, err := countEntriesQuery()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	err = r.withRetry(ctx, "entryRepository.Count", func() error {
		return r.DB.QueryRowContext(ctx, query, args...).Scan(&count)
	})
	if err != nil {
		r.logger.Err(err).Str("func", "entryRepository.Count").Msg("failed to count entries")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

func (r *entryRepository) execAffectingOne(ctx context.Context, op, id, query string, args []any) error {
	var result sql.Result
	err := r.withRetry(ctx, op, func() error {
		var execErr error
		result, execErr = r.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		r.logger.Err(err).Str("func", op).Str("id", id).Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func (r *entryRepository) queryEntries(ctx context.Context, op, query string, args []any) ([]models.EncryptedEntry, error) {
	var items []models.EncryptedEntry
	err := r.withRetry(ctx, op, func() error {
		rows, err := r.DB.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		defer rows.Close()

		items = make([]models.EncryptedEntry, 0)
		for rows.Next() {
			var e models.EncryptedEntry
			if err := scanEntry(rows, &e); err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}
			items = append(items, e)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		return nil
	})
	if err != nil {
		r.logger.Err(err).Str("func", op).Msg("failed to query entries")
		return nil, err
	}

	return items, nil
}

func scanEntry(row rowScanner, e *models.EncryptedEntry) error {
	return row.Scan(
		&e.ID,
		&e.Title,
		&e.Account,
		&e.Password,
		&e.Note,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
}
