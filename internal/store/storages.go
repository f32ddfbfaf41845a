// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/logger"
)

// LocalStorages groups the on-device repositories into a single value that
// can be passed around the service layer.
type LocalStorages struct {
	// Entries is the SQLite-backed repository of encrypted entries.
	Entries EntryRepository

	// Settings holds the master credential, encryption salt and preferences.
	Settings SettingsRepository

	// Batch commits settings and entries in a single transaction.
	Batch BatchWriter

	db *DB
}

// NewLocalStorages initialises the storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wires the entry, settings and batch repositories to the connection.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewLocalStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*LocalStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newLocalStorages(db, logger), nil
}

func newLocalStorages(db *DB, logger *logger.Logger) *LocalStorages {
	return &LocalStorages{
		Entries:  NewEntryRepository(db, logger),
		Settings: NewSettingsRepository(db, logger),
		Batch:    NewBatchWriter(db, logger),
		db:       db,
	}
}

// Close releases the database connection.
func (s *LocalStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

type batchWriter struct {
	*DB
	logger *logger.Logger
}

// NewBatchWriter returns a [BatchWriter] committing through db.
func NewBatchWriter(db *DB, logger *logger.Logger) BatchWriter {
	return &batchWriter{DB: db, logger: logger}
}

// ApplyBatch upserts every setting and entry of batch in one transaction.
// On any failure the transaction is rolled back and nothing is written.
func (w *batchWriter) ApplyBatch(ctx context.Context, batch Batch) error {
	if batch.IsEmpty() {
		return nil
	}

	err := w.inTx(ctx, "batchWriter.ApplyBatch", func(tx *sql.Tx) error {
		if err := putSettings(ctx, tx, batch.Settings); err != nil {
			return err
		}

		for _, e := range batch.Entries {
			query, args, err := upsertEntryQuery(e)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: entry %s: %w", ErrExecutingStatement, e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		w.logger.Err(err).
			Str("func", "batchWriter.ApplyBatch").
			Int("settings", len(batch.Settings)).
			Int("entries", len(batch.Entries)).
			Msg("batch rolled back")
		return err
	}

	w.logger.Debug().
		Str("func", "batchWriter.ApplyBatch").
		Int("settings", len(batch.Settings)).
		Int("entries", len(batch.Entries)).
		Msg("batch committed")

	return nil
}
