// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/logger"
)

// busyTimeoutParam makes SQLite wait for a competing writer before
// returning SQLITE_BUSY.
const busyTimeoutParam = "_busy_timeout=5000"

// NewConnectSQLite opens the vault database file, creating the file and its
// directory when missing.
func NewConnectSQLite(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// db will be in file
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	conn, err := sql.Open("sqlite3", withBusyTimeout(cfg.DSN))
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	// single writer
	conn.SetMaxOpenConns(1)

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		conn.Close()
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	return newDB(conn, log), nil
}

func newDB(conn *sql.DB, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: NewSQLiteErrorClassifier(),
		baseDelay:          retryBaseDelay,
	}
}

func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "_busy_timeout") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + busyTimeoutParam
	}
	return dsn + "?" + busyTimeoutParam
}

func createLocalDBFileIfNotExists(dbFile string) error {
	path := strings.TrimPrefix(dbFile, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return fmt.Errorf("error creating DB directory: %w", err)
			}
		}

		// if not found - create
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
