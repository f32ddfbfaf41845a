// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations embeds the SQLite schema of the vault and applies it
// with goose.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

var errNilDB = errors.New("db is nil")

// Migrate brings the schema of db up to the latest version.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", errNilDB)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
