// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrorClassification is the result type returned by [ErrorClassificator.Classify].
// It indicates whether a failed database operation should be retried or abandoned.
type ErrorClassification int

const (
	// NonRetryable indicates that the failed operation should not be retried.
	// This is the default classification for unrecognised errors, constraint
	// violations and corrupt files.
	NonRetryable ErrorClassification = iota

	// Retryable indicates that the failed operation may succeed if attempted
	// again (another connection holds the write lock).
	Retryable
)

// SQLiteErrorClassifier implements [ErrorClassificator] for the mattn/go-sqlite3 driver.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier constructs a [SQLiteErrorClassifier] ready for use.
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Errors that are not sqlite3.Error
// values are [NonRetryable].
func (c *SQLiteErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return ClassifySQLiteError(sqliteErr)
	}

	return NonRetryable
}

// ClassifySQLiteError maps a primary SQLite result code to an [ErrorClassification].
// See https://www.sqlite.org/rescode.html.
//
// Retryable codes:
//   - SQLITE_BUSY: the database file is locked by another connection
//   - SQLITE_LOCKED: a table is locked within the same connection
//
// Everything else (SQLITE_CONSTRAINT, SQLITE_CORRUPT, SQLITE_FULL, ...) is
// [NonRetryable].
func ClassifySQLiteError(sqliteErr sqlite3.Error) ErrorClassification {
	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return Retryable
	}

	return NonRetryable
}
