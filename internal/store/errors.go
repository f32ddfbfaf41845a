// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEntryNotFound is returned when a query, update or delete targets an
	// entry id that does not exist.
	ErrEntryNotFound = errors.New("entry was not found")

	// ErrRetriesExhausted is returned when a retryable error (SQLITE_BUSY,
	// SQLITE_LOCKED) persisted through every attempt.
	ErrRetriesExhausted = errors.New("database retries exhausted")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
