// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-key-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// EntryRepository is the low-level record store for encrypted entries.
// It never sees plaintext.
type EntryRepository interface {
	// Insert stores e unless an entry with the same id exists. The returned
	// bool reports whether a row was written.
	Insert(ctx context.Context, e models.EncryptedEntry) (bool, error)
	// Get returns the entry with the given id or [ErrEntryNotFound].
	Get(ctx context.Context, id string) (models.EncryptedEntry, error)
	// GetRange returns at most limit entries starting at offset, newest first.
	GetRange(ctx context.Context, offset, limit int) ([]models.EncryptedEntry, error)
	// GetAll returns every entry, newest first.
	GetAll(ctx context.Context) ([]models.EncryptedEntry, error)
	// Update overwrites the fields of an existing entry or returns [ErrEntryNotFound].
	Update(ctx context.Context, e models.EncryptedEntry) error
	// Delete removes the entry or returns [ErrEntryNotFound].
	Delete(ctx context.Context, id string) error
	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}

// SettingsRepository is the key-value store holding the master credential,
// the encryption salt and user preferences.
type SettingsRepository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put writes all values in one transaction.
	Put(ctx context.Context, values map[string]string) error
}

// BatchWriter applies settings and entry upserts atomically.
type BatchWriter interface {
	ApplyBatch(ctx context.Context, batch Batch) error
}

// Batch is a set of writes committed together or not at all.
type Batch struct {
	// Settings are upserted by key.
	Settings map[string]string
	// Entries are upserted by id.
	Entries []models.EncryptedEntry
}

// IsEmpty reports whether the batch carries no writes.
func (b Batch) IsEmpty() bool {
	return len(b.Settings) == 0 && len(b.Entries) == 0
}
