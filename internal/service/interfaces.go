// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-key-vault/models"
)

// MasterAuthenticator owns the persisted master-password salt/hash pair.
type MasterAuthenticator interface {
	// IsMasterSet reports whether both salt and hash are stored.
	IsMasterSet(ctx context.Context) (bool, error)

	// SetMaster derives a credential for password under a fresh salt and
	// replaces the stored salt and hash together.
	SetMaster(ctx context.Context, password string) error

	// StageMaster derives a credential for password under a fresh salt
	// without persisting it.
	StageMaster(password string) (models.MasterCredential, error)

	// VerifyMaster reports whether password matches the stored credential.
	// A missing credential yields false without an error; errors are
	// reserved for storage and corrupt-settings failures.
	VerifyMaster(ctx context.Context, password string) (bool, error)
}

// SettingsService reads and writes vault settings other than the master
// credential.
type SettingsService interface {
	// EncryptionSalt returns the salt used to derive the session key. The
	// salt is generated once and kept across master-password changes. When
	// none is stored, a fresh salt is returned together with the pending
	// setting the caller must persist in the same batch as the writes that
	// depend on it; otherwise pending is nil.
	EncryptionSalt(ctx context.Context) (salt []byte, pending map[string]string, err error)

	// AutoLock reports whether the session locks itself when idle.
	AutoLock(ctx context.Context) (bool, error)

	// SetAutoLock persists the auto-lock preference.
	SetAutoLock(ctx context.Context, enabled bool) error
}

// EntryService is the encrypted repository of vault entries. Every call
// requires an unlocked session and fails with ErrKeyNotSet otherwise.
type EntryService interface {
	// Insert encrypts and stores e and returns what was stored. Missing id
	// and timestamps are filled in. When the id already exists nothing is
	// written and the stored entry is returned instead.
	Insert(ctx context.Context, e models.Entry) (models.Entry, error)

	// Update re-encrypts e with fresh nonces and overwrites the stored entry.
	Update(ctx context.Context, e models.Entry) (models.Entry, error)

	// Delete removes the entry with the given id.
	Delete(ctx context.Context, id string) error

	// FindByID returns the decrypted entry.
	FindByID(ctx context.Context, id string) (models.Entry, error)

	// GetAll returns every entry, newest first.
	GetAll(ctx context.Context) ([]models.Entry, error)

	// GetPaged returns page pageIndex (zero-based) of size pageSize.
	GetPaged(ctx context.Context, pageIndex, pageSize int) ([]models.Entry, error)

	// Search decrypts every entry and keeps those whose title, account or
	// note contains query, ignoring case.
	Search(ctx context.Context, query string) ([]models.Entry, error)

	// WeakPasswordCount counts entries whose plaintext password is shorter
	// than WeakPasswordLength characters.
	WeakPasswordCount(ctx context.Context) (int, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Stats returns the total and weak entry counts.
	Stats(ctx context.Context) (models.VaultStats, error)
}

// RotationService changes the master password and re-keys every entry.
type RotationService interface {
	// ChangeMaster verifies oldPassword, then replaces the master credential
	// and re-encrypts all entries under the key derived from newPassword in
	// one atomic batch. On success the session holds the new key.
	ChangeMaster(ctx context.Context, oldPassword, newPassword string) error
}

// ExportCodec converts entries to and from the encrypted export container
// "base64(salt):base64(nonce ‖ ciphertext ‖ tag)".
type ExportCodec interface {
	Encode(entries []models.Entry, password string) (string, error)
	Decode(container, password string) (models.ExportData, error)
}

// BackupService exports and imports the whole vault.
type BackupService interface {
	// Export returns a container with every entry sealed under password.
	Export(ctx context.Context, password string) (string, error)

	// Import decrypts container and upserts its entries by id in one batch.
	// It returns the number of entries processed.
	Import(ctx context.Context, container, password string) (int, error)
}

// StatusService reports build and session information.
type StatusService interface {
	// GetAppVersion returns the build version of the binary.
	GetAppVersion(ctx context.Context) string
	// Status returns a snapshot of the vault state. Degraded fields expose
	// use of the weak KDF fallback.
	Status(ctx context.Context) (models.VaultStatus, error)
}

// AutoLockJob locks an idle session in the background.
type AutoLockJob interface {
	// Run starts the job; it checks for inactivity every interval.
	Run(ctx context.Context)
	// Stop halts the job and waits for it to exit.
	Stop()
	// Timeout returns the idle period after which the session is locked.
	Timeout() time.Duration
}
