// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/store"
)

// Vault error taxonomy. Every error returned by this package matches exactly
// one of these with [errors.Is]; the cause stays reachable through wrapping.
var (
	// ErrKeyNotSet is returned when an entry operation runs while the vault
	// is locked.
	ErrKeyNotSet = errors.New("vault is locked")

	// ErrWrongPassword is returned when master-password verification fails.
	ErrWrongPassword = errors.New("wrong password")

	// ErrMasterNotSet is returned by Unlock before the vault was initialised.
	ErrMasterNotSet = errors.New("master password is not set")

	// ErrMasterAlreadySet is returned by Setup on an initialised vault.
	ErrMasterAlreadySet = errors.New("master password is already set")

	// ErrEmptyPassword is returned when a new master or export password is empty.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrVersionMismatch is returned when an export container carries an
	// unsupported format version.
	ErrVersionMismatch = errors.New("unsupported export format version")

	// ErrMalformedContainer is returned when an export container does not parse.
	ErrMalformedContainer = errors.New("malformed export container")

	// ErrStorageFailure wraps I/O errors of the record store.
	ErrStorageFailure = errors.New("storage failure")

	// ErrCorruptSettings is returned when a persisted salt or hash is not
	// valid hex of the expected length.
	ErrCorruptSettings = errors.New("stored vault settings are corrupt")
)

// Errors shared with lower layers.
var (
	// ErrAuthenticationFailure: a ciphertext did not verify under the key.
	ErrAuthenticationFailure = crypto.ErrAuthenticationFailure

	// ErrEncryptionFailure: a field could not be sealed; nothing was written.
	ErrEncryptionFailure = crypto.ErrEncryptionFailure

	// ErrEntryNotFound: no entry with the requested id.
	ErrEntryNotFound = store.ErrEntryNotFound
)

// storageError tags a repository error as ErrStorageFailure. Not-found is a
// caller-visible state and passes through untouched.
func storageError(err error) error {
	if err == nil || errors.Is(err, store.ErrEntryNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}
