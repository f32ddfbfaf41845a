// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the user-facing message strings of the vault CLI.
//
// Msg* constants describe the outcome of an operation in words a user can
// act on. Raw errors go to the log file; the terminal only ever shows one of
// these strings, so causes such as SQL text or file paths never leak into
// command output.
package app

import (
	"errors"

	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/workers"
)

const (
	// MsgVaultLocked is shown when an entry command runs on a locked vault.
	MsgVaultLocked = "vault is locked, unlock it first"

	// MsgWrongPassword is shown when the master password does not verify.
	MsgWrongPassword = "wrong master password"

	// MsgVaultNotInitialised is shown before the first `init`.
	MsgVaultNotInitialised = "vault is not initialised, run `vault init` first"

	// MsgVaultAlreadyInitialised is shown by `init` on an existing vault.
	MsgVaultAlreadyInitialised = "vault is already initialised"

	// MsgEmptyPassword is shown when a new password is empty.
	MsgEmptyPassword = "password must not be empty"

	// MsgPasswordMismatch is shown when a password and its confirmation
	// differ.
	MsgPasswordMismatch = "passwords do not match"

	// MsgEntryNotFound is shown when no entry has the requested id.
	MsgEntryNotFound = "entry not found"

	// MsgAuthenticationFailure is shown when stored or imported data does not
	// decrypt: a wrong export password or tampered data.
	MsgAuthenticationFailure = "data could not be decrypted: wrong password or corrupted data"

	// MsgEncryptionFailure is shown when a field could not be encrypted.
	// Nothing was written.
	MsgEncryptionFailure = "encryption failed, nothing was saved"

	// MsgMalformedContainer is shown when an import file is not a vault export.
	MsgMalformedContainer = "file is not a valid vault export"

	// MsgVersionMismatch is shown when an export comes from an unsupported
	// format version.
	MsgVersionMismatch = "export format version is not supported"

	// MsgCorruptSettings is shown when the stored salts or hash are damaged.
	MsgCorruptSettings = "vault settings are corrupt"

	// MsgStorageFailure is shown when the database cannot be read or written.
	MsgStorageFailure = "vault storage is unavailable, see the log for details"

	// MsgKDFUnavailable is shown when no key derivation primitive is usable
	// and the fallback is disabled.
	MsgKDFUnavailable = "key derivation is unavailable on this system"

	// MsgInvalidConfig is shown when configuration validation fails.
	MsgInvalidConfig = "invalid configuration"

	// MsgBusy is shown when the background executor is shutting down.
	MsgBusy = "vault is shutting down, try again"

	// MsgClipboardUnavailable is shown when the system clipboard cannot be
	// written.
	MsgClipboardUnavailable = "clipboard is unavailable"

	// MsgInternalError is shown for anything outside the taxonomy.
	MsgInternalError = "internal error, see the log for details"
)

// ErrPasswordMismatch is returned by prompts when a password confirmation
// differs from the first entry.
var ErrPasswordMismatch = errors.New("password confirmation mismatch")

// ErrUsage marks command-line mistakes such as unknown commands or missing
// arguments. Their text is safe to show as is.
var ErrUsage = errors.New("invalid usage")

// ErrClipboardUnavailable wraps clipboard write failures.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

var reasons = []struct {
	err error
	msg string
}{
	{service.ErrKeyNotSet, MsgVaultLocked},
	{service.ErrWrongPassword, MsgWrongPassword},
	{service.ErrMasterNotSet, MsgVaultNotInitialised},
	{service.ErrMasterAlreadySet, MsgVaultAlreadyInitialised},
	{service.ErrEmptyPassword, MsgEmptyPassword},
	{ErrPasswordMismatch, MsgPasswordMismatch},
	{service.ErrEntryNotFound, MsgEntryNotFound},
	{service.ErrVersionMismatch, MsgVersionMismatch},
	{service.ErrMalformedContainer, MsgMalformedContainer},
	{service.ErrAuthenticationFailure, MsgAuthenticationFailure},
	{service.ErrEncryptionFailure, MsgEncryptionFailure},
	{service.ErrCorruptSettings, MsgCorruptSettings},
	{crypto.ErrKDFUnavailable, MsgKDFUnavailable},
	{service.ErrStorageFailure, MsgStorageFailure},
	{config.ErrInvalidStorageConfigs, MsgInvalidConfig},
	{config.ErrInvalidCryptoConfigs, MsgInvalidConfig},
	{config.ErrInvalidWorkerConfigs, MsgInvalidConfig},
	{workers.ErrExecutorStopped, MsgBusy},
	{ErrClipboardUnavailable, MsgClipboardUnavailable},
}

// ReasonFor maps err to the message shown to the user. The first matching
// kind wins; nil yields an empty string. Usage errors keep their own text.
func ReasonFor(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUsage) {
		return err.Error()
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.msg
		}
	}
	return MsgInternalError
}
