// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrAuthenticationFailure is returned when an authentication tag does not
	// verify. Wrong key, corruption and tampering are deliberately
	// indistinguishable.
	ErrAuthenticationFailure = errors.New("authentication failure")

	// ErrEncryptionFailure is returned when the cipher cannot seal a value.
	ErrEncryptionFailure = errors.New("encryption failure")

	// ErrInvalidKeyLength is returned for keys that are not 32 bytes long.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidSalt is returned when an empty salt is passed to the KDF.
	ErrInvalidSalt = errors.New("invalid salt")

	// ErrKDFUnavailable is returned when the preferred KDF cannot run and the
	// weak fallback is disabled.
	ErrKDFUnavailable = errors.New("key derivation function unavailable")
)
