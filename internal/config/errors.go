// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or an in-memory DSN, which would lose the vault).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidCryptoConfigs indicates invalid key-derivation settings
	// (for example, a non-positive iteration count).
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, an empty pool or a zero auto-lock timeout).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
