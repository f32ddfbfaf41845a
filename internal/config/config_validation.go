// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, ":memory:") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Crypto.KDFIterations < 1 {
		return ErrInvalidCryptoConfigs
	}

	if cfg.Workers.PoolSize < 1 || cfg.Workers.QueueSize < 0 || cfg.Workers.AutoLockTimeout <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
