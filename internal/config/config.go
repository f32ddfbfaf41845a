// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "VAULT_"

// Defaults applied before any other source.
const (
	DefaultDSN             = "vault.db"
	DefaultKDFIterations   = 100_000
	DefaultPoolSize        = 2
	DefaultQueueSize       = 16
	DefaultAutoLockTimeout = 5 * time.Minute
)

// StructuredConfig is the top-level configuration container for the vault.
// It is populated by merging defaults, an optional JSON file, environment
// variables and command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Storage holds configuration of the local record store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Crypto holds key-derivation tuning.
	Crypto Crypto `envPrefix:"CRYPTO_"`

	// Workers holds configuration of the background executor and the
	// auto-lock job.
	Workers Workers `envPrefix:"WORKERS_"`

	// Log holds logging settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: VAULT_CONFIG, flag: --config / -c
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration for storage backends.
type Storage struct {
	// DB holds the SQLite database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the path of the SQLite database file (e.g. "~/.vault/vault.db").
	// Env: VAULT_STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Crypto holds key-derivation settings.
type Crypto struct {
	// KDFIterations is the PBKDF2 iteration count. It must match the value
	// the vault was created with.
	// Env: VAULT_CRYPTO_KDF_ITERATIONS
	KDFIterations int `env:"KDF_ITERATIONS"`

	// AllowKDFFallback enables the single SHA-256 fallback when PBKDF2 is
	// unavailable. Disabled by default.
	// Env: VAULT_CRYPTO_ALLOW_KDF_FALLBACK
	AllowKDFFallback bool `env:"ALLOW_KDF_FALLBACK"`
}

// Workers holds configuration for background processing.
type Workers struct {
	// PoolSize is the number of goroutines executing vault operations.
	// Env: VAULT_WORKERS_POOL_SIZE
	PoolSize int `env:"POOL_SIZE"`

	// QueueSize is the capacity of the executor's task queue.
	// Env: VAULT_WORKERS_QUEUE_SIZE
	QueueSize int `env:"QUEUE_SIZE"`

	// AutoLockTimeout is the idle period after which an unlocked session is
	// locked when the auto_lock setting is on.
	// Env: VAULT_WORKERS_AUTO_LOCK_TIMEOUT
	AutoLockTimeout time.Duration `env:"AUTO_LOCK_TIMEOUT"`
}

// Log holds logging settings.
type Log struct {
	// FilePath is where JSON log entries are appended.
	// Env: VAULT_LOG_FILE
	FilePath string `env:"FILE"`
}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{DB: DB{DSN: DefaultDSN}},
		Crypto:  Crypto{KDFIterations: DefaultKDFIterations},
		Workers: Workers{
			PoolSize:        DefaultPoolSize,
			QueueSize:       DefaultQueueSize,
			AutoLockTimeout: DefaultAutoLockTimeout,
		},
	}
}

// GetVaultConfig loads, merges, and validates the vault configuration.
// fs is the already parsed flag set registered with [RegisterFlags]; only
// flags explicitly set by the user take part in the merge.
func GetVaultConfig(fs *pflag.FlagSet) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(fs).
		withJSON().
		build()
}
