// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flag names shared by RegisterFlags and parseFlags.
const (
	flagConfig           = "config"
	flagDB               = "db"
	flagKDFIterations    = "kdf-iterations"
	flagAllowKDFFallback = "allow-kdf-fallback"
	flagPoolSize         = "pool-size"
	flagQueueSize        = "queue-size"
	flagAutoLockTimeout  = "auto-lock-timeout"
	flagLogFile          = "log-file"
)

// RegisterFlags declares all configuration flags on fs.
//
// Flags:
//
//	-c/--config            json file path with configs
//	-d/--db                SQLite database file
//	--kdf-iterations       PBKDF2 iteration count
//	--allow-kdf-fallback   permit the weak single-hash KDF fallback
//	--pool-size            executor goroutines
//	--queue-size           executor queue capacity
//	--auto-lock-timeout    idle time before auto-lock (e.g. "5m")
//	--log-file             log file path
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(flagConfig, "c", "", "JSON config file path")
	fs.StringP(flagDB, "d", "", "SQLite database file")
	fs.Int(flagKDFIterations, 0, "PBKDF2 iteration count")
	fs.Bool(flagAllowKDFFallback, false, "Permit the weak single-hash KDF fallback")
	fs.Int(flagPoolSize, 0, "Number of background workers")
	fs.Int(flagQueueSize, 0, "Background task queue capacity")
	fs.Duration(flagAutoLockTimeout, 0, "Idle time before the session auto-locks (e.g. 5m)")
	fs.String(flagLogFile, "", "Log file path")
}

// parseFlags builds a partial config from the flags the user explicitly set
// on fs. Unset flags stay zero so they do not override other sources.
func parseFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	var err error

	if fs.Changed(flagConfig) {
		if cfg.JSONFilePath, err = fs.GetString(flagConfig); err != nil {
			return nil, fmt.Errorf("error reading flag %s: %w", flagConfig, err)
		}
	}
	if fs.Changed(flagDB) {
		if cfg.Storage.DB.DSN, err = fs.GetString(flagDB); err != nil {
			return nil, fmt.Errorf("error reading flag %s: %w", flagDB, err)
		}
	}
	if fs.Changed(flagKDFIterations) {
		if cfg.Crypto.KDFIterations, err = fs.GetInt(flagKDFIterations); err != nil {
			return nil, fmt.Errorf("error reading flag %s: %w", flagKDFIterations, err)
		}
	}
	if fs.Changed(flagAllowKDFFallback) {
		if cfg.Crypto.AllowKDFFallback, err = fs.GetBool(flagAllowKDFFallback); err != nil {
			return nil, fmt.Errorf("error reading flag %s: %w", flagAllowKDFFallback, err)
		}
	}
	if fs.Changed(flagPoolSize) {
		if cfg.Workers.PoolSize, err = fs.GetInt(flagPoolSize); err != nil {
			return nil, fmt.Errorf("error reading flag %s: %w", flagPoolSize, err)
		}
	}
	if fs.Changed(flagQueueSize) {
		if cfg.Workers.QueueSize, err = fs.GetInt(flagQueueSize); err != nil {
			return nil, fmt.Errorf("error reading flag %s: %w", flagQueueSize, err)
		}
	}
	if fs.Changed(flagAutoLockTimeout) {
		if cfg.Workers.AutoLockTimeout, err = fs.GetDuration(flagAutoLockTimeout); err != nil {
			return nil, fmt.Errorf("error reading flag %s: %w", flagAutoLockTimeout, err)
		}
	}
	if fs.Changed(flagLogFile) {
		if cfg.Log.FilePath, err = fs.GetString(flagLogFile); err != nil {
			return nil, fmt.Errorf("error reading flag %s: %w", flagLogFile, err)
		}
	}

	return cfg, nil
}
