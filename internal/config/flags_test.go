// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("vault", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestParseFlags_AllFields(t *testing.T) {
	fs := newTestFlagSet(t,
		"-c", "cfg.json",
		"-d", "my.db",
		"--kdf-iterations", "5000",
		"--allow-kdf-fallback",
		"--pool-size", "3",
		"--queue-size", "8",
		"--auto-lock-timeout", "2m",
		"--log-file", "vault.log",
	)

	cfg, err := parseFlags(fs)
	require.NoError(t, err)

	assert.Equal(t, "cfg.json", cfg.JSONFilePath)
	assert.Equal(t, "my.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 5000, cfg.Crypto.KDFIterations)
	assert.True(t, cfg.Crypto.AllowKDFFallback)
	assert.Equal(t, 3, cfg.Workers.PoolSize)
	assert.Equal(t, 8, cfg.Workers.QueueSize)
	assert.Equal(t, 2*time.Minute, cfg.Workers.AutoLockTimeout)
	assert.Equal(t, "vault.log", cfg.Log.FilePath)
}

// TestParseFlags_OnlyChanged verifies that flags left at their defaults do
// not populate the partial config.
func TestParseFlags_OnlyChanged(t *testing.T) {
	fs := newTestFlagSet(t, "--db", "only.db")

	cfg, err := parseFlags(fs)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{Storage: Storage{DB: DB{DSN: "only.db"}}}, cfg)
}

func TestParseFlags_NoArgs(t *testing.T) {
	cfg, err := parseFlags(newTestFlagSet(t))
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestRegisterFlags_RejectsBadDuration(t *testing.T) {
	fs := pflag.NewFlagSet("vault", pflag.ContinueOnError)
	RegisterFlags(fs)
	assert.Error(t, fs.Parse([]string{"--auto-lock-timeout", "later"}))
}
