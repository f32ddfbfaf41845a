// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/models"
)

// testIterations keeps PBKDF2 fast in tests; derivation stays deterministic.
const testIterations = 1000

type testVault struct {
	*VaultServices
	storages *store.LocalStorages
	kdf      crypto.KeyDeriver
	cipher   crypto.FieldCipher
}

// newTestVault opens a fresh SQLite vault in a temp dir and wires every
// service to it the way the binary does.
func newTestVault(t *testing.T, opts ...RotationOption) *testVault {
	t.Helper()

	cfg := &config.StructuredConfig{
		Storage: config.Storage{DB: config.DB{DSN: filepath.Join(t.TempDir(), "vault.db")}},
		Crypto:  config.Crypto{KDFIterations: testIterations},
		Workers: config.Workers{PoolSize: 1, QueueSize: 1, AutoLockTimeout: time.Minute},
	}

	storages, err := store.NewLocalStorages(context.Background(), cfg.Storage, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	return &testVault{
		VaultServices: NewVaultServices(storages, cfg, models.NewAppBuildInfo("1.2.3", "", ""), logger.Nop(), opts...),
		storages:      storages,
		kdf:           crypto.NewKeyDeriver(crypto.WithIterations(testIterations)),
		cipher:        crypto.NewFieldCipher(),
	}
}

// newUnlockedVault is newTestVault with the master password already set.
func newUnlockedVault(t *testing.T, password string, opts ...RotationOption) *testVault {
	t.Helper()

	v := newTestVault(t, opts...)
	require.NoError(t, v.Session.Setup(context.Background(), password))
	require.True(t, v.Session.IsUnlocked())
	return v
}

func fixedSalt(b byte) func() ([]byte, error) {
	return func() ([]byte, error) {
		salt := make([]byte, crypto.SaltLength)
		for i := range salt {
			salt[i] = b
		}
		return salt, nil
	}
}

func entryFixture(id, title, account, password string) models.Entry {
	return models.Entry{
		ID:        id,
		Title:     title,
		Account:   account,
		Password:  password,
		Note:      "note for " + title,
		CreatedAt: 1_700_000_000_000,
		UpdatedAt: 1_700_000_000_000,
	}
}
