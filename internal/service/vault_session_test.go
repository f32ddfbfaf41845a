// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/mock"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/models"
)

func TestVaultSession_SetupUnlockLock(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	assert.False(t, v.Session.IsUnlocked())
	assert.ErrorIs(t, v.Session.Unlock(ctx, "pw"), ErrMasterNotSet)

	require.NoError(t, v.Session.Setup(ctx, "pw"))
	assert.True(t, v.Session.IsUnlocked())
	assert.False(t, v.Session.IsDegraded())

	assert.ErrorIs(t, v.Session.Setup(ctx, "other"), ErrMasterAlreadySet)

	v.Session.Lock()
	assert.False(t, v.Session.IsUnlocked())

	assert.ErrorIs(t, v.Session.Unlock(ctx, "wrong"), ErrWrongPassword)
	assert.False(t, v.Session.IsUnlocked())

	require.NoError(t, v.Session.Unlock(ctx, "pw"))
	assert.True(t, v.Session.IsUnlocked())
}

func TestVaultSession_Setup_PersistsEncryptionSalt(t *testing.T) {
	v := newUnlockedVault(t, "pw")
	ctx := context.Background()

	value, found, err := v.storages.Settings.Get(ctx, models.SettingEncryptionSalt)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, value, 2*crypto.SaltLength)

	salt, pending, err := v.Settings.EncryptionSalt(ctx)
	require.NoError(t, err)
	assert.Nil(t, pending)
	assert.Len(t, salt, crypto.SaltLength)
}

func TestVaultSession_Setup_EmptyPassword(t *testing.T) {
	v := newTestVault(t)

	err := v.Session.Setup(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPassword)
	assert.False(t, v.Session.IsUnlocked())
}

func TestVaultSession_Setup_BatchFailureLeavesVaultUninitialised(t *testing.T) {
	v := newTestVault(t)
	ctrl := gomock.NewController(t)
	batch := mock.NewMockBatchWriter(ctrl)
	batch.EXPECT().ApplyBatch(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	session := NewVaultSession(v.Master, v.Settings, batch, v.kdf, logger.Nop())

	err := session.Setup(context.Background(), "pw")
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.False(t, session.IsUnlocked())

	set, err := v.Master.IsMasterSet(context.Background())
	require.NoError(t, err)
	assert.False(t, set)
}

func TestVaultSession_Setup_WritesOneBatch(t *testing.T) {
	v := newTestVault(t)
	ctrl := gomock.NewController(t)
	batch := mock.NewMockBatchWriter(ctrl)

	batch.EXPECT().ApplyBatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b store.Batch) error {
		assert.Empty(t, b.Entries)
		assert.Contains(t, b.Settings, models.SettingMasterSalt)
		assert.Contains(t, b.Settings, models.SettingMasterHash)
		assert.Contains(t, b.Settings, models.SettingEncryptionSalt)
		return nil
	})

	session := NewVaultSession(v.Master, v.Settings, batch, v.kdf, logger.Nop())
	require.NoError(t, session.Setup(context.Background(), "pw"))
}

func TestVaultSession_WithKey_Locked(t *testing.T) {
	v := newTestVault(t)

	called := false
	err := v.Session.WithKey(func([]byte) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrKeyNotSet)
	assert.False(t, called)
}

func TestVaultSession_WithKey_SameKeyAfterReunlock(t *testing.T) {
	v := newUnlockedVault(t, "pw")

	var first []byte
	require.NoError(t, v.Session.WithKey(func(key []byte) error {
		first = append([]byte(nil), key...)
		return nil
	}))

	v.Session.Lock()
	require.NoError(t, v.Session.Unlock(context.Background(), "pw"))

	require.NoError(t, v.Session.WithKey(func(key []byte) error {
		assert.Equal(t, first, key)
		return nil
	}))
}

func TestVaultSession_Lock_ZeroesKey(t *testing.T) {
	v := newUnlockedVault(t, "pw")

	var borrowed []byte
	require.NoError(t, v.Session.WithKey(func(key []byte) error {
		borrowed = key
		return nil
	}))

	v.Session.Lock()
	assert.Equal(t, make([]byte, len(borrowed)), borrowed)
}

func TestVaultSession_LockIfIdle(t *testing.T) {
	v := newUnlockedVault(t, "pw")

	now := time.Unix(1_700_000_000, 0)
	v.Session.now = func() time.Time { return now }
	v.Session.Touch()

	now = now.Add(30 * time.Second)
	assert.False(t, v.Session.LockIfIdle(time.Minute))
	assert.True(t, v.Session.IsUnlocked())

	// activity resets the idle timer
	require.NoError(t, v.Session.WithKey(func([]byte) error { return nil }))
	now = now.Add(45 * time.Second)
	assert.False(t, v.Session.LockIfIdle(time.Minute))

	now = now.Add(15 * time.Second)
	assert.True(t, v.Session.LockIfIdle(time.Minute))
	assert.False(t, v.Session.IsUnlocked())

	assert.False(t, v.Session.LockIfIdle(time.Minute))
}

func TestVaultSession_ConcurrentReadersAndLock(t *testing.T) {
	v := newUnlockedVault(t, "pw")

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := v.Session.WithKey(func(key []byte) error {
				if len(key) != crypto.KeyLength {
					return errors.New("torn key")
				}
				return nil
			})
			if err != nil {
				assert.ErrorIs(t, err, ErrKeyNotSet)
			}
		}()
	}
	v.Session.Lock()
	wg.Wait()

	assert.False(t, v.Session.IsUnlocked())
}
