// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/mock"
	"github.com/MKhiriev/go-key-vault/models"
)

type stateRecorder struct {
	mu     sync.Mutex
	states []RotationState
}

func (r *stateRecorder) observe(s RotationState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *stateRecorder) got() []RotationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RotationState(nil), r.states...)
}

func seedEntries(t *testing.T, v *testVault, n int) []models.Entry {
	t.Helper()

	out := make([]models.Entry, 0, n)
	for i := range n {
		e, err := v.Entries.Insert(context.Background(), entryFixture(fmt.Sprintf("e%d", i), fmt.Sprintf("title %d", i), "acc", "password"))
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func TestRotationService_ChangeMaster(t *testing.T) {
	rec := &stateRecorder{}
	v := newUnlockedVault(t, "old-pass", WithRotationObserver(rec.observe))
	ctx := context.Background()

	want := seedEntries(t, v, 3)
	before, err := v.storages.Entries.GetAll(ctx)
	require.NoError(t, err)

	require.NoError(t, v.Rotation.ChangeMaster(ctx, "old-pass", "new-pass"))

	assert.Equal(t, []RotationState{
		RotationIdle,
		RotationVerifying,
		RotationDecrypting,
		RotationCommitting,
		RotationReencrypting,
		RotationDone,
	}, rec.got())

	// the session already holds the new key
	got, err := v.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)

	v.Session.Lock()
	assert.ErrorIs(t, v.Session.Unlock(ctx, "old-pass"), ErrWrongPassword)
	require.NoError(t, v.Session.Unlock(ctx, "new-pass"))

	got, err = v.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)

	// ciphertexts under the old key no longer verify
	salt, _, err := v.Settings.EncryptionSalt(ctx)
	require.NoError(t, err)
	oldKey, err := v.kdf.Derive("old-pass", salt)
	require.NoError(t, err)

	after, err := v.storages.Entries.GetAll(ctx)
	require.NoError(t, err)
	for _, e := range after {
		_, err := v.cipher.Decrypt(e.Password, oldKey.Key)
		assert.ErrorIs(t, err, ErrAuthenticationFailure)
	}
	for i := range before {
		assert.NotEqual(t, before[i].Password, after[i].Password)
	}
}

func TestRotationService_KeepsEncryptionSalt(t *testing.T) {
	v := newUnlockedVault(t, "old-pass")
	ctx := context.Background()

	saltBefore, _, err := v.storages.Settings.Get(ctx, models.SettingEncryptionSalt)
	require.NoError(t, err)
	masterBefore, _, err := v.storages.Settings.Get(ctx, models.SettingMasterSalt)
	require.NoError(t, err)

	require.NoError(t, v.Rotation.ChangeMaster(ctx, "old-pass", "new-pass"))

	saltAfter, _, err := v.storages.Settings.Get(ctx, models.SettingEncryptionSalt)
	require.NoError(t, err)
	masterAfter, _, err := v.storages.Settings.Get(ctx, models.SettingMasterSalt)
	require.NoError(t, err)

	assert.Equal(t, saltBefore, saltAfter)
	assert.NotEqual(t, masterBefore, masterAfter)
}

func TestRotationService_WhileLocked(t *testing.T) {
	v := newUnlockedVault(t, "old-pass")
	ctx := context.Background()
	want := seedEntries(t, v, 2)
	v.Session.Lock()

	require.NoError(t, v.Rotation.ChangeMaster(ctx, "old-pass", "new-pass"))
	assert.True(t, v.Session.IsUnlocked())

	got, err := v.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)
}

func TestRotationService_WrongOldPassword(t *testing.T) {
	rec := &stateRecorder{}
	v := newUnlockedVault(t, "old-pass", WithRotationObserver(rec.observe))
	ctx := context.Background()
	want := seedEntries(t, v, 2)

	err := v.Rotation.ChangeMaster(ctx, "nope", "new-pass")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Equal(t, []RotationState{RotationIdle, RotationVerifying, RotationFailed}, rec.got())

	got, err := v.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)

	v.Session.Lock()
	require.NoError(t, v.Session.Unlock(ctx, "old-pass"))
}

func TestRotationService_EmptyNewPassword(t *testing.T) {
	v := newUnlockedVault(t, "old-pass")

	err := v.Rotation.ChangeMaster(context.Background(), "old-pass", "")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestRotationService_BatchFailureKeepsOldState(t *testing.T) {
	rec := &stateRecorder{}
	v := newUnlockedVault(t, "old-pass")
	ctx := context.Background()
	want := seedEntries(t, v, 3)
	before, err := v.storages.Entries.GetAll(ctx)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	batch := mock.NewMockBatchWriter(ctrl)
	batch.EXPECT().ApplyBatch(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	rotation := NewRotationService(
		v.Session, v.Master, v.Settings, v.storages.Entries, batch, v.kdf, v.cipher, logger.Nop(),
		WithRotationObserver(rec.observe),
	)

	err = rotation.ChangeMaster(ctx, "old-pass", "new-pass")
	assert.ErrorIs(t, err, ErrStorageFailure)

	states := rec.got()
	require.NotEmpty(t, states)
	assert.Equal(t, RotationFailed, states[len(states)-1])

	after, err := v.storages.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// the session still holds the old key
	got, err := v.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)

	v.Session.Lock()
	assert.ErrorIs(t, v.Session.Unlock(ctx, "new-pass"), ErrWrongPassword)
	require.NoError(t, v.Session.Unlock(ctx, "old-pass"))
}

func TestRotationService_CorruptEntryAborts(t *testing.T) {
	v := newUnlockedVault(t, "old-pass")
	ctx := context.Background()
	seedEntries(t, v, 2)

	raw, err := v.storages.Entries.Get(ctx, "e1")
	require.NoError(t, err)
	raw.Title = "bm90IGEgY2lwaGVydGV4dA=="
	require.NoError(t, v.storages.Entries.Update(ctx, raw))

	err = v.Rotation.ChangeMaster(ctx, "old-pass", "new-pass")
	assert.ErrorIs(t, err, ErrAuthenticationFailure)

	v.Session.Lock()
	require.NoError(t, v.Session.Unlock(ctx, "old-pass"))
}

func TestRotationState_String(t *testing.T) {
	assert.Equal(t, "reencrypting", RotationReencrypting.String())
	assert.Equal(t, "RotationState(42)", RotationState(42).String())
}

func TestRotationService_ConcurrentEntryWrites(t *testing.T) {
	v := newUnlockedVault(t, "old")
	ctx := context.Background()
	seedEntries(t, v, 5)

	const writers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := v.Entries.Insert(ctx, entryFixture(fmt.Sprintf("w%d", i), fmt.Sprintf("writer %d", i), "acc", "password"))
			assert.NoError(t, err)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		assert.NoError(t, v.Rotation.ChangeMaster(ctx, "old", "new"))
	}()

	close(start)
	wg.Wait()

	v.Session.Lock()
	require.ErrorIs(t, v.Session.Unlock(ctx, "old"), ErrWrongPassword)
	require.NoError(t, v.Session.Unlock(ctx, "new"))

	all, err := v.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5+writers)
}

func TestRotationService_WaitsForInFlightKeyUsers(t *testing.T) {
	rec := &stateRecorder{}
	v := newUnlockedVault(t, "old", WithRotationObserver(rec.observe))
	ctx := context.Background()
	seedEntries(t, v, 2)

	entered := make(chan struct{})
	release := make(chan struct{})
	readerDone := make(chan error, 1)
	go func() {
		readerDone <- v.Session.WithKey(func([]byte) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	rotated := make(chan error, 1)
	go func() {
		rotated <- v.Rotation.ChangeMaster(ctx, "old", "new")
	}()

	assert.Never(t, func() bool { return len(rotated) > 0 }, 100*time.Millisecond, 10*time.Millisecond,
		"rotation finished while a key user was still running")
	assert.NotContains(t, rec.got(), RotationVerifying)

	close(release)
	require.NoError(t, <-readerDone)
	select {
	case err := <-rotated:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("rotation did not finish after the key user returned")
	}
	assert.Equal(t, RotationDone, rec.got()[len(rec.got())-1])
}

func TestRotationService_BlocksNewEntryWrites(t *testing.T) {
	rotating := make(chan struct{})
	proceed := make(chan struct{})
	observer := func(s RotationState) {
		if s == RotationVerifying {
			close(rotating)
			<-proceed
		}
	}
	v := newUnlockedVault(t, "old", WithRotationObserver(observer))
	ctx := context.Background()
	seedEntries(t, v, 2)

	rotated := make(chan error, 1)
	go func() {
		rotated <- v.Rotation.ChangeMaster(ctx, "old", "new")
	}()
	<-rotating

	inserted := make(chan error, 1)
	go func() {
		_, err := v.Entries.Insert(ctx, entryFixture("late", "late writer", "acc", "password"))
		inserted <- err
	}()

	assert.Never(t, func() bool { return len(inserted) > 0 }, 100*time.Millisecond, 10*time.Millisecond,
		"entry write started during rotation")

	close(proceed)
	require.NoError(t, <-rotated)
	require.NoError(t, <-inserted)

	v.Session.Lock()
	require.NoError(t, v.Session.Unlock(ctx, "new"))

	late, err := v.Entries.FindByID(ctx, "late")
	require.NoError(t, err)
	assert.Equal(t, "late writer", late.Title)

	all, err := v.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
