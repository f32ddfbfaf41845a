// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/store"
)

// VaultSession is the single owner of the session key.
//
// Entry operations borrow the key through WithKey under a shared lock, so any
// number of them may run together. Unlock, Lock and key rotation take the
// lock exclusively: they wait for in-flight operations and block new ones
// until the key swap is complete. No caller can read the key outside these
// accessors.
type VaultSession struct {
	auth     MasterAuthenticator
	settings SettingsService
	batch    store.BatchWriter
	kdf      crypto.KeyDeriver
	logger   *logger.Logger
	now      func() time.Time

	mu       sync.RWMutex
	key      []byte
	degraded bool

	lastActivity atomic.Int64
}

// NewVaultSession returns a locked session.
func NewVaultSession(
	auth MasterAuthenticator,
	settings SettingsService,
	batch store.BatchWriter,
	kdf crypto.KeyDeriver,
	logger *logger.Logger,
) *VaultSession {
	s := &VaultSession{
		auth:     auth,
		settings: settings,
		batch:    batch,
		kdf:      kdf,
		logger:   logger,
		now:      time.Now,
	}
	s.Touch()
	return s
}

// Setup initialises a new vault: it stores the master credential and, on
// first run, the encryption salt in one batch, then unlocks the session.
func (s *VaultSession) Setup(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.auth.IsMasterSet(ctx)
	if err != nil {
		return err
	}
	if set {
		return ErrMasterAlreadySet
	}

	cred, err := s.auth.StageMaster(password)
	if err != nil {
		return err
	}

	salt, pending, err := s.settings.EncryptionSalt(ctx)
	if err != nil {
		return err
	}

	dk, err := s.kdf.Derive(password, salt)
	if err != nil {
		return fmt.Errorf("derive session key: %w", err)
	}

	values := cred.Settings()
	maps.Copy(values, pending)
	if err = s.batch.ApplyBatch(ctx, store.Batch{Settings: values}); err != nil {
		crypto.Zero(dk.Key)
		s.logger.Err(err).Str("func", "VaultSession.Setup").Msg("failed to persist vault setup")
		return storageError(err)
	}

	s.setKeyLocked(dk)
	s.logger.Info().Str("func", "VaultSession.Setup").Msg("vault initialised")
	return nil
}

// Unlock verifies password against the master credential and derives the
// session key from it and the encryption salt.
func (s *VaultSession) Unlock(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.auth.IsMasterSet(ctx)
	if err != nil {
		return err
	}
	if !set {
		return ErrMasterNotSet
	}

	ok, err := s.auth.VerifyMaster(ctx, password)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn().Str("func", "VaultSession.Unlock").Msg("unlock rejected: wrong password")
		return ErrWrongPassword
	}

	salt, pending, err := s.settings.EncryptionSalt(ctx)
	if err != nil {
		return err
	}
	if pending != nil {
		if err = s.batch.ApplyBatch(ctx, store.Batch{Settings: pending}); err != nil {
			return storageError(err)
		}
	}

	dk, err := s.kdf.Derive(password, salt)
	if err != nil {
		return fmt.Errorf("derive session key: %w", err)
	}

	s.setKeyLocked(dk)
	s.logger.Info().Str("func", "VaultSession.Unlock").Msg("vault unlocked")
	return nil
}

// Lock zeroes and drops the session key.
func (s *VaultSession) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lockLocked()
}

// IsUnlocked reports whether a session key is present.
func (s *VaultSession) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.key != nil
}

// IsDegraded reports whether the current key came from the weak KDF fallback.
func (s *VaultSession) IsDegraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.degraded
}

// WithKey runs fn with the session key under the shared lock. fn must not
// retain key. It fails with ErrKeyNotSet when the vault is locked, without
// calling fn.
func (s *VaultSession) WithKey(fn func(key []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return ErrKeyNotSet
	}

	s.Touch()
	return fn(s.key)
}

// Touch records user activity for the auto-lock timer.
func (s *VaultSession) Touch() {
	s.lastActivity.Store(s.now().UnixNano())
}

// IdleFor returns the time since the last recorded activity.
func (s *VaultSession) IdleFor() time.Duration {
	return s.now().Sub(time.Unix(0, s.lastActivity.Load()))
}

// LockIfIdle locks the session when it has been idle for at least timeout.
// It reports whether the session was locked by this call.
func (s *VaultSession) LockIfIdle(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil || s.IdleFor() < timeout {
		return false
	}

	s.lockLocked()
	s.logger.Info().
		Str("func", "VaultSession.LockIfIdle").
		Dur("timeout", timeout).
		Msg("session locked after inactivity")
	return true
}

// withExclusiveKey runs fn with every other key user excluded. current is
// nil when the session is locked. On success the key returned by fn
// replaces the session key.
func (s *VaultSession) withExclusiveKey(fn func(current []byte) (crypto.DerivedKey, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dk, err := fn(s.key)
	if err != nil {
		return err
	}

	s.setKeyLocked(dk)
	return nil
}

func (s *VaultSession) setKeyLocked(dk crypto.DerivedKey) {
	s.lockLocked()
	s.key = dk.Key
	s.degraded = dk.Degraded
	if dk.Degraded {
		s.logger.Warn().
			Str("func", "VaultSession.setKey").
			Msg("session key derived with the weak KDF fallback")
	}
	s.Touch()
}

func (s *VaultSession) lockLocked() {
	if s.key != nil {
		crypto.Zero(s.key)
	}
	s.key = nil
	s.degraded = false
}
