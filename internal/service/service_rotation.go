// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"maps"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/store"
)

// RotationState is a step of the master-password change.
type RotationState int

const (
	RotationIdle RotationState = iota
	RotationVerifying
	RotationDecrypting
	RotationCommitting
	RotationReencrypting
	RotationDone
	RotationFailed
)

func (s RotationState) String() string {
	switch s {
	case RotationIdle:
		return "idle"
	case RotationVerifying:
		return "verifying"
	case RotationDecrypting:
		return "decrypting"
	case RotationCommitting:
		return "committing"
	case RotationReencrypting:
		return "reencrypting"
	case RotationDone:
		return "done"
	case RotationFailed:
		return "failed"
	}
	return fmt.Sprintf("RotationState(%d)", int(s))
}

// RotationObserver is notified of every state the rotation enters.
type RotationObserver func(state RotationState)

type rotationService struct {
	session  *VaultSession
	auth     MasterAuthenticator
	settings SettingsService
	entries  store.EntryRepository
	batch    store.BatchWriter
	kdf      crypto.KeyDeriver
	cipher   crypto.FieldCipher
	observer RotationObserver
	logger   *logger.Logger
}

// RotationOption configures a [RotationService].
type RotationOption func(*rotationService)

// WithRotationObserver registers an observer of state transitions.
func WithRotationObserver(o RotationObserver) RotationOption {
	return func(r *rotationService) {
		r.observer = o
	}
}

// NewRotationService returns a [RotationService].
func NewRotationService(
	session *VaultSession,
	auth MasterAuthenticator,
	settings SettingsService,
	entries store.EntryRepository,
	batch store.BatchWriter,
	kdf crypto.KeyDeriver,
	cipher crypto.FieldCipher,
	logger *logger.Logger,
	opts ...RotationOption,
) RotationService {
	r := &rotationService{
		session:  session,
		auth:     auth,
		settings: settings,
		entries:  entries,
		batch:    batch,
		kdf:      kdf,
		cipher:   cipher,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ChangeMaster implements [RotationService].
//
// The new credential and every re-encrypted entry are staged in memory and
// written by a single batch, so the store never holds a mix of old- and
// new-keyed ciphertexts. The session is held exclusively for the whole run.
func (r *rotationService) ChangeMaster(ctx context.Context, oldPassword, newPassword string) error {
	r.enter(RotationIdle)

	if newPassword == "" {
		r.enter(RotationFailed)
		return ErrEmptyPassword
	}

	err := r.session.withExclusiveKey(func([]byte) (crypto.DerivedKey, error) {
		return r.rotate(ctx, oldPassword, newPassword)
	})
	if err != nil {
		r.enter(RotationFailed)
		r.logger.Err(err).Str("func", "rotationService.ChangeMaster").Msg("master password change aborted")
		return err
	}

	r.enter(RotationDone)
	return nil
}

func (r *rotationService) rotate(ctx context.Context, oldPassword, newPassword string) (crypto.DerivedKey, error) {
	r.enter(RotationVerifying)
	ok, err := r.auth.VerifyMaster(ctx, oldPassword)
	if err != nil {
		return crypto.DerivedKey{}, err
	}
	if !ok {
		return crypto.DerivedKey{}, ErrWrongPassword
	}

	r.enter(RotationDecrypting)
	salt, pendingSalt, err := r.settings.EncryptionSalt(ctx)
	if err != nil {
		return crypto.DerivedKey{}, err
	}

	oldKey, err := r.kdf.Derive(oldPassword, salt)
	if err != nil {
		return crypto.DerivedKey{}, fmt.Errorf("derive old key: %w", err)
	}
	defer crypto.Zero(oldKey.Key)

	stored, err := r.entries.GetAll(ctx)
	if err != nil {
		return crypto.DerivedKey{}, storageError(err)
	}

	plain, err := decryptEntries(r.cipher, oldKey.Key, stored)
	if err != nil {
		return crypto.DerivedKey{}, err
	}

	// EncryptionSalt is kept; only the credential is replaced
	r.enter(RotationCommitting)
	cred, err := r.auth.StageMaster(newPassword)
	if err != nil {
		return crypto.DerivedKey{}, err
	}

	r.enter(RotationReencrypting)
	newKey, err := r.kdf.Derive(newPassword, salt)
	if err != nil {
		return crypto.DerivedKey{}, fmt.Errorf("derive new key: %w", err)
	}

	resealed, err := encryptEntries(r.cipher, newKey.Key, plain)
	if err != nil {
		crypto.Zero(newKey.Key)
		return crypto.DerivedKey{}, err
	}

	values := cred.Settings()
	maps.Copy(values, pendingSalt)
	if err = r.batch.ApplyBatch(ctx, store.Batch{Settings: values, Entries: resealed}); err != nil {
		crypto.Zero(newKey.Key)
		return crypto.DerivedKey{}, storageError(err)
	}

	r.logger.Info().
		Str("func", "rotationService.rotate").
		Int("entries", len(resealed)).
		Msg("master password changed, entries re-encrypted")

	return newKey, nil
}

func (r *rotationService) enter(state RotationState) {
	r.logger.Debug().
		Str("func", "rotationService.enter").
		Stringer("state", state).
		Msg("rotation state")
	if r.observer != nil {
		r.observer(state)
	}
}

