// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/models"
)

type masterAuthenticator struct {
	settings store.SettingsRepository
	kdf      crypto.KeyDeriver
	newSalt  func() ([]byte, error)
	logger   *logger.Logger
}

// NewMasterAuthenticator returns a [MasterAuthenticator] storing the
// credential in settings.
func NewMasterAuthenticator(settings store.SettingsRepository, kdf crypto.KeyDeriver, logger *logger.Logger) MasterAuthenticator {
	return &masterAuthenticator{
		settings: settings,
		kdf:      kdf,
		newSalt:  crypto.GenerateSalt,
		logger:   logger,
	}
}

func (m *masterAuthenticator) IsMasterSet(ctx context.Context) (bool, error) {
	cred, err := m.credential(ctx)
	if err != nil {
		return false, err
	}
	return cred.IsSet(), nil
}

func (m *masterAuthenticator) SetMaster(ctx context.Context, password string) error {
	cred, err := m.StageMaster(password)
	if err != nil {
		return err
	}

	// salt and hash go in one transaction
	if err = m.settings.Put(ctx, cred.Settings()); err != nil {
		m.logger.Err(err).Str("func", "masterAuthenticator.SetMaster").Msg("failed to persist master credential")
		return storageError(err)
	}

	return nil
}

func (m *masterAuthenticator) StageMaster(password string) (models.MasterCredential, error) {
	if password == "" {
		return models.MasterCredential{}, ErrEmptyPassword
	}

	salt, err := m.newSalt()
	if err != nil {
		return models.MasterCredential{}, fmt.Errorf("generate master salt: %w", err)
	}

	dk, err := m.kdf.Derive(password, salt)
	if err != nil {
		return models.MasterCredential{}, fmt.Errorf("derive master hash: %w", err)
	}
	defer crypto.Zero(dk.Key)

	return models.MasterCredential{
		Salt: hex.EncodeToString(salt),
		Hash: hex.EncodeToString(dk.Key),
	}, nil
}

func (m *masterAuthenticator) VerifyMaster(ctx context.Context, password string) (bool, error) {
	cred, err := m.credential(ctx)
	if err != nil {
		return false, err
	}
	if !cred.IsSet() {
		return false, nil
	}

	salt, err := hex.DecodeString(cred.Salt)
	if err != nil || len(salt) == 0 {
		m.logger.Error().Str("func", "masterAuthenticator.VerifyMaster").Msg("stored master salt is not valid hex")
		return false, ErrCorruptSettings
	}

	dk, err := m.kdf.Derive(password, salt)
	if err != nil {
		return false, fmt.Errorf("derive master hash: %w", err)
	}
	defer crypto.Zero(dk.Key)

	return crypto.SlowEquals(hex.EncodeToString(dk.Key), cred.Hash), nil
}

func (m *masterAuthenticator) credential(ctx context.Context) (models.MasterCredential, error) {
	var cred models.MasterCredential
	for key, dst := range map[string]*string{
		models.SettingMasterSalt: &cred.Salt,
		models.SettingMasterHash: &cred.Hash,
	} {
		value, _, err := m.settings.Get(ctx, key)
		if err != nil {
			return models.MasterCredential{}, storageError(err)
		}
		*dst = value
	}
	return cred, nil
}
