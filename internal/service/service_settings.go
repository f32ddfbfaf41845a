// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/models"
)

type settingsService struct {
	settings store.SettingsRepository
	newSalt  func() ([]byte, error)
	logger   *logger.Logger
}

// NewSettingsService returns a [SettingsService] backed by settings.
func NewSettingsService(settings store.SettingsRepository, logger *logger.Logger) SettingsService {
	return &settingsService{
		settings: settings,
		newSalt:  crypto.GenerateSalt,
		logger:   logger,
	}
}

func (s *settingsService) EncryptionSalt(ctx context.Context) ([]byte, map[string]string, error) {
	value, found, err := s.settings.Get(ctx, models.SettingEncryptionSalt)
	if err != nil {
		return nil, nil, storageError(err)
	}

	if found {
		salt, err := hex.DecodeString(value)
		if err != nil || len(salt) != crypto.SaltLength {
			s.logger.Error().Str("func", "settingsService.EncryptionSalt").Msg("stored encryption salt is invalid")
			return nil, nil, ErrCorruptSettings
		}
		return salt, nil, nil
	}

	salt, err := s.newSalt()
	if err != nil {
		return nil, nil, fmt.Errorf("generate encryption salt: %w", err)
	}

	s.logger.Info().Str("func", "settingsService.EncryptionSalt").Msg("new encryption salt staged")
	return salt, map[string]string{models.SettingEncryptionSalt: hex.EncodeToString(salt)}, nil
}

func (s *settingsService) AutoLock(ctx context.Context) (bool, error) {
	value, found, err := s.settings.Get(ctx, models.SettingAutoLock)
	if err != nil {
		return false, storageError(err)
	}
	if !found {
		return false, nil
	}

	enabled, err := strconv.ParseBool(value)
	if err != nil {
		s.logger.Warn().
			Str("func", "settingsService.AutoLock").
			Str("value", value).
			Msg("invalid auto_lock value, treating as off")
		return false, nil
	}
	return enabled, nil
}

func (s *settingsService) SetAutoLock(ctx context.Context, enabled bool) error {
	err := s.settings.Put(ctx, map[string]string{models.SettingAutoLock: strconv.FormatBool(enabled)})
	if err != nil {
		return storageError(err)
	}
	return nil
}
