// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/models"
)

type statusService struct {
	appVersion string
	session    *VaultSession
	master     MasterAuthenticator
	settings   SettingsService
	kdf        crypto.KeyDeriver

	logger *logger.Logger
}

// NewStatusService returns a [StatusService] reporting build version and
// session state.
func NewStatusService(
	info models.AppBuildInfo,
	session *VaultSession,
	master MasterAuthenticator,
	settings SettingsService,
	kdf crypto.KeyDeriver,
	logger *logger.Logger,
) StatusService {
	return &statusService{
		appVersion: info.BuildVersion(),
		session:    session,
		master:     master,
		settings:   settings,
		kdf:        kdf,
		logger:     logger,
	}
}

func (s *statusService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

func (s *statusService) Status(ctx context.Context) (models.VaultStatus, error) {
	initialized, err := s.master.IsMasterSet(ctx)
	if err != nil {
		return models.VaultStatus{}, err
	}

	autoLock, err := s.settings.AutoLock(ctx)
	if err != nil {
		return models.VaultStatus{}, err
	}

	return models.VaultStatus{
		Version:             s.appVersion,
		Initialized:         initialized,
		Unlocked:            s.session.IsUnlocked(),
		AutoLock:            autoLock,
		DegradedKey:         s.session.IsDegraded(),
		DegradedDerivations: s.kdf.DegradedCount(),
	}, nil
}
