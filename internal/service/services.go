// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/models"
)

// VaultServices aggregates every service of the vault around one session.
type VaultServices struct {
	Session  *VaultSession
	Master   MasterAuthenticator
	Settings SettingsService
	Entries  EntryService
	Rotation RotationService
	Backup   BackupService
	AutoLock AutoLockJob
	Status   StatusService
}

// NewVaultServices wires the services to storages using cfg.
func NewVaultServices(
	storages *store.LocalStorages,
	cfg *config.StructuredConfig,
	info models.AppBuildInfo,
	logger *logger.Logger,
	opts ...RotationOption,
) *VaultServices {
	kdf := crypto.NewKeyDeriver(
		crypto.WithIterations(cfg.Crypto.KDFIterations),
		crypto.WithFallback(cfg.Crypto.AllowKDFFallback),
		crypto.WithLogger(logger),
	)
	cipher := crypto.NewFieldCipher()

	master := NewMasterAuthenticator(storages.Settings, kdf, logger)
	settings := NewSettingsService(storages.Settings, logger)
	session := NewVaultSession(master, settings, storages.Batch, kdf, logger)
	entries := NewEntryService(session, storages.Entries, cipher, logger)

	return &VaultServices{
		Session:  session,
		Master:   master,
		Settings: settings,
		Entries:  entries,
		Rotation: NewRotationService(session, master, settings, storages.Entries, storages.Batch, kdf, cipher, logger, opts...),
		Backup:   NewBackupService(session, entries, NewExportCodec(kdf, cipher), storages.Batch, cipher, logger),
		AutoLock: NewAutoLockJob(session, settings, cfg.Workers.AutoLockTimeout, logger),
		Status:   NewStatusService(info, session, master, settings, kdf, logger),
	}
}
