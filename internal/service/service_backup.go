// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/models"
)

type backupService struct {
	session *VaultSession
	entries EntryService
	codec   ExportCodec
	batch   store.BatchWriter
	cipher  crypto.FieldCipher
	logger  *logger.Logger
}

// NewBackupService returns a [BackupService].
func NewBackupService(
	session *VaultSession,
	entries EntryService,
	codec ExportCodec,
	batch store.BatchWriter,
	cipher crypto.FieldCipher,
	logger *logger.Logger,
) BackupService {
	return &backupService{
		session: session,
		entries: entries,
		codec:   codec,
		batch:   batch,
		cipher:  cipher,
		logger:  logger,
	}
}

func (b *backupService) Export(ctx context.Context, password string) (string, error) {
	all, err := b.entries.GetAll(ctx)
	if err != nil {
		return "", err
	}

	container, err := b.codec.Encode(all, password)
	if err != nil {
		return "", err
	}

	b.logger.Info().
		Str("func", "backupService.Export").
		Int("entries", len(all)).
		Msg("vault exported")
	return container, nil
}

func (b *backupService) Import(ctx context.Context, container, password string) (int, error) {
	if !b.session.IsUnlocked() {
		return 0, ErrKeyNotSet
	}

	data, err := b.codec.Decode(container, password)
	if err != nil {
		b.logger.Warn().
			Str("func", "backupService.Import").
			Msg("export container rejected")
		return 0, err
	}

	err = b.session.WithKey(func(key []byte) error {
		now := models.NowMillis()
		sealed := make([]models.EncryptedEntry, 0, len(data.Entries))
		for _, e := range data.Entries {
			if e.ID == "" {
				return fmt.Errorf("%w: entry without id", ErrMalformedContainer)
			}
			enc, err := encryptEntry(b.cipher, key, withTimestamps(e, now))
			if err != nil {
				return err
			}
			sealed = append(sealed, enc)
		}

		return storageError(b.batch.ApplyBatch(ctx, store.Batch{Entries: sealed}))
	})
	if err != nil {
		return 0, err
	}

	b.logger.Info().
		Str("func", "backupService.Import").
		Int("entries", len(data.Entries)).
		Msg("vault imported")
	return len(data.Entries), nil
}
