// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/models"
)

const (
	// WeakPasswordLength is the plaintext length below which a password
	// counts as weak.
	WeakPasswordLength = 8

	// DefaultPageSize is the page size used when the caller passes none.
	DefaultPageSize = 10
)

type entryService struct {
	session *VaultSession
	entries store.EntryRepository
	cipher  crypto.FieldCipher
	newID   func() string
	logger  *logger.Logger
}

// NewEntryService returns the encrypted [EntryService] over entries.
func NewEntryService(session *VaultSession, entries store.EntryRepository, cipher crypto.FieldCipher, logger *logger.Logger) EntryService {
	return &entryService{
		session: session,
		entries: entries,
		cipher:  cipher,
		newID:   utils.NewUUIDGenerator().Generate,
		logger:  logger,
	}
}

func (s *entryService) Insert(ctx context.Context, e models.Entry) (models.Entry, error) {
	err := s.session.WithKey(func(key []byte) error {
		if e.ID == "" {
			e.ID = s.newID()
		}

		e = withTimestamps(e, models.NowMillis())

		sealed, err := encryptEntry(s.cipher, key, e)
		if err != nil {
			return err
		}

		inserted, err := s.entries.Insert(ctx, sealed)
		if err != nil {
			return storageError(err)
		}
		if inserted {
			return nil
		}

		s.logger.Debug().
			Str("func", "entryService.Insert").
			Str("id", e.ID).
			Msg("entry already exists, skipped")

		stored, err := s.entries.Get(ctx, e.ID)
		if err != nil {
			return storageError(err)
		}
		e, err = decryptEntry(s.cipher, key, stored)
		return err
	})
	if err != nil {
		return models.Entry{}, err
	}

	return e, nil
}

func (s *entryService) Update(ctx context.Context, e models.Entry) (models.Entry, error) {
	err := s.session.WithKey(func(key []byte) error {
		stored, err := s.entries.Get(ctx, e.ID)
		if err != nil {
			return storageError(err)
		}

		e.CreatedAt = stored.CreatedAt
		e.UpdatedAt = max(models.NowMillis(), stored.UpdatedAt)

		sealed, err := encryptEntry(s.cipher, key, e)
		if err != nil {
			return err
		}

		return storageError(s.entries.Update(ctx, sealed))
	})
	if err != nil {
		return models.Entry{}, err
	}

	return e, nil
}

func (s *entryService) Delete(ctx context.Context, id string) error {
	return s.session.WithKey(func([]byte) error {
		return storageError(s.entries.Delete(ctx, id))
	})
}

func (s *entryService) FindByID(ctx context.Context, id string) (models.Entry, error) {
	var out models.Entry
	err := s.session.WithKey(func(key []byte) error {
		stored, err := s.entries.Get(ctx, id)
		if err != nil {
			return storageError(err)
		}

		out, err = decryptEntry(s.cipher, key, stored)
		return err
	})
	return out, err
}

func (s *entryService) GetAll(ctx context.Context) ([]models.Entry, error) {
	var out []models.Entry
	err := s.session.WithKey(func(key []byte) error {
		var err error
		out, err = s.allLocked(ctx, key)
		return err
	})
	return out, err
}

func (s *entryService) GetPaged(ctx context.Context, pageIndex, pageSize int) ([]models.Entry, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var out []models.Entry
	err := s.session.WithKey(func(key []byte) error {
		if pageIndex < 0 {
			out = []models.Entry{}
			return nil
		}

		stored, err := s.entries.GetRange(ctx, pageIndex*pageSize, pageSize)
		if err != nil {
			return storageError(err)
		}

		out, err = decryptEntries(s.cipher, key, stored)
		return err
	})
	return out, err
}

// Search has no index over ciphertext: every query decrypts the whole vault.
func (s *entryService) Search(ctx context.Context, query string) ([]models.Entry, error) {
	q := strings.ToLower(query)

	var out []models.Entry
	err := s.session.WithKey(func(key []byte) error {
		all, err := s.allLocked(ctx, key)
		if err != nil {
			return err
		}

		out = make([]models.Entry, 0)
		for _, e := range all {
			if strings.Contains(strings.ToLower(e.Title), q) ||
				strings.Contains(strings.ToLower(e.Account), q) ||
				strings.Contains(strings.ToLower(e.Note), q) {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

func (s *entryService) WeakPasswordCount(ctx context.Context) (int, error) {
	stats, err := s.Stats(ctx)
	return stats.Weak, err
}

func (s *entryService) Count(ctx context.Context) (int, error) {
	var count int
	err := s.session.WithKey(func([]byte) error {
		var err error
		count, err = s.entries.Count(ctx)
		return storageError(err)
	})
	return count, err
}

func (s *entryService) Stats(ctx context.Context) (models.VaultStats, error) {
	var stats models.VaultStats
	err := s.session.WithKey(func(key []byte) error {
		all, err := s.allLocked(ctx, key)
		if err != nil {
			return err
		}

		stats.Total = len(all)
		for _, e := range all {
			if isWeakPassword(e.Password) {
				stats.Weak++
			}
		}
		return nil
	})
	return stats, err
}

// isWeakPassword measures the plaintext in characters; ciphertext length says
// nothing about it.
func isWeakPassword(password string) bool {
	return utf8.RuneCountInString(password) < WeakPasswordLength
}

// allLocked loads and decrypts every entry. The caller holds the key.
func (s *entryService) allLocked(ctx context.Context, key []byte) ([]models.Entry, error) {
	stored, err := s.entries.GetAll(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	out, err := decryptEntries(s.cipher, key, stored)
	if err != nil {
		if errors.Is(err, ErrAuthenticationFailure) {
			s.logger.Error().
				Str("func", "entryService.allLocked").
				Int("count", len(stored)).
				Msg("stored entry failed authentication")
		}
		return nil, err
	}
	return out, nil
}
