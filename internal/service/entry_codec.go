// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/models"
)

// encryptEntry seals each text field of e independently, so every field
// gets its own nonce.
// withTimestamps fills a zero createdAt with now and a zero updatedAt with
// createdAt.
func withTimestamps(e models.Entry, now int64) models.Entry {
	if e.CreatedAt == 0 {
		e.CreatedAt = now
	}
	if e.UpdatedAt == 0 {
		e.UpdatedAt = e.CreatedAt
	}
	return e
}

func encryptEntry(c crypto.FieldCipher, key []byte, e models.Entry) (models.EncryptedEntry, error) {
	out := models.EncryptedEntry{
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}

	fields := []struct {
		name string
		in   string
		out  *string
	}{
		{"title", e.Title, &out.Title},
		{"account", e.Account, &out.Account},
		{"password", e.Password, &out.Password},
		{"note", e.Note, &out.Note},
	}
	for _, f := range fields {
		sealed, err := c.Encrypt(f.in, key)
		if err != nil {
			return models.EncryptedEntry{}, fmt.Errorf("encrypt %s of entry %s: %w", f.name, e.ID, err)
		}
		*f.out = sealed
	}

	return out, nil
}

func decryptEntry(c crypto.FieldCipher, key []byte, e models.EncryptedEntry) (models.Entry, error) {
	out := models.Entry{
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}

	fields := []struct {
		name string
		in   string
		out  *string
	}{
		{"title", e.Title, &out.Title},
		{"account", e.Account, &out.Account},
		{"password", e.Password, &out.Password},
		{"note", e.Note, &out.Note},
	}
	for _, f := range fields {
		opened, err := c.Decrypt(f.in, key)
		if err != nil {
			return models.Entry{}, fmt.Errorf("decrypt %s of entry %s: %w", f.name, e.ID, err)
		}
		*f.out = opened
	}

	return out, nil
}

func decryptEntries(c crypto.FieldCipher, key []byte, items []models.EncryptedEntry) ([]models.Entry, error) {
	out := make([]models.Entry, 0, len(items))
	for _, item := range items {
		e, err := decryptEntry(c, key, item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func encryptEntries(c crypto.FieldCipher, key []byte, items []models.Entry) ([]models.EncryptedEntry, error) {
	out := make([]models.EncryptedEntry, 0, len(items))
	for _, item := range items {
		e, err := encryptEntry(c, key, item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
