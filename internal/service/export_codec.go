// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/models"
)

// containerSeparator splits base64(salt) from the sealed payload. It cannot
// occur in standard base64.
const containerSeparator = ":"

type exportCodec struct {
	kdf     crypto.KeyDeriver
	cipher  crypto.FieldCipher
	newSalt func() ([]byte, error)
	now     func() int64
}

// NewExportCodec returns an [ExportCodec]. Every container gets its own
// random salt, unrelated to the vault's salts.
func NewExportCodec(kdf crypto.KeyDeriver, cipher crypto.FieldCipher) ExportCodec {
	return &exportCodec{
		kdf:     kdf,
		cipher:  cipher,
		newSalt: crypto.GenerateSalt,
		now:     models.NowMillis,
	}
}

func (c *exportCodec) Encode(entries []models.Entry, password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	payload, err := json.Marshal(models.ExportData{
		AppIdentifier: models.ExportAppIdentifier,
		FormatVersion: models.ExportFormatVersion,
		ExportedAt:    c.now(),
		Entries:       entries,
	})
	if err != nil {
		return "", fmt.Errorf("marshal export payload: %w", err)
	}

	salt, err := c.newSalt()
	if err != nil {
		return "", fmt.Errorf("generate export salt: %w", err)
	}

	dk, err := c.kdf.Derive(password, salt)
	if err != nil {
		return "", fmt.Errorf("derive export key: %w", err)
	}
	defer crypto.Zero(dk.Key)

	sealed, err := c.cipher.Encrypt(string(payload), dk.Key)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(salt) + containerSeparator + sealed, nil
}

func (c *exportCodec) Decode(container, password string) (models.ExportData, error) {
	saltPart, sealed, found := strings.Cut(strings.TrimSpace(container), containerSeparator)
	if !found || saltPart == "" || sealed == "" || strings.Contains(sealed, containerSeparator) {
		return models.ExportData{}, fmt.Errorf("%w: expected salt:ciphertext", ErrMalformedContainer)
	}

	salt, err := base64.StdEncoding.DecodeString(saltPart)
	if err != nil {
		return models.ExportData{}, fmt.Errorf("%w: salt is not base64: %w", ErrMalformedContainer, err)
	}
	if len(salt) != crypto.SaltLength {
		return models.ExportData{}, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrMalformedContainer, crypto.SaltLength, len(salt))
	}

	dk, err := c.kdf.Derive(password, salt)
	if err != nil {
		return models.ExportData{}, fmt.Errorf("derive export key: %w", err)
	}
	defer crypto.Zero(dk.Key)

	payload, err := c.cipher.Decrypt(sealed, dk.Key)
	if err != nil {
		return models.ExportData{}, err
	}

	var data models.ExportData
	if err = json.Unmarshal([]byte(payload), &data); err != nil {
		return models.ExportData{}, fmt.Errorf("%w: payload is not valid JSON: %w", ErrMalformedContainer, err)
	}

	if data.AppIdentifier != models.ExportAppIdentifier {
		return models.ExportData{}, fmt.Errorf("%w: unknown app identifier %q", ErrMalformedContainer, data.AppIdentifier)
	}
	if data.FormatVersion != models.ExportFormatVersion {
		return models.ExportData{}, fmt.Errorf("%w: got %q, supported %q", ErrVersionMismatch, data.FormatVersion, models.ExportFormatVersion)
	}

	return data, nil
}
