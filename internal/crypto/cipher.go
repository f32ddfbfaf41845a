// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

const (
	// NonceSize is the GCM nonce length prepended to every sealed field.
	NonceSize = 12

	// TagSize is the GCM authentication tag length appended by Seal.
	TagSize = 16
)

// fieldCipher is the AES-256-GCM implementation of [FieldCipher].
type fieldCipher struct {
	random io.Reader
}

// CipherOption customises a [FieldCipher] built by [NewFieldCipher].
type CipherOption func(*fieldCipher)

// WithRandom replaces the nonce source. It must be a CSPRNG outside tests.
func WithRandom(r io.Reader) CipherOption {
	return func(c *fieldCipher) { c.random = r }
}

// NewFieldCipher constructs a [FieldCipher] that draws nonces from
// crypto/rand.
func NewFieldCipher(opts ...CipherOption) FieldCipher {
	c := &fieldCipher{random: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encrypt implements [FieldCipher]. The output layout is
// base64(nonce (12) ‖ ciphertext ‖ tag (16)) in standard encoding.
func (c *fieldCipher) Encrypt(plaintext string, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncryptionFailure, err)
	}

	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	if _, err = io.ReadFull(c.random, nonce); err != nil {
		return "", fmt.Errorf("%w: generate nonce: %w", ErrEncryptionFailure, err)
	}

	// Seal appends ciphertext ‖ tag to the nonce slice.
	blob := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [FieldCipher].
func (c *fieldCipher) Decrypt(encoded string, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	blob, err := base64.StdEncoding.Strict().DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: decode base64: %w", ErrAuthenticationFailure, err)
	}
	if len(blob) < NonceSize+TagSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrAuthenticationFailure)
	}

	nonce, sealed := blob[:NonceSize], blob[NonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthenticationFailure, err)
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKeyLength, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
