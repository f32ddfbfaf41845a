// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"fmt"
	"sync/atomic"

	"golang.org/x/crypto/pbkdf2"

	"github.com/MKhiriev/go-key-vault/internal/logger"
)

const (
	// DefaultIterations is the PBKDF2 iteration count used for every key in
	// the vault. Changing it makes existing vaults and exports unreadable.
	DefaultIterations = 100_000

	// KeyLength is the length of every derived key (AES-256).
	KeyLength = 32

	// SaltLength is the length of the master, encryption and export salts.
	SaltLength = 32
)

// DerivedKey is the output of [KeyDeriver.Derive].
type DerivedKey struct {
	// Key is the derived key material. Callers should [Zero] it when done.
	Key []byte

	// Degraded is true when the key came from the single-hash fallback
	// instead of PBKDF2. Such keys resist brute force far worse.
	Degraded bool
}

// PRF is a password-based key derivation primitive.
type PRF func(password, salt []byte, iterations, keyLen int) ([]byte, error)

// PBKDF2SHA256 is the preferred [PRF]: PBKDF2 with HMAC-SHA256.
func PBKDF2SHA256(password, salt []byte, iterations, keyLen int) ([]byte, error) {
	if iterations < 1 || keyLen < 1 {
		return nil, fmt.Errorf("pbkdf2: bad parameters (iterations=%d, key_len=%d)", iterations, keyLen)
	}
	return pbkdf2.Key(password, salt, iterations, keyLen, sha256.New), nil
}

// keyDeriver is the private implementation of [KeyDeriver].
type keyDeriver struct {
	prf           PRF
	iterations    int
	allowFallback bool
	logger        *logger.Logger

	degraded atomic.Int64
}

// KDFOption customises a [KeyDeriver] built by [NewKeyDeriver].
type KDFOption func(*keyDeriver)

// WithIterations overrides the PBKDF2 iteration count.
func WithIterations(n int) KDFOption {
	return func(k *keyDeriver) { k.iterations = n }
}

// WithFallback enables the SHA-256(salt ‖ password) fallback used when the
// preferred primitive fails.
func WithFallback(allow bool) KDFOption {
	return func(k *keyDeriver) { k.allowFallback = allow }
}

// WithPRF replaces the preferred primitive.
func WithPRF(prf PRF) KDFOption {
	return func(k *keyDeriver) { k.prf = prf }
}

// WithLogger attaches a logger that receives degraded-mode warnings.
func WithLogger(l *logger.Logger) KDFOption {
	return func(k *keyDeriver) { k.logger = l }
}

// NewKeyDeriver constructs a [KeyDeriver] with PBKDF2-HMAC-SHA256,
// [DefaultIterations] iterations, a 256-bit output and the fallback disabled.
func NewKeyDeriver(opts ...KDFOption) KeyDeriver {
	k := &keyDeriver{
		prf:        PBKDF2SHA256,
		iterations: DefaultIterations,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Derive implements [KeyDeriver].
func (k *keyDeriver) Derive(password string, salt []byte) (DerivedKey, error) {
	if len(salt) == 0 {
		return DerivedKey{}, ErrInvalidSalt
	}

	key, err := k.prf([]byte(password), salt, k.iterations, KeyLength)
	if err == nil && len(key) == KeyLength {
		return DerivedKey{Key: key}, nil
	}
	if err == nil {
		err = fmt.Errorf("primitive returned %d bytes, want %d", len(key), KeyLength)
	}

	if !k.allowFallback {
		return DerivedKey{}, fmt.Errorf("%w: %w", ErrKDFUnavailable, err)
	}

	total := k.degraded.Add(1)
	k.logger.Warn().
		Err(err).
		Str("func", "keyDeriver.Derive").
		Int64("degraded_total", total).
		Msg("preferred KDF failed, falling back to single SHA-256 digest")

	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	return DerivedKey{Key: h.Sum(nil), Degraded: true}, nil
}

// DegradedCount implements [KeyDeriver].
func (k *keyDeriver) DegradedCount() int64 {
	return k.degraded.Load()
}
