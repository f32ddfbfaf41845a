// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastDeriver keeps unit tests quick; the iteration count does not change the
// properties under test.
func fastDeriver(opts ...KDFOption) KeyDeriver {
	return NewKeyDeriver(append([]KDFOption{WithIterations(1000)}, opts...)...)
}

func TestKeyDeriver_DeterministicForSameInputs(t *testing.T) {
	kd := fastDeriver()
	salt := bytes.Repeat([]byte{0xAB}, SaltLength)

	k1, err := kd.Derive("correct horse battery staple", salt)
	require.NoError(t, err)
	k2, err := kd.Derive("correct horse battery staple", salt)
	require.NoError(t, err)

	assert.Len(t, k1.Key, KeyLength)
	assert.Equal(t, k1.Key, k2.Key)
	assert.False(t, k1.Degraded)
}

func TestKeyDeriver_DifferentSaltOrPassword(t *testing.T) {
	kd := fastDeriver()
	salt1 := bytes.Repeat([]byte{0x01}, SaltLength)
	salt2 := bytes.Repeat([]byte{0x02}, SaltLength)

	a, err := kd.Derive("pw", salt1)
	require.NoError(t, err)
	b, err := kd.Derive("pw", salt2)
	require.NoError(t, err)
	c, err := kd.Derive("pw2", salt1)
	require.NoError(t, err)

	assert.NotEqual(t, a.Key, b.Key)
	assert.NotEqual(t, a.Key, c.Key)
}

// RFC 7914 §11 PBKDF2-HMAC-SHA256 vector (P="passwd", S="salt", c=1).
func TestPBKDF2SHA256_KnownVector(t *testing.T) {
	got, err := PBKDF2SHA256([]byte("passwd"), []byte("salt"), 1, 64)
	require.NoError(t, err)

	want := "55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc" +
		"49ca9cccf179b645991664b39d77ef317c71b845b1e30bd509112041d3a19783"
	assert.Equal(t, want, hex.EncodeToString(got))
}

func TestKeyDeriver_DefaultIterations(t *testing.T) {
	salt := bytes.Repeat([]byte{0x07}, SaltLength)

	got, err := NewKeyDeriver().Derive("pw", salt)
	require.NoError(t, err)

	want, err := PBKDF2SHA256([]byte("pw"), salt, DefaultIterations, KeyLength)
	require.NoError(t, err)
	assert.Equal(t, want, got.Key)
}

func TestKeyDeriver_EmptySalt(t *testing.T) {
	_, err := fastDeriver().Derive("pw", nil)
	assert.ErrorIs(t, err, ErrInvalidSalt)
}

func brokenPRF(_, _ []byte, _, _ int) ([]byte, error) {
	return nil, errors.New("primitive unavailable")
}

func TestKeyDeriver_FallbackDisabled(t *testing.T) {
	kd := NewKeyDeriver(WithPRF(brokenPRF))

	_, err := kd.Derive("pw", []byte("salt"))
	require.ErrorIs(t, err, ErrKDFUnavailable)
	assert.Zero(t, kd.DegradedCount())
}

func TestKeyDeriver_FallbackIsFlagged(t *testing.T) {
	kd := NewKeyDeriver(WithPRF(brokenPRF), WithFallback(true))
	salt := []byte("salt")

	got, err := kd.Derive("pw", salt)
	require.NoError(t, err)

	want := sha256.Sum256(append(append([]byte(nil), salt...), "pw"...))
	assert.True(t, got.Degraded)
	assert.Equal(t, want[:], got.Key)
	assert.Equal(t, int64(1), kd.DegradedCount())
}

func TestKeyDeriver_ShortPrimitiveOutputFallsBack(t *testing.T) {
	short := func(_, _ []byte, _, _ int) ([]byte, error) { return []byte{1, 2, 3}, nil }
	kd := NewKeyDeriver(WithPRF(short), WithFallback(true))

	got, err := kd.Derive("pw", []byte("salt"))
	require.NoError(t, err)
	assert.True(t, got.Degraded)
	assert.Len(t, got.Key, KeyLength)
}
