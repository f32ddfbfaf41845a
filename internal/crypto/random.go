// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// RandomBytes reads n bytes from the OS CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}

// GenerateSalt returns a fresh [SaltLength]-byte random salt.
func GenerateSalt() ([]byte, error) {
	return RandomBytes(SaltLength)
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
