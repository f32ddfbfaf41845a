// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides small helpers shared across the vault packages.
package utils

import "github.com/google/uuid"

// UUIDGenerator produces entry identifiers.
type UUIDGenerator struct {
}

// NewUUIDGenerator returns a [UUIDGenerator].
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7, so ids of entries created on this device sort by
// creation time. It falls back to a random UUIDv4 if v7 generation fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
