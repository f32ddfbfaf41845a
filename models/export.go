// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

const (
	// ExportAppIdentifier is written into every export and checked on import.
	ExportAppIdentifier = "MyKey"

	// ExportFormatVersion is the only container format version this build
	// reads and writes.
	ExportFormatVersion = "1.0"
)

// ExportData is the plaintext document sealed inside an export container.
// Field order is fixed by the struct so the JSON encoding is canonical.
type ExportData struct {
	AppIdentifier string  `json:"appIdentifier"`
	FormatVersion string  `json:"formatVersion"`
	ExportedAt    int64   `json:"exportedAt"`
	Entries       []Entry `json:"entries"`
}

// VaultStats is the summary shown on the main screen.
type VaultStats struct {
	Total int `json:"total"`
	Weak  int `json:"weak"`
}

// VaultStatus is a snapshot of the vault state shown by the status command.
type VaultStatus struct {
	Version             string
	Initialized         bool
	Unlocked            bool
	AutoLock            bool
	DegradedKey         bool
	DegradedDerivations int64
}
