// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Entry is a single vault item in plaintext form.
//
// An Entry returned by the service layer is a value: it is a decrypted copy
// and does not track later changes of the stored record or of the session key.
type Entry struct {
	// ID is the opaque unique identifier of the entry (UUIDv7 for entries
	// created on this device).
	ID string `json:"id"`

	// Title is the display name of the entry (e.g. "Bank").
	Title string `json:"title"`

	// Account is the login, e-mail or account number.
	Account string `json:"account"`

	// Password is the secret itself.
	Password string `json:"password"`

	// Note is a free-form user note. May be empty.
	Note string `json:"note"`

	// CreatedAt is the creation time in epoch milliseconds.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the last modification time in epoch milliseconds.
	UpdatedAt int64 `json:"updatedAt"`
}

// EncryptedEntry is the at-rest form of an [Entry]. Every text field holds
// the base64(nonce ‖ ciphertext ‖ tag) string produced by the field cipher,
// each sealed with its own nonce. Timestamps and ID are stored in clear.
type EncryptedEntry struct {
	ID        string
	Title     string
	Account   string
	Password  string
	Note      string
	CreatedAt int64
	UpdatedAt int64
}

// NowMillis returns the current wall-clock time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
