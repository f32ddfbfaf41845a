// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Names of the persisted key-value fields. These names are part of the
// on-device contract and must not change.
const (
	SettingMasterSalt     = "master_salt"
	SettingMasterHash     = "master_hash"
	SettingEncryptionSalt = "encryption_salt"
	SettingAutoLock       = "auto_lock"
)

// MasterCredential is the salt/hash pair used to verify the master password.
// Both values are lower-case hex. The salt is never the same value as the
// encryption salt, so the stored hash and the session key are derived in
// separate domains.
type MasterCredential struct {
	Salt string
	Hash string
}

// IsSet reports whether both halves of the credential are present.
func (c MasterCredential) IsSet() bool {
	return c.Salt != "" && c.Hash != ""
}

// Settings returns the credential as key-value pairs ready to be written in
// a single batch, so salt and hash are always replaced together.
func (c MasterCredential) Settings() map[string]string {
	return map[string]string{
		SettingMasterSalt: c.Salt,
		SettingMasterHash: c.Hash,
	}
}
