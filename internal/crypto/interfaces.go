// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// KeyDeriver stretches a password and a salt into a fixed-length symmetric
// key. Derivation is deterministic: the same password, salt and parameters
// always yield the same key.
//
// Schema of the vault:
//
//	MasterHash    = Derive(password, MasterSalt)        (verification only)
//	SessionKey    = Derive(password, EncryptionSalt)    (field encryption)
//	ExportKey     = Derive(exportPassword, ExportSalt)  (backup container)
//
// The three salts are independent random values, which keeps the three keys
// in separate domains.
type KeyDeriver interface {
	// Derive returns a 32-byte key for password and salt. When the preferred
	// PBKDF2 primitive cannot be used and the fallback is enabled, the
	// returned key is marked Degraded. With the fallback disabled the call
	// fails with ErrKDFUnavailable instead.
	Derive(password string, salt []byte) (DerivedKey, error)

	// DegradedCount reports how many derivations used the weak fallback
	// since the deriver was created.
	DegradedCount() int64
}

// FieldCipher seals and opens individual text fields with AES-256-GCM.
type FieldCipher interface {
	// Encrypt seals plaintext under key with a fresh random 12-byte nonce and
	// returns base64(nonce ‖ ciphertext ‖ tag). Any failure is reported as
	// ErrEncryptionFailure; plaintext is never returned in place of a
	// ciphertext.
	Encrypt(plaintext string, key []byte) (string, error)

	// Decrypt reverses Encrypt. A wrong key, a corrupted or a tampered value
	// all fail with ErrAuthenticationFailure and yield no plaintext.
	Decrypt(encoded string, key []byte) (string, error)
}
