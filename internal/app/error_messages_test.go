// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/store"
)

func TestReasonFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "locked", err: service.ErrKeyNotSet, want: MsgVaultLocked},
		{name: "wrong password", err: service.ErrWrongPassword, want: MsgWrongPassword},
		{name: "not initialised", err: service.ErrMasterNotSet, want: MsgVaultNotInitialised},
		{name: "mismatch", err: ErrPasswordMismatch, want: MsgPasswordMismatch},
		{name: "not found from store", err: fmt.Errorf("get: %w", store.ErrEntryNotFound), want: MsgEntryNotFound},
		{name: "auth failure from cipher", err: fmt.Errorf("decrypt title of entry x: %w", crypto.ErrAuthenticationFailure), want: MsgAuthenticationFailure},
		{
			name: "malformed container",
			err:  fmt.Errorf("%w: expected salt:ciphertext", service.ErrMalformedContainer),
			want: MsgMalformedContainer,
		},
		{
			name: "version mismatch",
			err:  fmt.Errorf("%w: got \"2.0\"", service.ErrVersionMismatch),
			want: MsgVersionMismatch,
		},
		{
			name: "storage failure hides cause",
			err:  fmt.Errorf("%w: %w", service.ErrStorageFailure, errors.New("no such table: entries")),
			want: MsgStorageFailure,
		},
		{name: "kdf", err: crypto.ErrKDFUnavailable, want: MsgKDFUnavailable},
		{name: "config", err: fmt.Errorf("%w: empty dsn", config.ErrInvalidStorageConfigs), want: MsgInvalidConfig},
		{name: "unknown", err: errors.New("boom"), want: MsgInternalError},
		{
			name: "usage keeps text",
			err:  fmt.Errorf("%w: accepts 1 arg(s), received 0", ErrUsage),
			want: "invalid usage: accepts 1 arg(s), received 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReasonFor(tt.err))
		})
	}
}
