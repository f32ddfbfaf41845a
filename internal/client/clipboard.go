// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/MKhiriev/go-key-vault/internal/app"
)

type systemClipboard struct{}

// NewClipboard returns the system [Clipboard].
func NewClipboard() Clipboard {
	return systemClipboard{}
}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return app.ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", app.ErrClipboardUnavailable, err)
	}
	return nil
}
