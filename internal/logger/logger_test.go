// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewLogger_RoleField verifies that every log entry contains the "role" field.
func TestNewLogger_RoleField(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("test-role", &buf)

	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test-role", entry["role"])
	_, hasTime := entry["time"]
	assert.True(t, hasTime, "expected 'time' field in log entry")
}

// TestNewLogger_CallerFieldName verifies that the caller field is named "func".
func TestNewLogger_CallerFieldName(t *testing.T) {
	NewLogger("caller-role", &bytes.Buffer{})
	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

// TestNewClientLogger_WritesToFile verifies that the CLI logger keeps stdout clean.
func TestNewClientLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.log")

	l := NewClientLogger("vault", path)
	l.Info().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

// TestNop_DiscardsOutput verifies that a Nop logger produces no output.
func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")

	assert.Empty(t, buf.String(), "Nop logger should produce no output")
}

// TestGetChildLogger_InheritsFields verifies that the child logger inherits
// context fields (e.g. "role") from the parent.
func TestGetChildLogger_InheritsFields(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger("inherited-role", &buf)

	child := parent.GetChildLogger()
	assert.NotSame(t, parent, child)
	child.Info().Msg("child message")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "inherited-role", entry["role"])
}

// TestFromContext_ReturnsAttachedLogger verifies the WithContext/FromContext pair.
func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("ctx-role", &buf)
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from context")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ctx-role", entry["role"])
}

// TestFromContext_NotNil verifies that FromContext never returns nil.
func TestFromContext_NotNil(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}
