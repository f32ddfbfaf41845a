// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger that adds
// convenience constructors and context-aware helpers used throughout the
// go-key-vault application.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
// Application code should pass *Logger by pointer and obtain scoped loggers
// via FromContext.
//
// Vault secrets (passwords, keys, decrypted fields) must never be passed to a
// logger; log identifiers and counts only.
package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

func configureGlobals() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name() // return function name
	}
	zerolog.CallerFieldName = "func"
}

// NewLogger constructs a JSON *Logger that writes to w and tags every entry
// with the given role, a timestamp and the calling function name.
func NewLogger(role string, w io.Writer) *Logger {
	configureGlobals()

	logger := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// NewClientLogger constructs the logger used by the vault CLI. Standard
// output carries command results, so log entries go to logPath (appended,
// created with 0600). An empty logPath places a "logs" file next to the
// executable. When the file cannot be opened, logs fall back to stderr.
func NewClientLogger(role, logPath string) *Logger {
	if logPath == "" {
		execPath, _ := os.Executable()
		logPath = filepath.Join(filepath.Dir(execPath), "logs")
	}

	var out io.Writer = os.Stderr
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err == nil {
		out = logFile
	}

	return NewLogger(role, out)
}

// Nop returns a *Logger that discards all log output.
// It is intended for use in tests and other contexts where logging is
// undesirable or would produce noise.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver. The child logger can be enriched with additional context fields
// without affecting the parent logger.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromContext extracts the zerolog.Logger stored in ctx by zerolog's log.Ctx
// helper and returns it as a *Logger.
//
// If no logger has been attached to ctx, zerolog returns its default logger,
// so this function never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
