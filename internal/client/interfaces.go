// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Execute runs the command described by args and blocks until it exits.
	Execute(ctx context.Context, args []string) error
}

// Prompter reads user input from the terminal.
type Prompter interface {
	// ReadPassword prints prompt and reads a line without echoing it.
	ReadPassword(prompt string) (string, error)
	// ReadLine prints prompt and reads a line. It returns io.EOF when input
	// is exhausted.
	ReadLine(prompt string) (string, error)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}
