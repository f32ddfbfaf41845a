// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the vault command-line application.
//
// It wires the cobra command tree, terminal prompts and the vault services
// into a single process lifecycle. Every vault call runs on the background
// executor and is awaited by the command goroutine; the auto-lock job runs
// next to it for the lifetime of the process.
package client
