// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-key-vault/internal/config"
)

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "vault",
		Short: "vault is a local encrypted password store.",
		Long: `vault keeps passwords in a local SQLite file. Every field is encrypted
with AES-256-GCM under a key derived from the master password.

Run "vault shell" to keep the vault unlocked across several commands.`,
		Version:           a.info.BuildVersion(),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		a.newInitCommand(),
		a.newUnlockCommand(),
		a.newLockCommand(),
		a.newAddCommand(),
		a.newListCommand(),
		a.newShowCommand(),
		a.newEditCommand(),
		a.newRemoveCommand(),
		a.newSearchCommand(),
		a.newCopyCommand(),
		a.newStatsCommand(),
		a.newPasswdCommand(),
		a.newExportCommand(),
		a.newImportCommand(),
		a.newAutoLockCommand(),
		a.newStatusCommand(),
		a.newVersionCommand(),
		a.newShellCommand(),
	)
	return root
}
