// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-key-vault/models"
)

// exportFileMode keeps export files readable by the owner only.
const exportFileMode = 0o600

func defaultExportFile() string {
	return "vault_export_" + strconv.FormatInt(models.NowMillis(), 10) + ".enc"
}

func (a *App) newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every entry to an encrypted export file",
		Long: `Write every entry to an encrypted export file.

The export is sealed under its own password, which may differ from the
master password. Without a file name, vault_export_<timestamp>.enc is
created in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.unlocked(func(cmd *cobra.Command, args []string) error {
			path := defaultExportFile()
			if len(args) == 1 {
				path = args[0]
			}

			password, err := readNewPassword(a.prompter, "Export password: ")
			if err != nil {
				return err
			}

			container, err := await(cmd.Context(), a, func(ctx context.Context) (string, error) {
				return a.services.Backup.Export(ctx, password)
			})
			if err != nil {
				return err
			}

			if err = os.WriteFile(path, []byte(container), exportFileMode); err != nil {
				a.logger.Err(err).Str("func", "App.export").Str("path", path).Msg("failed to write export file")
				return fmt.Errorf("write export file: %w", err)
			}

			a.view.success("exported to %s", path)
			return nil
		}),
	}
}

func (a *App) newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries from an export file",
		Long: `Import entries from an export file.

Entries are matched by id: existing ones are overwritten, new ones are
added. Either every entry is imported or none is.`,
		Args: cobra.ExactArgs(1),
		RunE: a.unlocked(func(cmd *cobra.Command, args []string) error {
			container, err := os.ReadFile(args[0])
			if err != nil {
				a.logger.Err(err).Str("func", "App.import").Str("path", args[0]).Msg("failed to read export file")
				return fmt.Errorf("read export file: %w", err)
			}

			password, err := a.prompter.ReadPassword("Export password: ")
			if err != nil {
				return err
			}

			n, err := await(cmd.Context(), a, func(ctx context.Context) (int, error) {
				return a.services.Backup.Import(ctx, string(container), password)
			})
			if err != nil {
				return err
			}

			a.view.success("imported %d entries", n)
			return nil
		}),
	}
}
