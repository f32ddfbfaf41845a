// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-key-vault/internal/app"
)

const shellPrompt = "vault> "

func (a *App) newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively with one unlocked session",
		Long: `Run commands interactively with one unlocked session.

The vault stays unlocked between commands until "lock", "exit" or the
auto-lock timeout. Type "help" for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.inShell {
				a.view.hint("already in the vault shell")
				return nil
			}
			a.inShell = true
			defer func() {
				a.inShell = false
				a.started = true
			}()

			ctx := cmd.Context()
			for {
				line, err := a.prompter.ReadLine(shellPrompt)
				if errors.Is(err, io.EOF) {
					a.view.println()
					return nil
				}
				if err != nil {
					return err
				}

				args, err := shlex.Split(line)
				if err != nil {
					a.view.error(app.ReasonFor(fmt.Errorf("%w: %w", app.ErrUsage, err)))
					continue
				}
				if len(args) == 0 {
					continue
				}
				if args[0] == "exit" || args[0] == "quit" {
					return nil
				}

				if err = a.run(ctx, args); err != nil {
					a.logger.Err(err).Str("func", "App.shell").Str("command", args[0]).Msg("command failed")
					a.view.error(app.ReasonFor(err))
				}
			}
		},
	}
}
