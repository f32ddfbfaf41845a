// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/spf13/cobra"
)

func (a *App) newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the vault and set the master password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readNewPassword(a.prompter, "New master password: ")
			if err != nil {
				return err
			}

			err = a.do(cmd.Context(), func(ctx context.Context) error {
				return a.services.Session.Setup(ctx, password)
			})
			if err != nil {
				return err
			}

			a.view.success("vault initialised")
			return nil
		},
	}
}

func (a *App) newUnlockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Unlock the vault for the rest of the shell session",
		Args:  cobra.NoArgs,
		RunE: a.unlocked(func(*cobra.Command, []string) error {
			a.view.success("vault unlocked")
			return nil
		}),
	}
}

func (a *App) newLockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Lock the vault and wipe the session key",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a.services.Session.Lock()
			a.view.success("vault locked")
			return nil
		},
	}
}

func (a *App) newPasswdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the master password and re-encrypt every entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			oldPassword, err := a.prompter.ReadPassword("Current master password: ")
			if err != nil {
				return err
			}
			newPassword, err := readNewPassword(a.prompter, "New master password: ")
			if err != nil {
				return err
			}

			err = a.do(cmd.Context(), func(ctx context.Context) error {
				return a.services.Rotation.ChangeMaster(ctx, oldPassword, newPassword)
			})
			if err != nil {
				return err
			}

			a.view.success("master password changed")
			return nil
		},
	}
}

func (a *App) newAutoLockCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "autolock [on|off]",
		Short:     "Show or set locking the vault after inactivity",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings := a.services.Settings

			if len(args) == 1 {
				enabled := args[0] == "on"
				err := a.do(ctx, func(ctx context.Context) error {
					return settings.SetAutoLock(ctx, enabled)
				})
				if err != nil {
					return err
				}
			}

			enabled, err := await(ctx, a, settings.AutoLock)
			if err != nil {
				return err
			}

			a.view.printf("autolock is %s (after %s of inactivity)\n", onOff(enabled, "on", "off"), a.services.AutoLock.Timeout())
			return nil
		},
	}
}

func (a *App) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the vault and session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := await(cmd.Context(), a, a.services.Status.Status)
			if err != nil {
				return err
			}
			a.view.status(st)
			return nil
		},
	}
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// build info needs no vault
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(*cobra.Command, []string) {
			a.view.buildInfo(a.info)
		},
	}
}
