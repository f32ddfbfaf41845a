// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-key-vault/internal/app"
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/models"
)

func (a *App) newAddCommand() *cobra.Command {
	var e models.Entry

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry",
		Args:  cobra.NoArgs,
		RunE: a.unlocked(func(cmd *cobra.Command, _ []string) error {
			if e.Title == "" {
				title, err := a.prompter.ReadLine("Title: ")
				if err != nil {
					return err
				}
				e.Title = title
			}
			if !cmd.Flags().Changed("account") {
				account, err := a.prompter.ReadLine("Account: ")
				if err != nil {
					return err
				}
				e.Account = account
			}

			password, err := a.prompter.ReadPassword("Password: ")
			if err != nil {
				return err
			}
			e.Password = password

			saved, err := await(cmd.Context(), a, func(ctx context.Context) (models.Entry, error) {
				return a.services.Entries.Insert(ctx, e)
			})
			if err != nil {
				return err
			}

			a.view.success("added %s", saved.ID)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&e.Title, "title", "t", "", "entry title")
	cmd.Flags().StringVarP(&e.Account, "account", "a", "", "login, e-mail or account number")
	cmd.Flags().StringVarP(&e.Note, "note", "n", "", "free-form note")
	return cmd
}

func (a *App) newListCommand() *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, newest first",
		Args:    cobra.NoArgs,
		RunE: a.unlocked(func(cmd *cobra.Command, _ []string) error {
			if page < 1 {
				return fmt.Errorf("%w: page must be 1 or greater", app.ErrUsage)
			}

			ctx := cmd.Context()
			entries, err := await(ctx, a, func(ctx context.Context) ([]models.Entry, error) {
				return a.services.Entries.GetPaged(ctx, page-1, size)
			})
			if err != nil {
				return err
			}

			total, err := await(ctx, a, a.services.Entries.Count)
			if err != nil {
				return err
			}

			a.view.entries(entries)
			pageSize := size
			if pageSize <= 0 {
				pageSize = service.DefaultPageSize
			}
			a.view.hint(fmt.Sprintf("page %d of %d, %d entries", page, max(1, (total+pageSize-1)/pageSize), total))
			return nil
		}),
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().IntVarP(&size, "size", "s", service.DefaultPageSize, "entries per page")
	return cmd
}

func (a *App) newShowCommand() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an entry",
		Args:  cobra.ExactArgs(1),
		RunE: a.unlocked(func(cmd *cobra.Command, args []string) error {
			e, err := a.find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.view.entry(e, reveal)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&reveal, "reveal", "r", false, "print the password in clear text")
	return cmd
}

func (a *App) newEditCommand() *cobra.Command {
	var (
		title, account, note string
		changePassword       bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry",
		Args:  cobra.ExactArgs(1),
		RunE: a.unlocked(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.find(ctx, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				e.Title = title
			}
			if flags.Changed("account") {
				e.Account = account
			}
			if flags.Changed("note") {
				e.Note = note
			}
			if changePassword {
				if e.Password, err = a.prompter.ReadPassword("New password: "); err != nil {
					return err
				}
			}

			_, err = await(ctx, a, func(ctx context.Context) (models.Entry, error) {
				return a.services.Entries.Update(ctx, e)
			})
			if err != nil {
				return err
			}

			a.view.success("updated %s", e.ID)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&account, "account", "a", "", "new account")
	cmd.Flags().StringVarP(&note, "note", "n", "", "new note")
	cmd.Flags().BoolVarP(&changePassword, "password", "P", false, "prompt for a new password")
	return cmd
}

func (a *App) newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: a.unlocked(func(cmd *cobra.Command, args []string) error {
			err := a.do(cmd.Context(), func(ctx context.Context) error {
				return a.services.Entries.Delete(ctx, args[0])
			})
			if err != nil {
				return err
			}

			a.view.success("deleted %s", args[0])
			return nil
		}),
	}
}

func (a *App) newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find entries by title, account or note",
		Args:  cobra.ExactArgs(1),
		RunE: a.unlocked(func(cmd *cobra.Command, args []string) error {
			found, err := await(cmd.Context(), a, func(ctx context.Context) ([]models.Entry, error) {
				return a.services.Entries.Search(ctx, args[0])
			})
			if err != nil {
				return err
			}

			a.view.entries(found)
			return nil
		}),
	}
}

func (a *App) newCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy the password of an entry to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: a.unlocked(func(cmd *cobra.Command, args []string) error {
			e, err := a.find(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err = a.clipboard.WriteAll(e.Password); err != nil {
				a.logger.Err(err).Str("func", "App.copy").Msg("failed to write clipboard")
				return err
			}

			a.view.success("password of %q copied to the clipboard", e.Title)
			return nil
		}),
	}
}

func (a *App) newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show entry count and weak passwords",
		Args:  cobra.NoArgs,
		RunE: a.unlocked(func(cmd *cobra.Command, _ []string) error {
			stats, err := await(cmd.Context(), a, a.services.Entries.Stats)
			if err != nil {
				return err
			}

			a.view.stats(stats)
			return nil
		}),
	}
}

func (a *App) find(ctx context.Context, id string) (models.Entry, error) {
	return await(ctx, a, func(ctx context.Context) (models.Entry, error) {
		return a.services.Entries.FindByID(ctx, id)
	})
}
