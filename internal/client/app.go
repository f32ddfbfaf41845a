// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-key-vault/internal/app"
	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/internal/workers"
	"github.com/MKhiriev/go-key-vault/models"
)

// App is the vault CLI. The vault is opened lazily by the first command
// that needs it and stays open until Close, so an interactive shell keeps
// one session across commands.
type App struct {
	info      models.AppBuildInfo
	out       io.Writer
	view      *view
	prompter  Prompter
	clipboard Clipboard
	newLogger func(cfg *config.StructuredConfig) *logger.Logger

	cfg      *config.StructuredConfig
	logger   *logger.Logger
	storages *store.LocalStorages
	services *service.VaultServices
	executor *workers.Executor
	workers  *workers.Workers
	cancel   context.CancelFunc

	inShell bool
	started bool
}

// Option configures an [App].
type Option func(*App)

// WithIO replaces standard input and output.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.prompter = NewPrompter(in, out)
	}
}

// WithPrompter replaces the terminal prompter.
func WithPrompter(p Prompter) Option {
	return func(a *App) {
		a.prompter = p
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(a *App) {
		a.clipboard = c
	}
}

// WithLogger makes the App log to l instead of the configured log file.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) {
		a.newLogger = func(*config.StructuredConfig) *logger.Logger { return l }
	}
}

// NewApp creates the CLI. Nothing is opened until a command runs.
func NewApp(info models.AppBuildInfo, opts ...Option) *App {
	a := &App{
		info:      info,
		out:       os.Stdout,
		clipboard: NewClipboard(),
		newLogger: func(cfg *config.StructuredConfig) *logger.Logger {
			return logger.NewClientLogger("vault", cfg.Log.FilePath)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.prompter == nil {
		a.prompter = NewPrompter(os.Stdin, a.out)
	}
	a.view = newView(a.out)
	return a
}

// Execute implements [Client]. It runs one command and closes the vault.
func (a *App) Execute(ctx context.Context, args []string) error {
	defer a.Close()
	return a.run(ctx, args)
}

// run executes args on a fresh command tree, so flag values never leak from
// one shell line into the next. Errors raised before the command started
// (unknown command, bad flags or arguments) are marked as usage errors.
func (a *App) run(ctx context.Context, args []string) error {
	a.started = false

	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.out)

	err := root.ExecuteContext(ctx)
	if err != nil && !a.started {
		return fmt.Errorf("%w: %w", app.ErrUsage, err)
	}
	return err
}

// open loads configuration from the command's flags, opens the storage and
// starts the executor and the auto-lock job. It is a no-op when the vault is
// already open.
func (a *App) open(cmd *cobra.Command, _ []string) error {
	a.started = true
	if a.services != nil {
		return nil
	}

	cfg, err := config.GetVaultConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := a.newLogger(cfg)
	ctx := cmd.Context()

	storages, err := store.NewLocalStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Err(err).Str("func", "App.open").Msg("failed to open vault storage")
		return fmt.Errorf("%w: %w", service.ErrStorageFailure, err)
	}

	a.cfg = cfg
	a.logger = log
	a.storages = storages
	a.services = service.NewVaultServices(storages, cfg, a.info, log, service.WithRotationObserver(a.reportRotation))
	a.executor = workers.NewExecutor(cfg.Workers.PoolSize, cfg.Workers.QueueSize, log)
	a.workers = workers.NewWorkers(a.executor, a.services.AutoLock)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancel = cancel
	a.workers.Run(runCtx)

	log.Debug().
		Str("func", "App.open").
		Str("dsn", cfg.Storage.DB.DSN).
		Msg("vault opened")
	return nil
}

// Close locks the session, stops the workers and closes the storage.
func (a *App) Close() error {
	if a.services == nil {
		return nil
	}

	a.services.Session.Lock()
	a.workers.Stop()
	a.cancel()
	err := a.storages.Close()

	a.services = nil
	a.storages = nil
	a.executor = nil
	a.workers = nil
	return err
}

// await runs fn on the executor and waits for its result.
func await[T any](ctx context.Context, a *App, fn func(ctx context.Context) (T, error)) (T, error) {
	return workers.Submit(ctx, a.executor, fn).Await(ctx)
}

// do is await for calls without a result.
func (a *App) do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := await(ctx, a, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// unlock asks for the master password when the session is locked.
func (a *App) unlock(ctx context.Context) error {
	session := a.services.Session
	if session.IsUnlocked() {
		return nil
	}

	set, err := await(ctx, a, a.services.Master.IsMasterSet)
	if err != nil {
		return err
	}
	if !set {
		return service.ErrMasterNotSet
	}

	password, err := a.prompter.ReadPassword("Master password: ")
	if err != nil {
		return err
	}

	err = a.do(ctx, func(ctx context.Context) error {
		return session.Unlock(ctx, password)
	})
	if err != nil {
		return err
	}

	if session.IsDegraded() {
		a.view.warning("session key was derived with the weak single-hash fallback")
	}
	return nil
}

func (a *App) reportRotation(state service.RotationState) {
	switch state {
	case service.RotationDecrypting, service.RotationReencrypting:
		a.view.hint(state.String() + "...")
	}
}

// unlocked wraps a RunE so that it runs with an unlocked session.
func (a *App) unlocked(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.unlock(cmd.Context()); err != nil {
			return err
		}
		return run(cmd, args)
	}
}
