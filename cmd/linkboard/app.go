package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/config"
	"github.com/at-ishikawa/linkboard/internal/dashboard"
	"github.com/at-ishikawa/linkboard/internal/database"
	"github.com/at-ishikawa/linkboard/internal/linkmeta"
	"github.com/at-ishikawa/linkboard/internal/notify"
	"github.com/at-ishikawa/linkboard/internal/reminder"
	"github.com/at-ishikawa/linkboard/internal/render"
	"github.com/at-ishikawa/linkboard/internal/storage"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// appOptions selects how a command uses the dashboard.
type appOptions struct {
	// render draws the dashboard after every change
	render bool
	// deliver arms reminder timers; only the watcher delivers reminders
	deliver bool
	editing bool
	yes     bool
	fetch   bool
}

type app struct {
	config     *config.Config
	controller *dashboard.Controller
	console    *render.Console
	dialogs    *flagDialogs
	fileKV     *storage.FileKV
	closers    []func() error
}

type quietRenderer struct{}

func (quietRenderer) Render(dashboard.View) error {
	return nil
}

func newApp(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts appOptions) (_ *app, err error) {
	a := &app{
		config:  cfg,
		console: render.NewConsole(cmd.OutOrStdout()),
		dialogs: newFlagDialogs(cmd, opts.yes),
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	if opts.fetch {
		a.dialogs.fetcher = linkmeta.NewFetcher(cfg.LinkMeta.Timeout)
	}

	kv, err := a.openKV(ctx)
	if err != nil {
		return nil, err
	}

	normalizer := board.NewNormalizer()
	normalizer.DefaultTitle = cfg.Dashboard.DefaultTitle
	store := board.NewStore(kv, cfg.Storage.Key, normalizer)

	webhook := notify.NewWebhook(notify.WebhookConfig{
		URL:              cfg.Notifications.Webhook.URL,
		Token:            cfg.Notifications.Webhook.Token,
		Permission:       reminder.Permission(cfg.Notifications.Webhook.Permission),
		MaxRetryAttempts: cfg.Notifications.Webhook.MaxRetryAttempts,
		RetryDelay:       cfg.Notifications.Webhook.RetryDelay,
	}, a.dialogs.AskPermission)
	a.closers = append(a.closers, webhook.Close)

	schedulerOpts := []reminder.Option{
		reminder.WithAlerter(notify.NewConsole(cmd.OutOrStdout())),
		reminder.WithHighlighter(a.console),
		reminder.WithMaxTimerDelay(cfg.Reminders.MaxTimerDelay),
		reminder.WithHighlightRetry(cfg.Reminders.HighlightAttempts, cfg.Reminders.HighlightInterval),
		reminder.WithNotifyTimeout(cfg.Reminders.NotifyTimeout),
	}
	if !opts.deliver {
		schedulerOpts = append(schedulerOpts, reminder.WithPassive())
	}
	scheduler := reminder.NewScheduler(webhook, schedulerOpts...)

	var renderer dashboard.Renderer = quietRenderer{}
	if opts.render {
		renderer = a.console
	}
	controller, err := dashboard.NewController(store, scheduler, a.dialogs, renderer,
		dashboard.WithMaxIconBytes(cfg.Dashboard.MaxIconBytes))
	if err != nil {
		return nil, fmt.Errorf("dashboard.NewController > %w", err)
	}
	a.controller = controller
	a.closers = append(a.closers, func() error {
		controller.Close()
		return nil
	})

	controller.SetEditing(opts.editing)
	if err := controller.Init(ctx); err != nil {
		return nil, fmt.Errorf("controller.Init > %w", err)
	}
	return a, nil
}

func (a *app) openKV(ctx context.Context) (storage.KV, error) {
	switch a.config.Storage.Driver {
	case "memory":
		return storage.NewMemoryKV(), nil
	case "mysql":
		db, err := database.Connect(ctx, a.config.Database, 3)
		if err != nil {
			return nil, fmt.Errorf("database.Connect > %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return storage.NewMySQLKV(db), nil
	default:
		kv, err := storage.NewFileKV(a.config.Storage.Directory)
		if err != nil {
			return nil, fmt.Errorf("storage.NewFileKV > %w", err)
		}
		a.fileKV = kv
		return kv, nil
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// withApp loads the configuration, runs fn with an initialized dashboard and releases it.
func withApp(cmd *cobra.Command, opts appOptions, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, cmd, cfg, opts)
	if err != nil {
		return err
	}
	runErr := fn(ctx, a)
	return errors.Join(runErr, a.Close())
}

func printf(cmd *cobra.Command, format string, args ...any) error {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		return fmt.Errorf("fmt.Fprintf > %w", err)
	}
	return nil
}
