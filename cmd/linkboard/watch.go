package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/linkboard/internal/bootstrap"
)

func newWatchCommand() *cobra.Command {
	var interval time.Duration
	command := &cobra.Command{
		Use:   "watch",
		Short: "Keep the dashboard open and deliver reminders as they come due",
		Long: "Keep the dashboard open and deliver reminders as they come due.\n" +
			"Changes made by other commands are picked up from the file storage as they happen, " +
			"and every --interval for the other storage drivers.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := newApp(ctx, cmd, cfg, appOptions{render: true, deliver: true})
			if err != nil {
				return err
			}

			lifecycle := bootstrap.New()
			lifecycle.AddShutdownHook("dashboard", func(context.Context) error {
				return a.Close()
			})
			return lifecycle.Run(ctx, func(ctx context.Context) error {
				if !a.controller.EnsurePermission(ctx) {
					slog.Default().Debug("notifications are not granted, reminders are printed instead")
				}
				if a.fileKV != nil {
					return watchFile(ctx, a, a.fileKV.Path(cfg.Storage.Key))
				}
				return poll(ctx, a, interval)
			})
		},
	}
	command.Flags().DurationVar(&interval, "interval", 30*time.Second, "Reload interval for database and memory storage")
	return command
}

// watchFile reloads the dashboard whenever path is written or replaced.
func watchFile(ctx context.Context, a *app, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher > %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()
	// Saves replace the file, so the directory is watched instead of the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watcher.Add(%s) > %w", filepath.Dir(path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			slog.Default().Debug("dashboard changed on disk", "event", event.String())
			reload(ctx, a)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Default().Warn("watching the dashboard failed", "error", err)
		}
	}
}

func poll(ctx context.Context, a *app, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			reload(ctx, a)
		}
	}
}

func reload(ctx context.Context, a *app) {
	if err := a.controller.Reload(ctx); err != nil {
		slog.Default().Warn("failed to reload the dashboard", "error", err)
	}
}
