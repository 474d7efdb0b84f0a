package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/linkboard/internal/database"
)

func newDBCommand() *cobra.Command {
	dbCommand := &cobra.Command{
		Use:   "db",
		Short: "Database commands for the mysql storage driver",
	}
	dbCommand.AddCommand(newMigrateCommand())
	return dbCommand
}

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
	}

	var upSteps int
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *database.Migrator) error {
				changed, err := m.Up(upSteps)
				if err != nil {
					return fmt.Errorf("migrator.Up > %w", err)
				}
				return printMigration(cmd, m, changed)
			})
		},
	}
	upCmd.Flags().IntVar(&upSteps, "steps", 0, "Number of migrations to apply, all when 0")

	var downSteps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revert migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *database.Migrator) error {
				changed, err := m.Down(downSteps)
				if err != nil {
					return fmt.Errorf("migrator.Down > %w", err)
				}
				return printMigration(cmd, m, changed)
			})
		},
	}
	downCmd.Flags().IntVar(&downSteps, "steps", 1, "Number of migrations to revert, all when 0")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show the applied migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *database.Migrator) error {
				return printMigration(cmd, m, true)
			})
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}

func withMigrator(cmd *cobra.Command, fn func(m *database.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := database.Connect(ctx, cfg.Database, 3)
	if err != nil {
		return fmt.Errorf("database.Connect > %w", err)
	}
	migrator, err := database.NewMigrator(db.DB)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("database.NewMigrator > %w", err)
	}
	defer func() {
		_ = migrator.Close()
	}()
	return fn(migrator)
}

func printMigration(cmd *cobra.Command, m *database.Migrator, changed bool) error {
	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("migrator.Version > %w", err)
	}
	if !changed {
		return printf(cmd, "no migrations to run, version %d\n", version)
	}
	return printf(cmd, "version %d (dirty: %t)\n", version, dirty)
}
