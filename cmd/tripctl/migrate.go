package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"trip-planner/internal/config"
	"trip-planner/internal/database"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sqlDB, err := openPostgres(loadConfig())
				if err != nil {
					return err
				}
				defer sqlDB.Close()

				return database.MigrateUp(sqlDB)
			},
		},
		newMigrateDownCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied migration version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sqlDB, err := openPostgres(loadConfig())
				if err != nil {
					return err
				}
				defer sqlDB.Close()

				version, dirty, err := database.MigrationVersion(sqlDB)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			},
		},
	)

	return migrateCmd
}

func newMigrateDownCommand() *cobra.Command {
	var steps int

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}

			sqlDB, err := openPostgres(loadConfig())
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := database.MigrateDown(sqlDB, steps); err != nil {
				return err
			}
			slog.Info("rolled back migrations", "steps", steps)
			return nil
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	return downCmd
}

func openPostgres(cfg *config.Config) (*sql.DB, error) {
	if cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("migrations target postgres; sqlite schemas are created on server start")
	}

	sqlDB, err := sql.Open("postgres", cfg.GetMigrationURL())
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("could not reach database: %w", err)
	}
	return sqlDB, nil
}
