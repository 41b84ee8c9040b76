package main

import (
	"log/slog"
	"os"

	"trip-planner/internal/config"
	"trip-planner/internal/monitoring"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tripctl",
	Short: "Operational tooling for the trip planner backend.",
	Long:  `tripctl applies schema migrations, issues development bearer tokens and repairs invitation state.`,
}

func init() {
	rootCmd.AddCommand(
		newMigrateCommand(),
		newTokenCommand(),
		newReconcileCommand(),
	)
}

// loadConfig loads configuration and installs the logger; commands exit on failure
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("could not load configuration", "err", err)
		os.Exit(1)
	}
	monitoring.InitLogger(cfg.Monitoring.LogLevel)
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
