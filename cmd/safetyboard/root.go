package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"safetyboard/internal/config"
	"safetyboard/internal/incidents"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "safetyboard",
	Short: "AI safety incident dashboard backend",
	Long: `safetyboard keeps an in-memory list of reported AI safety incidents,
seeded from a sample dataset, and serves it to the dashboard UI.

Commands:
  serve   Run the HTTP API
  list    Print the incident list for a severity and sort order`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: $SAFETYBOARD_CONFIG)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newStore builds a store from the configured seed file, or the built-in
// dataset when none is set.
func newStore(cfg *config.Config, logger *slog.Logger) (*incidents.Store, error) {
	if cfg.Seed.Path == "" {
		return incidents.NewStore(), nil
	}
	seed, err := incidents.LoadSeedFile(cfg.Seed.Path)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}
	logger.Info("seed dataset loaded", "path", cfg.Seed.Path, "incidents", len(seed))
	return incidents.NewStore(incidents.WithSeed(seed)), nil
}
