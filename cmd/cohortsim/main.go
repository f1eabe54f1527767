package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/nvandessel/cohortsim/internal/config"
	"github.com/nvandessel/cohortsim/internal/logging"
	"github.com/nvandessel/cohortsim/internal/store"
)

// Set by the release build.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cohortsim",
		Short: "Cohort skill diffusion simulator",
		Long: `cohortsim simulates how skill spreads through a class of students
who tutor their seat neighbours, study alone, and forget over time.

It averages many randomized trials and reports the mean skill after each
lesson together with the skill distribution before and after the course.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.cohortsim/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, or trace")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newConfigCmd(),
		newHistoryCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}

// loadConfig resolves configuration for a command: the config file (or the
// default location), environment overrides, then --log-level.
func loadConfig(cmd *cobra.Command) (*config.CohortConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}

	return cfg, nil
}

// newLogger builds the operational logger. Logs go to stderr so reports on
// stdout stay machine-readable.
func newLogger(cmd *cobra.Command, cfg *config.CohortConfig) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}

// dataDir resolves the .cohortsim directory for the configured scope.
func dataDir(cmd *cobra.Command, cfg *config.CohortConfig) (string, error) {
	root, _ := cmd.Flags().GetString("root")
	return store.DataPath(cfg.History.Scope, root)
}

// signalContext returns a context cancelled on interrupt or termination.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
