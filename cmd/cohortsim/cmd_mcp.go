package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/cohortsim/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Serve cohortsim tools to MCP clients over stdin/stdout.

Tools:
  cohort_simulate  Run a simulation (parameters default to the config)
  cohort_history   List saved runs
  cohort_run       Fetch a saved run

Logs go to stderr; stdout is reserved for the protocol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			root, _ := cmd.Flags().GetString("root")

			server, err := mcp.NewServer(&mcp.Config{
				Name:     "cohortsim",
				Version:  version,
				Root:     root,
				Scope:    cfg.History.Scope,
				Defaults: &cfg.Simulation,
				Workers:  cfg.Runner.Workers,
				Logger:   newLogger(cmd, cfg),
			})
			if err != nil {
				return fmt.Errorf("failed to start MCP server: %w", err)
			}

			// Run closes the server on return.
			return server.Run(cmd.Context())
		},
	}
}
