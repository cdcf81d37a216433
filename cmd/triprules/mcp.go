package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/aretw0/triprules/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the saved planner session as MCP tools over stdio, so AI agents
can select an audience, submit rules and generate itineraries.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}

		// Stdout carries JSON-RPC; logs go to stderr.
		log.SetOutput(os.Stderr)
		logger := loggerFor(cfg, false)
		slog.SetDefault(logger)

		if err := cli.RunMCP(cmd.Context(), cfg, logger); err != nil {
			logger.Error("MCP Server execution failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
