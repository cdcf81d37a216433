package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/triprules/internal/config"
	"github.com/aretw0/triprules/pkg/adapters/mcp"
)

// RunMCP exposes the saved wizard session as MCP tools over stdio.
func RunMCP(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	res, err := Open(cfg, logger)
	if err != nil {
		return err
	}
	defer res.Close()

	planner, err := NewPlanner(ctx, res, debugHooks(logger), logger)
	if err != nil {
		return err
	}

	logger.Info("Starting triprules MCP Server (Stdio)...", "step", planner.Step().String())
	return mcp.NewServer(planner, mcp.WithLogger(logger)).ServeStdio()
}
