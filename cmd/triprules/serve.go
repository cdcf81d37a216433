package main

import (
	"fmt"
	"os"

	"github.com/aretw0/triprules/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the itinerary HTTP backend",
	Long: `Serves POST /api/itinerary for browser frontends, with CORS restricted to
server.allowed_origins (plus FRONTEND_URL) and Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Address = addr
		}
		if noMetrics, _ := cmd.Flags().GetBool("no-metrics"); noMetrics {
			cfg.Server.Metrics = false
		}

		if err := cli.RunServer(cmd.Context(), cfg, loggerFor(cfg, false)); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default from config, :5000)")
	serveCmd.Flags().Bool("no-metrics", false, "Disable the /metrics endpoint")
}
