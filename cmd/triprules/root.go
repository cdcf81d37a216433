package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/triprules/internal/cli"
	"github.com/aretw0/triprules/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "triprules",
	Short: "Turn a trip's non-negotiable rules into a day-wise itinerary",
	Long: `triprules walks you through choosing an audience, entering your trip rules,
confirming them and generating an itinerary you can copy or download.
Progress is saved after every step, so you can stop and resume at any time.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default ./triprules.yaml or $XDG_CONFIG_HOME/triprules/triprules.yaml)")
	flags.String("store", "", "Store backend: memory, file, redis, sqlite")
	flags.String("store-path", "", "Store directory (file) or database file (sqlite)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig merges defaults, config file, environment and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	v, err := config.New(cfgFile)
	if err != nil {
		return nil, err
	}

	bindings := map[string]string{
		"store.type": "store",
		"store.path": "store-path",
		"log.level":  "log-level",
	}
	for key, name := range bindings {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	return config.Load(v)
}

func loggerFor(cfg *config.Config, quiet bool) *slog.Logger {
	return cli.NewLogger(cfg.Log.SlogLevel(), quiet)
}
