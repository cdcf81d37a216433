package main

import (
	"fmt"
	"os"

	"github.com/aretw0/triprules/internal/cli"
	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or clear saved progress",
	Long:  `List, show, and remove the values the planner keeps in its store.`,
}

var stateLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved keys",
	Run: func(cmd *cobra.Command, args []string) {
		withStore(cmd, func(store ports.KVStore) error {
			return cli.ListState(cmd.Context(), store, os.Stdout)
		})
	},
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the step the planner will resume at",
	Run: func(cmd *cobra.Command, args []string) {
		withStore(cmd, func(store ports.KVStore) error {
			return cli.ShowState(cmd.Context(), store, os.Stdout)
		})
	},
}

var stateRmCmd = &cobra.Command{
	Use:   "rm [key]...",
	Short: "Remove saved keys (all planner keys when none are given)",
	Run: func(cmd *cobra.Command, args []string) {
		withStore(cmd, func(store ports.KVStore) error {
			return cli.RemoveState(cmd.Context(), store, os.Stdout, args...)
		})
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateLsCmd)
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateRmCmd)
}

func withStore(cmd *cobra.Command, fn func(ports.KVStore) error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	store, closer, err := cli.OpenStore(cfg.Store, logging.NewNop())
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer()
	}
	if err := fn(store); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
