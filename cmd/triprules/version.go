package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/triprules"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of triprules",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("triprules version %s\n", strings.TrimSpace(triprules.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
