package main

import (
	"fmt"

	"github.com/aretw0/triprules/internal/presentation/graph"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/aretw0/triprules/pkg/wizard"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the wizard step graph",
	Long:  `Outputs a Mermaid diagram (graph TD) of the wizard steps. With --overlay the saved progress is highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		overlay, _ := cmd.Flags().GetBool("overlay")
		if !overlay {
			fmt.Print(graph.GenerateMermaid(wizard.Steps, wizard.Edges, nil))
			return
		}

		withStore(cmd, func(store ports.KVStore) error {
			snap, err := wizard.DeriveStep(cmd.Context(), store)
			if err != nil {
				return err
			}
			fmt.Print(graph.GenerateMermaid(wizard.Steps, wizard.Edges, graph.OverlayFor(snap)))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("overlay", false, "Highlight the step saved progress resumes at")
}
