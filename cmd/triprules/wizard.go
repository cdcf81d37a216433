package main

import (
	"fmt"
	"os"

	"github.com/aretw0/triprules/internal/cli"
	"github.com/aretw0/triprules/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run the interactive trip planner",
	Long:  `Resumes the saved session (or starts a new one) and walks through every step in the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		plain, _ := cmd.Flags().GetBool("plain")
		fresh, _ := cmd.Flags().GetBool("fresh")
		debug, _ := cmd.Flags().GetBool("debug")
		if !tui.IsTerminal(os.Stdout) {
			plain = true
		}

		// Logs would interleave with the prompts, so only debug mode prints them.
		logger := loggerFor(cfg, !debug)
		if err := cli.RunWizard(cmd.Context(), cli.WizardOptions{
			Config: cfg,
			Logger: logger,
			Plain:  plain,
			Fresh:  fresh,
		}); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(wizardCmd)

	wizardCmd.Flags().Bool("plain", false, "Disable the banner and markdown rendering")
	wizardCmd.Flags().Bool("fresh", false, "Discard saved progress and start over")
	wizardCmd.Flags().Bool("debug", false, "Log step transitions to stderr")

	// Running triprules without a subcommand starts the wizard.
	rootCmd.Run = wizardCmd.Run
	rootCmd.Flags().AddFlagSet(wizardCmd.Flags())
}
