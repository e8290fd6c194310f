package main

import (
	"fmt"
	"os"

	"github.com/rulesmith/rulesmith/internal/config"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

func main() {
	config.LoadEnv()

	app := newApp()

	rootCmd := &cobra.Command{
		Use:   "rulesmith",
		Short: "Rulesmith - Drools rule management from the command line",
		Long: `Rulesmith scans a repository for Java model classes, DRL rules and GDST
decision tables, and uses that context to generate and analyze Drools
rules with a hosted LLM.

Run without a subcommand to start the interactive shell.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runShell()
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.repoFlag, "repo", "", "Repository path (overrides the configured default)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newScanCmd(app),
		newListCmd(app),
		newViewCmd(app),
		newEditCmd(app),
		newGenerateCmd(app),
		newAnalyzeCmd(app),
		newContextCmd(app),
		newConfigCmd(app),
		newMCPServerCmd(app),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rulesmith version %s\n", version)
		},
	}
}
