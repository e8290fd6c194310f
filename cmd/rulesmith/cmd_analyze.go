package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a DRL rule using AI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.ensureAssistant(); err != nil {
				fmt.Fprintf(app.out, "Error: %v\n", err)
				return nil
			}
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			app.ensureScanned()
			app.analyzeRule(cmd.Context(), path)
			return nil
		},
	}
}
