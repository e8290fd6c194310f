package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a DRL rule using AI",
		Long: `Generate a Drools rule from the repository context and your requirements.

The repository is scanned first so the model sees the Java model classes
and existing rules. Requirements come from --requirements or, when the
flag is absent, from stdin (finish with Ctrl+D).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.ensureAssistant(); err != nil {
				fmt.Fprintf(app.out, "Error: %v\n", err)
				return nil
			}
			requirements, _ := cmd.Flags().GetString("requirements")
			output, _ := cmd.Flags().GetString("output")
			app.ensureScanned()
			app.generateRule(cmd.Context(), requirements, output)
			return nil
		},
	}
	cmd.Flags().StringP("requirements", "r", "", "Rule requirements")
	cmd.Flags().StringP("output", "o", "", "Output file")
	return cmd
}
