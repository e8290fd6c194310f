package main

import "github.com/spf13/cobra"

func newConfigCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config [show|set-api-key|set-repository|set-editor] [value]",
		Short: "Show or change configuration",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, value := "", ""
			if len(args) > 0 {
				action = args[0]
			}
			if len(args) > 1 {
				value = args[1]
			}
			app.configure(action, value)
			return nil
		},
	}
}
