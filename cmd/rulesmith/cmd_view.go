package main

import "github.com/spf13/cobra"

func newViewCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view <file>",
		Short: "View file content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.viewFile(args[0])
			return nil
		},
	}
}
