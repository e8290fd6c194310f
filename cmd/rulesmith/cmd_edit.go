package main

import "github.com/spf13/cobra"

func newEditCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a file, creating a templated rule file when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			app.editFile(path)
			return nil
		},
	}
}
