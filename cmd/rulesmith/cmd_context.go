package main

import "github.com/spf13/cobra"

func newContextCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show repository context",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			app.ensureScanned()
			app.showContext(limit)
			return nil
		},
	}
	cmd.Flags().IntP("limit", "l", 1000, "Character limit")
	return cmd
}
