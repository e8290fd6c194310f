package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:       "list [all|java|drl|gdst]",
		Short:     "List files found in the repository",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"all", "java", "drl", "gdst"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "all"
			if len(args) > 0 {
				kind = args[0]
			}
			app.ensureScanned()
			if app.scan == nil {
				return nil
			}
			fmt.Fprint(app.out, app.scan.FormatListing(kind))
			return nil
		},
	}
}
