package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newLocationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List the folders and files the application uses",
		RunE: func(cmd *cobra.Command, args []string) error {
			locs := a.manager.Locations()

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return writeJSON(cmd, locs)
			}

			ok := color.New(color.FgGreen).SprintFunc()
			missing := color.New(color.FgRed).SprintFunc()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, l := range locs {
				mark := missing("missing")
				if l.Exists {
					mark = ok("ok")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", l.Label, l.Path, mark)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Bool("json", false, "print the locations as JSON")
	return cmd
}
