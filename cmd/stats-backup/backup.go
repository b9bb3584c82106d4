package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/raoulx24/stats-backup/internal/backup"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Run one rotation cycle",
		Long: `Snapshot the source database now. The snapshot is a hard link when the
source is unchanged since the latest snapshot and a full copy otherwise.
Old snapshots beyond backup.maxBackups are deleted afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := a.manager.Backup(cmd.Context())

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return writeJSON(cmd, rep)
			}

			out := cmd.OutOrStdout()
			if rep.Action == backup.ActionFailed {
				fmt.Fprintln(out, "Backup failed, see the log for details")
				return nil
			}
			fmt.Fprintf(out, "Snapshot %s: %s\n", rep.Action, rep.Path)
			if rep.Pruned > 0 {
				fmt.Fprintf(out, "Deleted %d old snapshot(s)\n", rep.Pruned)
			}
			if rep.PruneFailed > 0 {
				fmt.Fprintf(out, "Could not delete %d old snapshot(s)\n", rep.PruneFailed)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print the report as JSON")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
