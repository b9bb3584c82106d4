package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/stats-backup/internal/snapshot"
	"github.com/raoulx24/stats-backup/internal/stats"
)

type statsView struct {
	Folder string     `json:"folder"`
	Count  int        `json:"count"`
	Latest *entryView `json:"latest,omitempty"`
	Oldest *entryView `json:"oldest,omitempty"`
}

type entryView struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

func toEntryView(e *snapshot.Entry) *entryView {
	if e == nil {
		return nil
	}
	return &entryView{Name: e.Name, Timestamp: e.Timestamp}
}

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the snapshot folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.manager.Stats()
			if err != nil {
				a.log.Error("cannot get backup stats", "dir", a.manager.Dir(), "error", err)
				return errors.New("cannot get backup stats")
			}

			view := buildStatsView(a.manager.Dir(), s)

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Folder:  %s\n", view.Folder)
			fmt.Fprintf(out, "Count:   %d\n", view.Count)
			if view.Latest != nil {
				fmt.Fprintf(out, "Latest:  %s (%s)\n", view.Latest.Name, view.Latest.Timestamp.Local().Format(time.DateTime))
				fmt.Fprintf(out, "Oldest:  %s (%s)\n", view.Oldest.Name, view.Oldest.Timestamp.Local().Format(time.DateTime))
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print the summary as JSON")
	return cmd
}

func buildStatsView(dir string, s stats.Stats) statsView {
	return statsView{
		Folder: dir,
		Count:  s.Count,
		Latest: toEntryView(s.Latest),
		Oldest: toEntryView(s.Oldest),
	}
}
