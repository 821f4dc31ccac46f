package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/manuscript-match/internal/archive"
	"github.com/suykerbuyk/manuscript-match/internal/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded analysis runs",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			writeRuns(cmd.OutOrStdout(), runs, time.Now())
			return nil
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list (0 for all)")

	var raw bool
	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run's best matches (a unique ID prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw {
				if run.ArchivePath == "" {
					return fmt.Errorf("run %s has no archived report", run.ID)
				}
				if !archive.IsArchived(run.ID, filepath.Dir(run.ArchivePath)) {
					return fmt.Errorf("archived report for run %s is missing (%s)", run.ID, run.ArchivePath)
				}
				data, err := archive.Read(run.ArchivePath)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}
			writeRun(out, run, time.Now())
			return nil
		},
	}
	show.Flags().BoolVar(&raw, "json", false, "print the archived JSON report instead")

	cmd.AddCommand(list, show)
	return cmd
}

func (a *app) openHistory() (*history.Store, error) {
	path := a.cfg.HistoryPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no history at %s (run mm analyze first)", path)
	}
	return history.Open(path)
}

func writeRuns(w io.Writer, runs []history.Run, now time.Time) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}
	fmt.Fprintf(w, "%-8s  %-16s  %9s  %10s  %7s\n", "ID", "STARTED", "FRAGMENTS", "MAIN TEXTS", "MATCHED")
	for _, r := range runs {
		fmt.Fprintf(w, "%-8s  %-16s  %9d  %10d  %7d\n",
			shortID(r.ID), humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			r.FragmentCount, r.MainTextCount, r.MatchedCount)
	}
}

func writeRun(w io.Writer, r *history.Run, now time.Time) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("run %s\n", r.ID))
	b.WriteString(fmt.Sprintf("  started:    %s (%s)\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"),
		humanize.RelTime(r.StartedAt, now, "ago", "from now")))
	b.WriteString(fmt.Sprintf("  manuscript: %s\n", r.ManuscriptDir))
	b.WriteString(fmt.Sprintf("  documents:  %d fragments, %d main texts, %d matched\n",
		r.FragmentCount, r.MainTextCount, r.MatchedCount))
	if r.ArchivePath != "" {
		b.WriteString(fmt.Sprintf("  archive:    %s\n", r.ArchivePath))
	}

	fragment := ""
	for _, m := range r.Matches {
		if m.Fragment != fragment {
			fragment = m.Fragment
			b.WriteString(fmt.Sprintf("\n%s\n", fragment))
		}
		b.WriteString(fmt.Sprintf("  %d. %s  %.3f (keyword %.3f, dialogue %.3f, location %.3f, theme %.3f, emotion %.3f)\n",
			m.Rank, m.Target, m.Total, m.Keyword, m.Dialogue, m.Location, m.Theme, m.Emotion))
	}
	io.WriteString(w, b.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
