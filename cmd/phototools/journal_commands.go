package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"phototools/internal/journal"
)

func newJournalCommand(ctx *commandContext) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the audit journal of past copy runs",
	}

	journalCmd.AddCommand(newJournalRunsCommand(ctx))
	journalCmd.AddCommand(newJournalShowCommand(ctx))

	return journalCmd
}

func newJournalRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent copy runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), ctx, func(j *journal.Journal) error {
				runs, err := j.RecentRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, r := range runs {
					rows = append(rows, []string{
						r.ID,
						formatStamp(r.StartedAt),
						formatStamp(r.FinishedAt),
						r.SourceRoot,
						r.DestRoot,
						yesNo(r.DryRun),
						strconv.Itoa(r.Files),
						strconv.Itoa(r.Failed),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Started", "Finished", "Source", "Destination", "Dry Run", "Files", "Failed"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}

func newJournalShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the per-file outcomes of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), ctx, func(j *journal.Journal) error {
				entries, err := j.Entries(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintf(out, "No entries recorded for run %s\n", args[0])
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					outcome := e.Action
					if e.Error != "" {
						outcome = "error: " + e.ErrorCategory
					}
					rows = append(rows, []string{
						e.Source,
						outcome,
						e.Target,
						formatStamp(e.CapturedAt),
						e.TimestampSource,
						yesNo(e.Backfilled),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Source", "Outcome", "Target", "Captured", "From", "Backfilled"},
					rows,
					nil,
				))
				return nil
			})
		},
	}
}

func withJournal(ctx context.Context, cmdCtx *commandContext, fn func(*journal.Journal) error) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.Journal.Path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no journal at %s; set journal.enabled = true to record runs", cfg.Journal.Path)
	}
	j, err := journal.Open(ctx, cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()
	return fn(j)
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
