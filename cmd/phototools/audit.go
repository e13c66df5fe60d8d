package main

import (
	"context"
	"fmt"
	"log/slog"

	"phototools/internal/journal"
	"phototools/internal/logging"
	"phototools/internal/organizer"
	"phototools/internal/services"
)

// runJournal records one copy run. Write failures are logged and never stop
// the run. A nil *runJournal ignores every call.
type runJournal struct {
	j      *journal.Journal
	runID  string
	logger *slog.Logger
}

func openRunJournal(ctx context.Context, path string, run journal.Run, logger *slog.Logger) (*runJournal, error) {
	j, err := journal.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := j.StartRun(ctx, run); err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("start journal run: %w", err)
	}
	logger.Debug("journal opened", logging.String("journal_path", j.Path()))
	return &runJournal{j: j, runID: run.ID, logger: logger}, nil
}

func (r *runJournal) record(ctx context.Context, res organizer.Result, err error) {
	if r == nil {
		return
	}
	if recErr := r.j.Record(ctx, r.runID, entryFromResult(res, err)); recErr != nil {
		r.logger.Warn("journal record failed",
			logging.String(logging.FieldSource, res.Source),
			logging.Error(recErr),
		)
	}
}

func (r *runJournal) finish(ctx context.Context, summary organizer.Summary) {
	if r == nil {
		return
	}
	if err := r.j.FinishRun(ctx, r.runID, summary.Files, summary.Failed); err != nil {
		r.logger.Warn("journal finish failed", logging.Error(err))
	}
}

func (r *runJournal) close() {
	if r == nil {
		return
	}
	if err := r.j.Close(); err != nil {
		r.logger.Warn("journal close failed", logging.Error(err))
	}
}

func entryFromResult(res organizer.Result, err error) journal.Entry {
	entry := journal.Entry{
		Source:        res.Source,
		Target:        res.Target,
		Action:        string(res.Action),
		Backfilled:    res.Backfilled,
		ReplacedStale: res.ReplacedStale,
	}
	if !res.Timestamp.Time.IsZero() {
		entry.CapturedAt = res.Timestamp.Time
		entry.Provenance = res.Timestamp.Provenance.String()
		entry.TimestampSource = res.Timestamp.Source
	}
	if err != nil {
		entry.ErrorCategory = services.Category(err)
		entry.Error = err.Error()
	}
	return entry
}
