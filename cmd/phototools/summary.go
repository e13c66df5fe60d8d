package main

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"phototools/internal/organizer"
)

var titleCaser = cases.Title(language.Und)

// actionLabel turns "skipped_small" into "Skipped Small".
func actionLabel(action organizer.Action) string {
	return titleCaser.String(strings.ReplaceAll(string(action), "_", " "))
}

func renderSummary(summary organizer.Summary, color bool) string {
	rows := make([][]string, 0, len(organizer.Actions)+4)
	for _, action := range organizer.Actions {
		count := summary.Counts[action]
		if count == 0 {
			continue
		}
		rows = append(rows, []string{actionLabel(action), strconv.Itoa(count)})
	}
	if summary.Backfilled > 0 {
		rows = append(rows, []string{"Backfilled", strconv.Itoa(summary.Backfilled)})
	}
	if summary.ReplacedStale > 0 {
		rows = append(rows, []string{"Replaced Stale", strconv.Itoa(summary.ReplacedStale)})
	}
	failed := strconv.Itoa(summary.Failed)
	if summary.Failed > 0 {
		failed = colorize(failed, text.FgRed, color)
	}
	rows = append(rows,
		[]string{"Failed", failed},
		[]string{"Files", strconv.Itoa(summary.Files)},
	)
	return renderTable([]string{"Result", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}
