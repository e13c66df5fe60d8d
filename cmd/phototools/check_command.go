package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"phototools/internal/deps"
	"phototools/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var source, dest string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report external tool availability and directory access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			color := shouldColorize(out)

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			fmt.Fprintln(out, renderToolTable(statuses, color))

			var failures []string
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				failures = append(failures, "missing tools: "+strings.Join(missing, ", "))
			}

			results, err := directoryChecks(source, dest)
			if err != nil {
				return err
			}
			if len(results) > 0 {
				fmt.Fprintln(out, renderPreflightTable(results, color))
			}
			for _, r := range results {
				if !r.Passed {
					failures = append(failures, strings.ToLower(r.Name)+" not usable")
				}
			}

			if len(failures) > 0 {
				return errors.New("check failed: " + strings.Join(failures, "; "))
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source-dir", "s", "", "Source directory to check for read access")
	cmd.Flags().StringVarP(&dest, "dest-dir", "d", "", "Destination directory to check for write access")
	return cmd
}

func directoryChecks(source, dest string) ([]preflight.Result, error) {
	var err error
	if source != "" {
		if source, err = filepath.Abs(source); err != nil {
			return nil, fmt.Errorf("resolve source directory: %w", err)
		}
	}
	if dest != "" {
		if dest, err = filepath.Abs(dest); err != nil {
			return nil, fmt.Errorf("resolve destination directory: %w", err)
		}
	}
	return preflight.RunAll(source, dest), nil
}

func renderToolTable(statuses []deps.Status, color bool) string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		detail := s.Path
		if !s.Available {
			detail = s.Detail
		}
		rows = append(rows, []string{s.Name, statusLabel(s.Available, s.Optional, color), yesNo(!s.Optional), detail})
	}
	return renderTable([]string{"Tool", "Status", "Required", "Detail"}, rows, nil)
}

func renderPreflightTable(results []preflight.Result, color bool) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, statusLabel(r.Passed, false, color), r.Detail})
	}
	return renderTable([]string{"Check", "Status", "Detail"}, rows, nil)
}

func statusLabel(ok, optional bool, color bool) string {
	switch {
	case ok:
		return colorize("ok", text.FgGreen, color)
	case optional:
		return colorize("missing", text.FgYellow, color)
	default:
		return colorize("FAILED", text.FgRed, color)
	}
}
