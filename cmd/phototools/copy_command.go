package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"phototools/internal/config"
	"phototools/internal/destlock"
	"phototools/internal/journal"
	"phototools/internal/logging"
	"phototools/internal/media/exiftags"
	"phototools/internal/organizer"
	"phototools/internal/preflight"
	"phototools/internal/services"
	"phototools/internal/timestamp"
)

type copyFlags struct {
	source    string
	dest      string
	minSize   int64
	shellCopy bool
	dryRun    bool
	compare   string
	progress  bool
}

func newCopyCommand(ctx *commandContext) *cobra.Command {
	var flags copyFlags

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy photos and videos into <dest>/<YYYY>/<YYYY-MM-DD>/ by capture date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if err := applyCopyFlags(cmd, &cfg, flags); err != nil {
				return err
			}
			return runCopy(cmd, ctx, &cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.source, "source-dir", "s", "", "Directory to scan for photos and videos")
	cmd.Flags().StringVarP(&flags.dest, "dest-dir", "d", "", "Root of the date-organized destination tree")
	cmd.Flags().Int64VarP(&flags.minSize, "min-size", "b", config.Default().Copy.MinSize, "Skip files smaller than this many bytes")
	cmd.Flags().BoolVarP(&flags.shellCopy, "cp-copy", "c", false, "Copy with the external cp command")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Report planned copies without touching the destination")
	cmd.Flags().StringVar(&flags.compare, "compare", "", "Duplicate detection: size or hash")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "Show a progress spinner on a terminal")
	_ = cmd.MarkFlagRequired("source-dir")
	_ = cmd.MarkFlagRequired("dest-dir")

	return cmd
}

// applyCopyFlags lets explicitly set flags override the loaded configuration.
func applyCopyFlags(cmd *cobra.Command, cfg *config.Config, flags copyFlags) error {
	if cmd.Flags().Changed("min-size") {
		cfg.Copy.MinSize = flags.minSize
	}
	if cmd.Flags().Changed("cp-copy") {
		cfg.Copy.ShellCopy = flags.shellCopy
	}
	if cmd.Flags().Changed("compare") {
		cfg.Copy.Compare = strings.ToLower(strings.TrimSpace(flags.compare))
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func runCopy(cmd *cobra.Command, cmdCtx *commandContext, cfg *config.Config, flags copyFlags) error {
	source, err := filepath.Abs(flags.source)
	if err != nil {
		return fmt.Errorf("resolve source directory: %w", err)
	}
	dest, err := filepath.Abs(flags.dest)
	if err != nil {
		return fmt.Errorf("resolve destination directory: %w", err)
	}
	if failure, failed := preflight.FirstFailure(preflight.RunAll(source, dest)); failed {
		return fmt.Errorf("%s: %s", strings.ToLower(failure.Name), failure.Detail)
	}

	baseLogger, err := cmdCtx.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	ctx := services.WithRunID(cmd.Context(), runID)
	logger := logging.WithContext(ctx, baseLogger)

	if !flags.dryRun {
		lock, err := destlock.Acquire(dest)
		if err != nil {
			if errors.Is(err, destlock.ErrLocked) {
				return fmt.Errorf("destination %s is in use by another phototools run", dest)
			}
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release destination lock failed", logging.Error(err))
			}
		}()
	}

	var audit *runJournal
	if cfg.Journal.Enabled {
		audit, err = openRunJournal(ctx, cfg.Journal.Path, journal.Run{
			ID:         runID,
			SourceRoot: source,
			DestRoot:   dest,
			DryRun:     flags.dryRun,
			StartedAt:  time.Now(),
		}, logger)
		if err != nil {
			return err
		}
		defer audit.close()
	}

	org, err := buildOrganizer(cfg, flags.dryRun, baseLogger)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if flags.progress && isTerminal(cmd.ErrOrStderr()) {
		bar = newProgressBar(cmd.ErrOrStderr())
	}

	logger.Info("organize started",
		logging.String("source_root", source),
		logging.String("dest_root", dest),
		logging.Bool("dry_run", flags.dryRun),
	)
	summary, walkErr := org.OrganizeTree(ctx, source, dest, func(ctx context.Context, res organizer.Result, err error) {
		if bar != nil {
			_ = bar.Add(1)
		}
		audit.record(ctx, res, err)
	})
	if bar != nil {
		_ = bar.Finish()
	}
	audit.finish(context.WithoutCancel(ctx), summary)

	logger.Info("organize finished",
		logging.Int("files", summary.Files),
		logging.Int("failed", summary.Failed),
	)
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary, shouldColorize(cmd.OutOrStdout())))

	if walkErr != nil {
		return fmt.Errorf("organize %s: %w", source, walkErr)
	}
	return nil
}

func buildOrganizer(cfg *config.Config, dryRun bool, logger *slog.Logger) (*organizer.Organizer, error) {
	resolver := timestamp.New(
		timestamp.WithContainerReader(containerReader(cfg, logger)),
		timestamp.WithLogger(logger),
	)

	binary := cfg.Tools.Jhead
	if cfg.Tools.ExifWriter == config.WriterExiftool {
		binary = cfg.Tools.Exiftool
	}
	writer, err := exiftags.NewWriter(cfg.Tools.ExifWriter, binary, nil)
	if err != nil {
		return nil, err
	}

	opts := organizer.OptionsFromConfig(cfg)
	opts.DryRun = dryRun
	return organizer.New(resolver, writer, nil, opts, logger), nil
}

func newProgressBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Organizing"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}
