package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"phototools/internal/command"
	"phototools/internal/config"
	"phototools/internal/fileutil"
	"phototools/internal/logging"
	"phototools/internal/media"
	"phototools/internal/media/exiftags"
	"phototools/internal/services"
	"phototools/internal/timestamp"
)

// Resolver produces the capture timestamp of a source file.
type Resolver interface {
	Resolve(ctx context.Context, src media.SourceFile) (timestamp.Resolved, error)
}

// Options configures copy behaviour.
type Options struct {
	// MinSize skips files strictly smaller than this many bytes.
	MinSize int64
	// ShellCopy copies with the external cp command instead of in-process.
	ShellCopy bool
	// CopyBinary names the external copy command; defaults to "cp".
	CopyBinary string
	// Compare is config.CompareSize or config.CompareHash.
	Compare string
	// DryRun resolves and plans without touching the destination.
	DryRun bool
}

// OptionsFromConfig maps the [copy] and [tools] sections onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MinSize:    cfg.Copy.MinSize,
		ShellCopy:  cfg.Copy.ShellCopy,
		CopyBinary: cfg.Tools.Cp,
		Compare:    cfg.Copy.Compare,
	}
}

// Organizer copies source files into the date-based destination tree.
type Organizer struct {
	resolver Resolver
	writer   exiftags.Writer
	runner   command.Runner
	opts     Options
	base     *slog.Logger
	logger   *slog.Logger

	// planned holds dry-run targets already handed out, keyed by path.
	plannedMu sync.Mutex
	planned   map[string]media.SourceFile
}

// New constructs an Organizer. A nil writer disables EXIF backfill and a nil
// runner falls back to command.Exec.
func New(resolver Resolver, writer exiftags.Writer, runner command.Runner, opts Options, logger *slog.Logger) *Organizer {
	if runner == nil {
		runner = command.Exec{}
	}
	if strings.TrimSpace(opts.CopyBinary) == "" {
		opts.CopyBinary = "cp"
	}
	if opts.Compare == "" {
		opts.Compare = config.CompareSize
	}
	return &Organizer{
		resolver: resolver,
		writer:   writer,
		runner:   runner,
		opts:     opts,
		base:     logger,
		logger:   logging.NewComponentLogger(logger, "organizer"),
		planned:  make(map[string]media.SourceFile),
	}
}

// TargetDir returns <destRoot>/<YYYY>/<YYYY-MM-DD> for the resolved time.
func TargetDir(destRoot string, resolved timestamp.Resolved) string {
	t := resolved.Time.UTC()
	return filepath.Join(destRoot, t.Format("2006"), t.Format("2006-01-02"))
}

// Organize copies one file into destRoot. Skips are reported through the
// Result's Action with a nil error. Errors concern this file only.
func (o *Organizer) Organize(ctx context.Context, src media.SourceFile, destRoot string) (Result, error) {
	ctx = services.WithSourcePath(ctx, src.Path)
	logger := logging.WithContext(ctx, o.logger)
	res := Result{Source: src.Path}

	if src.Size < o.opts.MinSize {
		logger.Info("skipping file below minimum size",
			logging.Int64("size_bytes", src.Size),
			logging.Int64("min_size_bytes", o.opts.MinSize),
		)
		res.Action = ActionSkippedSmall
		return res, nil
	}

	if src.Ext() == "" {
		return res, services.Wrap(services.ErrInvalidData, "organizer", "classify", "file has no extension", nil)
	}
	if src.Kind == media.Unsupported {
		logger.Info("skipping unsupported file type", logging.String("extension", src.Ext()))
		res.Action = ActionSkippedUnsupported
		return res, nil
	}

	resolved, err := o.resolver.Resolve(ctx, src)
	if err != nil {
		return res, fmt.Errorf("resolve timestamp: %w", err)
	}
	res.Timestamp = resolved

	dir := TargetDir(destRoot, resolved)
	if !o.opts.DryRun {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("create target directory: %w", err)
		}
	}

	// Backfilled photos are staged and finished before the collision check so
	// that the size compared against existing copies is the final one.
	candidate := src
	var staged string
	var backfillErr error
	if !o.opts.DryRun && o.backfills(src, resolved) {
		staged = stagingPath(dir, src.Name())
		if err := o.transfer(ctx, src, staged); err != nil {
			return res, err
		}
		defer func() { _ = os.Remove(staged) }()
		if err := o.writer.WriteDate(ctx, staged, resolved.Time, !resolved.HasDateTag); err != nil {
			backfillErr = fmt.Errorf("%w: %w", ErrBackfill, err)
		} else {
			res.Backfilled = true
		}
		info, err := os.Stat(staged)
		if err != nil {
			return res, fmt.Errorf("stat staged copy: %w", err)
		}
		candidate = media.SourceFile{Path: staged, Size: info.Size(), Kind: src.Kind}
	}

	claim, err := o.claimTarget(ctx, logger, candidate, filepath.Join(dir, src.Name()))
	if err != nil {
		return res, err
	}
	res.Target = claim.path
	res.ReplacedStale = claim.replacedStale

	switch {
	case claim.duplicate:
		logger.Info("identical file already exists", logging.String(logging.FieldTarget, claim.path))
		res.Action = ActionDuplicate
		res.Backfilled = false
		return res, nil
	case o.opts.DryRun:
		logger.Info("would copy file",
			logging.String(logging.FieldTarget, claim.path),
			logging.String(logging.FieldProvenance, resolved.Provenance.String()),
		)
		res.Action = ActionPlanned
		return res, nil
	}

	if staged != "" {
		if err := os.Rename(staged, claim.path); err != nil {
			return res, fmt.Errorf("move staged copy: %w", err)
		}
	} else if err := o.transfer(ctx, src, claim.path); err != nil {
		return res, err
	}
	res.Action = ActionCopied

	if backfillErr != nil {
		logging.WarnWithContext(logger, "exif backfill failed; copy kept with file times only", "exif_backfill_failed",
			logging.String(logging.FieldTarget, claim.path),
			logging.Error(backfillErr),
			logging.String(logging.FieldErrorHint, "check that the exif writer is installed (phototools check)"),
		)
	}

	if err := os.Chtimes(claim.path, resolved.Time, resolved.Time); err != nil {
		return res, fmt.Errorf("set file times: %w", err)
	}

	logger.Info("copied file",
		logging.String(logging.FieldTarget, claim.path),
		logging.String(logging.FieldProvenance, resolved.Provenance.String()),
		logging.String("timestamp_source", resolved.Source),
		logging.Bool("backfilled", res.Backfilled),
	)
	return res, backfillErr
}

func (o *Organizer) backfills(src media.SourceFile, resolved timestamp.Resolved) bool {
	return resolved.Inferred() && src.Kind == media.Photo && o.writer != nil
}

// stagingPath names a hidden scratch file beside the final target. The
// extension is kept for EXIF tools that dispatch on it.
func stagingPath(dir, name string) string {
	return filepath.Join(dir, stagingPrefix+uuid.NewString()[:8]+"-"+name)
}

func (o *Organizer) transfer(ctx context.Context, src media.SourceFile, target string) error {
	if o.opts.ShellCopy {
		if _, err := o.runner.Run(ctx, o.opts.CopyBinary, src.Path, target); err != nil {
			_ = os.Remove(target)
			return services.Wrap(services.ErrExternalTool, "organizer", "shell copy", o.opts.CopyBinary+" failed", err)
		}
		if err := fileutil.VerifySize(target, src.Size); err != nil {
			return fmt.Errorf("verify copy: %w", err)
		}
		return nil
	}

	written, err := fileutil.CopyFile(src.Path, target)
	if err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if written != src.Size {
		_ = os.Remove(target)
		return fmt.Errorf("copy file: %w: expected %d bytes, copied %d", fileutil.ErrSizeMismatch, src.Size, written)
	}
	return nil
}
