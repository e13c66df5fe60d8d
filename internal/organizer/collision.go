package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"phototools/internal/config"
	"phototools/internal/fileutil"
	"phototools/internal/logging"
	"phototools/internal/media"
)

const (
	maxSuffix = 99999

	// stagingPrefix marks in-progress copies; the walker skips dot files.
	stagingPrefix = ".phototools-"
)

type claim struct {
	path          string
	duplicate     bool
	replacedStale bool
}

// SuffixedName inserts _NNN before the extension; n == 0 returns name unchanged.
func SuffixedName(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(name, ext), n, ext)
}

// claimTarget runs the collision loop starting at base. In dry-run mode a
// stale empty occupant is reported as replaceable but left in place, and
// targets planned earlier in the run count as taken by their sources.
func (o *Organizer) claimTarget(ctx context.Context, logger *slog.Logger, src media.SourceFile, base string) (claim, error) {
	dir, name := filepath.Split(base)
	var c claim

	if o.opts.DryRun {
		o.plannedMu.Lock()
		defer o.plannedMu.Unlock()
	}

	for n := 0; n <= maxSuffix; {
		if err := ctx.Err(); err != nil {
			return c, err
		}
		candidate := filepath.Join(dir, SuffixedName(name, n))
		occ, taken, err := o.occupantAt(candidate)
		if err != nil {
			return c, err
		}
		if !taken {
			c.path = candidate
			o.reserve(c.path, src)
			return c, nil
		}

		switch {
		case occ.regular && occ.size == 0 && !occ.planned:
			logger.Info("replacing stale empty file", logging.String(logging.FieldTarget, candidate))
			c.replacedStale = true
			if o.opts.DryRun {
				c.path = candidate
				o.reserve(c.path, src)
				return c, nil
			}
			if err := os.Remove(candidate); err != nil {
				return c, fmt.Errorf("remove stale target: %w", err)
			}
			continue
		case occ.regular && occ.size == src.Size:
			same, err := o.sameContent(src.Path, occ.path)
			if err != nil {
				return c, err
			}
			if same {
				c.path = candidate
				c.duplicate = true
				return c, nil
			}
		}

		logger.Debug("target name taken by different content",
			logging.String(logging.FieldTarget, candidate),
			logging.Int64("existing_size_bytes", occ.size),
			logging.Bool("planned", occ.planned),
		)
		n++
	}
	return c, fmt.Errorf("no free suffix for %s after %d attempts", base, maxSuffix)
}

// occupant describes whatever holds a candidate name. For a target planned
// by an earlier dry-run file, path is that file's source.
type occupant struct {
	path    string
	size    int64
	regular bool
	planned bool
}

func (o *Organizer) occupantAt(candidate string) (occupant, bool, error) {
	if o.opts.DryRun {
		if prior, ok := o.planned[candidate]; ok {
			return occupant{path: prior.Path, size: prior.Size, regular: true, planned: true}, true, nil
		}
	}
	info, err := os.Stat(candidate)
	if errors.Is(err, fs.ErrNotExist) {
		return occupant{}, false, nil
	}
	if err != nil {
		return occupant{}, false, fmt.Errorf("inspect target %s: %w", candidate, err)
	}
	return occupant{path: candidate, size: info.Size(), regular: info.Mode().IsRegular()}, true, nil
}

// reserve records a dry-run target; the caller holds plannedMu.
func (o *Organizer) reserve(path string, src media.SourceFile) {
	if o.opts.DryRun {
		o.planned[path] = src
	}
}

func (o *Organizer) sameContent(src, existing string) (bool, error) {
	if o.opts.Compare != config.CompareHash {
		return true, nil
	}
	same, err := fileutil.SameContent(src, existing)
	if err != nil {
		return false, fmt.Errorf("compare content: %w", err)
	}
	return same, nil
}
