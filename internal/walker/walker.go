// Package walker traverses a source tree depth-first and hands every regular,
// non-hidden file to a visitor.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"phototools/internal/logging"
)

// VisitFunc handles one file. Failures handling a file are the visitor's to
// report; they never stop the walk.
type VisitFunc func(ctx context.Context, path string, info fs.FileInfo)

// Walk visits every regular file below root exactly once. Hidden files are
// skipped with an info log; hidden directories are still entered. Symlinks to
// regular files are visited, symlinks to directories are not followed. A
// directory that cannot be read aborts the walk with an error, as does a
// cancelled context.
func Walk(ctx context.Context, root string, visit VisitFunc, logger *slog.Logger) error {
	logger = logging.NewComponentLogger(logger, "walker")

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat source root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source root %s is not a directory", root)
	}
	return walkDir(ctx, root, visit, logger)
}

func walkDir(ctx context.Context, dir string, visit VisitFunc, logger *slog.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, entry.Name())

		switch {
		case entry.IsDir():
			if err := walkDir(ctx, path, visit, logger); err != nil {
				return err
			}
			continue
		case strings.HasPrefix(entry.Name(), "."):
			logger.Info("skipping hidden file", logging.String(logging.FieldSource, path))
			continue
		}

		info, ok := regularFile(path, entry, logger)
		if !ok {
			continue
		}
		visit(ctx, path, info)
	}
	return nil
}

// regularFile resolves the entry's FileInfo, following a symlink one hop.
func regularFile(path string, entry fs.DirEntry, logger *slog.Logger) (fs.FileInfo, bool) {
	var (
		info fs.FileInfo
		err  error
	)
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err = os.Stat(path)
	} else {
		info, err = entry.Info()
	}
	if err != nil {
		logger.Warn("cannot stat entry; skipping",
			logging.String(logging.FieldSource, path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "stat_failed"),
		)
		return nil, false
	}
	if !info.Mode().IsRegular() {
		logger.Debug("skipping non-regular entry",
			logging.String(logging.FieldSource, path),
			logging.String("mode", info.Mode().String()),
		)
		return nil, false
	}
	return info, true
}
