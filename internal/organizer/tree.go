package organizer

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"phototools/internal/logging"
	"phototools/internal/media"
	"phototools/internal/services"
	"phototools/internal/walker"
)

// Observer is told about every file once Organize returns.
type Observer func(ctx context.Context, res Result, err error)

// OrganizeTree organizes every file below sourceRoot into destRoot. Per-file
// errors are logged and counted; only a traversal failure is returned. When
// destRoot lies inside sourceRoot its subtree is not revisited.
func (o *Organizer) OrganizeTree(ctx context.Context, sourceRoot, destRoot string, observe Observer) (Summary, error) {
	var summary Summary
	logger := logging.WithContext(ctx, o.logger)

	o.plannedMu.Lock()
	clear(o.planned)
	o.plannedMu.Unlock()

	destPrefix := filepath.Clean(destRoot) + string(filepath.Separator)
	visit := func(ctx context.Context, path string, info fs.FileInfo) {
		if strings.HasPrefix(path, destPrefix) {
			logging.Trace(ctx, logger, "skipping file inside destination", logging.String(logging.FieldSource, path))
			return
		}

		res, err := o.Organize(ctx, media.NewSourceFile(path, info.Size()), destRoot)
		if err != nil {
			logger.Error("organize failed",
				logging.String(logging.FieldSource, path),
				logging.String("error_category", services.Category(err)),
				logging.Error(err),
			)
		}
		summary.Add(res, err)
		if observe != nil {
			observe(ctx, res, err)
		}
	}

	if err := walker.Walk(ctx, sourceRoot, visit, o.base); err != nil {
		return summary, err
	}
	return summary, nil
}
