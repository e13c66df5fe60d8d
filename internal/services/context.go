package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	sourcePathKey contextKey = "source_path"
)

// WithRunID annotates context with the correlation identifier of the current run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSourcePath annotates context with the source file currently being organized.
func WithSourcePath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, sourcePathKey, path)
}

// SourcePathFromContext returns the source file path if present.
func SourcePathFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(sourcePathKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
