package exiftags

import (
	"context"
	"fmt"
	"strings"
	"time"

	"phototools/internal/command"
	"phototools/internal/services"
)

// Writer stamps a capture date into a photo's metadata.
type Writer interface {
	// WriteDate sets the photo's date tags to t. When create is true the photo
	// has no EXIF date block and one must be created first.
	WriteDate(ctx context.Context, path string, t time.Time, create bool) error
}

// Jhead writes dates with jhead.
type Jhead struct {
	Binary string
	Runner command.Runner
}

// WriteDate runs `jhead [-mkexif] -tsYYYY:MM:DD-hh:mm:ss path`.
func (j Jhead) WriteDate(ctx context.Context, path string, t time.Time, create bool) error {
	args := make([]string, 0, 3)
	if create {
		args = append(args, "-mkexif")
	}
	args = append(args, "-ts"+t.UTC().Format("2006:01:02-15:04:05"), path)
	return run(ctx, j.Runner, binaryOr(j.Binary, "jhead"), args)
}

// Exiftool writes dates with exiftool. exiftool creates missing tags on its own,
// so the create flag has no effect.
type Exiftool struct {
	Binary string
	Runner command.Runner
}

// WriteDate runs `exiftool -overwrite_original -AllDates=... path`.
func (e Exiftool) WriteDate(ctx context.Context, path string, t time.Time, _ bool) error {
	args := []string{
		"-overwrite_original",
		"-AllDates=" + t.UTC().Format("2006:01:02 15:04:05"),
		path,
	}
	return run(ctx, e.Runner, binaryOr(e.Binary, "exiftool"), args)
}

// NewWriter selects a writer by name ("jhead" or "exiftool").
func NewWriter(name, binary string, runner command.Runner) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "jhead":
		return Jhead{Binary: binary, Runner: runner}, nil
	case "exiftool":
		return Exiftool{Binary: binary, Runner: runner}, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "exiftags", "select writer", fmt.Sprintf("unknown writer %q", name), nil)
	}
}

func run(ctx context.Context, runner command.Runner, binary string, args []string) error {
	if runner == nil {
		runner = command.Exec{}
	}
	if _, err := runner.Run(ctx, binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "exiftags", "write date", binary+" failed", err)
	}
	return nil
}

func binaryOr(binary, fallback string) string {
	if b := strings.TrimSpace(binary); b != "" {
		return b
	}
	return fallback
}
