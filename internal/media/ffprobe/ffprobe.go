package ffprobe

import (
	"context"
	"errors"
	"strings"

	"phototools/internal/command"
	"phototools/internal/services"
)

// Prober runs ffprobe (or ffmpeg, which prints the same dump) against a file.
type Prober struct {
	binary string
	runner command.Runner
}

// New constructs a Prober. An empty binary defaults to "ffprobe" and a nil
// runner to command.Exec.
func New(binary string, runner command.Runner) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if runner == nil {
		runner = command.Exec{}
	}
	return &Prober{binary: binary, runner: runner}
}

// Binary reports the executable the prober invokes.
func (p *Prober) Binary() string {
	return p.binary
}

// Dump returns the combined output of `ffprobe -hide_banner -i path`.
// Output produced alongside a non-zero exit is returned without error, since
// the metadata section is printed before most failures. A tool that could not
// be started yields an ErrExternalTool error.
func (p *Prober) Dump(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("ffprobe dump: empty path")
	}

	output, err := p.runner.Run(ctx, p.binary, "-hide_banner", "-i", path)
	if err != nil && !command.Started(err) {
		return "", services.Wrap(services.ErrExternalTool, "ffprobe", "dump", "could not run "+p.binary, err)
	}
	return string(output), nil
}
