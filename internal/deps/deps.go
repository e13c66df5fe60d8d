// Package deps reports which external tools are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"phototools/internal/config"
)

// Requirement defines an external tool phototools may shell out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	// Path is the resolved executable when Available.
	Path   string
	Detail string
}

// Requirements lists the tools the configuration would invoke. Tools that
// only some modes use are marked optional unless the config selects them.
func Requirements(cfg *config.Config) []Requirement {
	videoOptional := cfg.Video.Reader != config.VideoReaderFFprobe
	videoDescription := "Reads video container creation dates"
	if cfg.Video.Reader == config.VideoReaderAuto {
		videoDescription += "; the built-in MP4 reader is used when missing"
	}

	reqs := []Requirement{
		{
			Name:        "ffprobe",
			Command:     cfg.Tools.FFprobe,
			Description: videoDescription,
			Optional:    videoOptional,
		},
		{
			Name:        "jhead",
			Command:     cfg.Tools.Jhead,
			Description: "Writes inferred dates into photo EXIF blocks",
			Optional:    cfg.Tools.ExifWriter != config.WriterJhead,
		},
		{
			Name:        "exiftool",
			Command:     cfg.Tools.Exiftool,
			Description: "Alternative EXIF date writer",
			Optional:    cfg.Tools.ExifWriter != config.WriterExiftool,
		},
		{
			Name:        "cp",
			Command:     cfg.Tools.Cp,
			Description: "External copy command for --cp-copy",
			Optional:    !cfg.Copy.ShellCopy,
		},
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch path, err := lookPath(cmd); {
		case cmd == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
		default:
			status.Available = true
			status.Path = path
		}
		results = append(results, status)
	}
	return results
}

// Available reports whether command resolves to an executable.
func Available(command string) bool {
	_, err := lookPath(strings.TrimSpace(command))
	return err == nil
}

// MissingRequired returns the names of unavailable, non-optional tools.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s.Name)
		}
	}
	return missing
}

func lookPath(cmd string) (string, error) {
	if cmd == "" {
		return "", exec.ErrNotFound
	}
	return exec.LookPath(cmd)
}
