package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Copy contains the organize-and-copy behaviour knobs.
type Copy struct {
	MinSize   int64  `toml:"min_size"`
	ShellCopy bool   `toml:"shell_copy"`
	Compare   string `toml:"compare"`
}

// Tools names the external executables the metadata collaborators shell out to.
type Tools struct {
	FFprobe    string `toml:"ffprobe"`
	Jhead      string `toml:"jhead"`
	Exiftool   string `toml:"exiftool"`
	Cp         string `toml:"cp"`
	ExifWriter string `toml:"exif_writer"`
}

// Video selects how container metadata is read.
type Video struct {
	Reader string `toml:"reader"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Journal controls the optional SQLite audit log of organize decisions.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for phototools.
//
// Configuration sections by subsystem:
//   - Copy: size filter, copy mechanism and duplicate comparison
//   - Tools: external binaries (ffprobe, jhead, exiftool, cp)
//   - Video: container metadata reader selection
//   - Logging: log format and level
//   - Journal: optional audit journal
type Config struct {
	Copy    Copy    `toml:"copy"`
	Tools   Tools   `toml:"tools"`
	Video   Video   `toml:"video"`
	Logging Logging `toml:"logging"`
	Journal Journal `toml:"journal"`
}

// DefaultConfigPath returns the absolute path of the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load builds the effective configuration: defaults, then the first config
// file found, then normalization and validation. It returns the config, the
// file path that was (or would have been) read, and whether that file exists.
//
// An explicit path is used as given, even when missing. Otherwise the
// per-user file is preferred over ./phototools.toml.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// decodeFile overlays the TOML file onto cfg. Unknown keys are rejected so a
// misspelt option fails loudly instead of silently keeping its default.
func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		explicit, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(explicit)
		return explicit, exists, err
	}

	userPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := expandPath(projectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if exists, _ := isFile(candidate); exists {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	}
	return !info.IsDir(), nil
}

// expandPath resolves a leading "~" to the home directory and returns an
// absolute, cleaned path. Empty input stays empty.
func expandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, strings.TrimPrefix(value, "~"))
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return abs, nil
}

// ExpandPath applies the config path rules ("~" expansion, absolute, cleaned).
func ExpandPath(value string) (string, error) {
	return expandPath(value)
}

// CreateSample writes the commented sample configuration to path, creating
// parent directories.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
