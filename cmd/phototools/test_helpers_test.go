package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"phototools/internal/config"
	"phototools/internal/testsupport"
)

type cliTestEnv struct {
	baseDir     string
	sourceDir   string
	destDir     string
	configPath  string
	journalPath string
}

// setupCLITestEnv isolates HOME and the working directory and writes a
// config file with no size threshold, in-process video reads and a journal
// in the test's temp directory.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	opts = append([]testsupport.ConfigOption{testsupport.WithJournal(), testsupport.WithMinSize(0)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Video.Reader = config.VideoReaderMP4
	base := testsupport.BaseDir(cfg)

	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Chdir(base)

	env := &cliTestEnv{
		baseDir:     base,
		sourceDir:   filepath.Join(base, "src"),
		destDir:     filepath.Join(base, "dest"),
		configPath:  filepath.Join(base, "phototools-test.toml"),
		journalPath: cfg.Journal.Path,
	}
	if err := os.MkdirAll(env.sourceDir, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	writeTestConfig(t, env.configPath, string(data))
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
