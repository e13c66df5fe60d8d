package deps

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"phototools/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present || results[0].Detail != "" {
		t.Fatalf("unexpected status for present binary: %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for blank command: %#v", results[2])
	}
}

func TestRequirementsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.ExifWriter = config.WriterExiftool
	cfg.Copy.ShellCopy = true
	cfg.Video.Reader = config.VideoReaderFFprobe

	optional := map[string]bool{}
	for _, req := range Requirements(&cfg) {
		optional[req.Name] = req.Optional
	}
	want := map[string]bool{"ffprobe": false, "jhead": true, "exiftool": false, "cp": false}
	for name, opt := range want {
		if optional[name] != opt {
			t.Fatalf("%s optional = %v, want %v", name, optional[name], opt)
		}
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "ffprobe", Optional: true},
		{Name: "jhead"},
		{Name: "cp", Available: true},
	}
	if got := MissingRequired(statuses); !slices.Equal(got, []string{"jhead"}) {
		t.Fatalf("unexpected missing list %v", got)
	}
}

func TestAvailable(t *testing.T) {
	if Available("clearly-not-present-binary") {
		t.Fatal("expected unknown binary to be unavailable")
	}
	if Available("") {
		t.Fatal("expected blank command to be unavailable")
	}
}
