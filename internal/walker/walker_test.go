package walker_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"phototools/internal/logging"
	"phototools/internal/testsupport"
	"phototools/internal/walker"
)

func collect(t *testing.T, root string) []string {
	t.Helper()
	var got []string
	err := walker.Walk(context.Background(), root, func(_ context.Context, path string, info fs.FileInfo) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		if info.Size() != testsupport.FileSize(t, path) {
			t.Fatalf("size mismatch for %s", rel)
		}
		got = append(got, rel)
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	slices.Sort(got)
	return got
}

func TestWalkVisitsFilesRecursively(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "a.jpg"), 10)
	testsupport.WriteFile(t, filepath.Join(root, "2019", "b.mp4"), 20)
	testsupport.WriteFile(t, filepath.Join(root, "2019", "deep", "c.txt"), 0)
	testsupport.WriteFile(t, filepath.Join(root, ".DS_Store"), 5)
	testsupport.WriteFile(t, filepath.Join(root, "2019", ".hidden.jpg"), 5)
	testsupport.WriteFile(t, filepath.Join(root, ".thumbs", "d.jpg"), 5)
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := collect(t, root)
	want := []string{".thumbs/d.jpg", "2019/b.mp4", "2019/deep/c.txt", "a.jpg"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWalkFollowsFileSymlinksOnly(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(outside, "linked.jpg"), 7)
	testsupport.WriteFile(t, filepath.Join(outside, "dir", "inner.jpg"), 7)
	if err := os.Symlink(filepath.Join(outside, "linked.jpg"), filepath.Join(root, "link.jpg")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "dir"), filepath.Join(root, "linkdir")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(root, filepath.Join(root, "loop")); err != nil {
		t.Fatal(err)
	}

	got := collect(t, root)
	if !slices.Equal(got, []string{"link.jpg"}) {
		t.Fatalf("got %v", got)
	}
}

func TestWalkFailsOnUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any directory")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	testsupport.WriteFile(t, filepath.Join(locked, "a.jpg"), 1)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	err := walker.Walk(context.Background(), root, func(context.Context, string, fs.FileInfo) {}, logging.NewNop())
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestWalkRejectsMissingRoot(t *testing.T) {
	err := walker.Walk(context.Background(), filepath.Join(t.TempDir(), "missing"), func(context.Context, string, fs.FileInfo) {}, nil)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestWalkStopsOnCancelledContext(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "a.jpg"), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	visited := 0
	err := walker.Walk(ctx, root, func(context.Context, string, fs.FileInfo) { visited++ }, nil)
	if !errors.Is(err, context.Canceled) || visited != 0 {
		t.Fatalf("expected cancellation before visiting, got err=%v visited=%d", err, visited)
	}
}
