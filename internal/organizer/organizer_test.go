package organizer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"phototools/internal/command"
	"phototools/internal/config"
	"phototools/internal/fileutil"
	"phototools/internal/logging"
	"phototools/internal/media"
	"phototools/internal/media/exiftags"
	"phototools/internal/media/ffprobe"
	"phototools/internal/organizer"
	"phototools/internal/services"
	"phototools/internal/testsupport"
	"phototools/internal/timestamp"
)

// tagsByName serves EXIF tags keyed by file base name.
type tagsByName map[string]exiftags.Tags

func (m tagsByName) Read(path string) (exiftags.Tags, error) {
	tags, ok := m[filepath.Base(path)]
	if !ok {
		return exiftags.Tags{}, services.ErrInvalidData
	}
	return tags, nil
}

var (
	fsTime  = time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	gpsDate = exiftags.Tags{GPSDate: "2019-04-27", GPSTime: "14:08:01.00"}
)

type fixture struct {
	src    string
	dest   string
	tags   tagsByName
	tools  *testsupport.StubRunner
	writer exiftags.Writer
	opts   organizer.Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tools := &testsupport.StubRunner{Output: map[string][]byte{
		"ffprobe": []byte("  Metadata:\n    creation_time   : 2019-05-01T17:40:16.000000Z\n"),
	}}
	return &fixture{
		src:    t.TempDir(),
		dest:   t.TempDir(),
		tags:   tagsByName{},
		tools:  tools,
		writer: exiftags.Jhead{Binary: "jhead", Runner: tools},
		opts:   organizer.Options{MinSize: 500, Compare: config.CompareSize},
	}
}

func (f *fixture) organizer() *organizer.Organizer {
	resolver := timestamp.New(
		timestamp.WithPhotoReader(f.tags),
		timestamp.WithContainerReader(ffprobe.New("ffprobe", f.tools)),
		timestamp.WithFileTime(func(string) (time.Time, error) { return fsTime, nil }),
		timestamp.WithLogger(logging.NewNop()),
	)
	return organizer.New(resolver, f.writer, f.tools, f.opts, logging.NewNop())
}

func (f *fixture) source(t *testing.T, rel string, size int64) media.SourceFile {
	t.Helper()
	path := filepath.Join(f.src, rel)
	testsupport.WriteFile(t, path, size)
	return media.NewSourceFile(path, size)
}

func (f *fixture) organize(t *testing.T, src media.SourceFile) organizer.Result {
	t.Helper()
	res, err := f.organizer().Organize(context.Background(), src, f.dest)
	if err != nil {
		t.Fatalf("Organize(%s): %v", src.Path, err)
	}
	return res
}

func assertModTime(t *testing.T, path string, want time.Time) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if !info.ModTime().Equal(want) {
		t.Fatalf("mtime of %s = %v, want %v", path, info.ModTime().UTC(), want)
	}
}

func TestOrganizeVideoCreationTimeExample(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "creation-time.mp4", 2048)

	res := f.organize(t, src)

	want := filepath.Join(f.dest, "2019", "2019-05-01", "creation-time.mp4")
	if res.Action != organizer.ActionCopied || res.Target != want {
		t.Fatalf("unexpected result %+v", res)
	}
	assertModTime(t, want, time.Date(2019, 5, 1, 17, 40, 16, 0, time.UTC))
	if testsupport.FileSize(t, want) != 2048 {
		t.Fatal("copy size differs from source")
	}
	if len(f.tools.CallsTo("jhead")) != 0 {
		t.Fatal("videos must not be backfilled")
	}
}

func TestOrganizeGPSPhotoExample(t *testing.T) {
	f := newFixture(t)
	f.tags["gps-date.jpg"] = gpsDate
	src := f.source(t, "gps-date.jpg", 4096)

	res := f.organize(t, src)

	want := filepath.Join(f.dest, "2019", "2019-04-27", "gps-date.jpg")
	if res.Target != want || res.Backfilled {
		t.Fatalf("unexpected result %+v", res)
	}
	assertModTime(t, want, time.Date(2019, 4, 27, 14, 8, 1, 0, time.UTC))
	if len(f.tools.CallsTo("jhead")) != 0 {
		t.Fatal("metadata-dated photos must not be backfilled")
	}
}

func TestOrganizeBackfillsInferredPhoto(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "IMG-20170701-WA0002.jpg", 1000)

	res := f.organize(t, src)

	want := filepath.Join(f.dest, "2017", "2017-07-01", "IMG-20170701-WA0002.jpg")
	if res.Target != want || !res.Backfilled || !res.Timestamp.Inferred() {
		t.Fatalf("unexpected result %+v", res)
	}
	calls := f.tools.CallsTo("jhead")
	if len(calls) != 1 {
		t.Fatalf("expected one jhead call, got %d", len(calls))
	}
	args := calls[0].Args
	if len(args) != 3 || !slices.Equal(args[:2], []string{"-mkexif", "-ts2017:07:01-13:00:00"}) {
		t.Fatalf("unexpected jhead args %q", args)
	}
	// The date is written to a hidden staged copy that is then moved into place.
	if filepath.Dir(args[2]) != filepath.Dir(want) || !strings.HasPrefix(filepath.Base(args[2]), ".phototools-") {
		t.Fatalf("jhead should edit a staged copy beside the target, got %s", args[2])
	}
	if _, err := os.Stat(args[2]); !os.IsNotExist(err) {
		t.Fatal("staged copy left behind")
	}
	assertModTime(t, want, time.Date(2017, 7, 1, 13, 0, 0, 0, time.UTC))
}

// growingWriter appends bytes the way a real EXIF writer enlarges a file.
type growingWriter struct {
	grow  int
	calls int
}

func (w *growingWriter) WriteDate(_ context.Context, path string, _ time.Time, _ bool) error {
	w.calls++
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(make([]byte, w.grow)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func TestOrganizeBackfilledPhotoIsIdempotent(t *testing.T) {
	f := newFixture(t)
	writer := &growingWriter{grow: 120}
	f.writer = writer
	src := f.source(t, "IMG-20170701-WA0002.jpg", 1000)

	first := f.organize(t, src)
	second := f.organize(t, src)

	if first.Action != organizer.ActionCopied || !first.Backfilled {
		t.Fatalf("unexpected first result %+v", first)
	}
	if second.Action != organizer.ActionDuplicate || second.Target != first.Target {
		t.Fatalf("re-run should find the backfilled copy, got %+v", second)
	}
	if writer.calls != 2 {
		t.Fatalf("expected the writer to run on both passes, got %d", writer.calls)
	}
	entries, err := os.ReadDir(filepath.Dir(first.Target))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the first copy, found %q", names)
	}
	if got := testsupport.FileSize(t, first.Target); got != 1120 {
		t.Fatalf("backfilled copy has %d bytes, want 1120", got)
	}
}

func TestOrganizeBackfillPatchesExistingBlock(t *testing.T) {
	f := newFixture(t)
	f.tags["scan.jpg"] = exiftags.Tags{DateTime: "0000-00-00 00:00:00"}
	src := f.source(t, "scan.jpg", 1000)

	res := f.organize(t, src)
	if !res.Backfilled {
		t.Fatalf("expected backfill, got %+v", res)
	}
	calls := f.tools.CallsTo("jhead")
	if len(calls) != 1 || slices.Contains(calls[0].Args, "-mkexif") {
		t.Fatalf("expected patch without -mkexif, got %+v", calls)
	}
	assertModTime(t, res.Target, fsTime)
}

func TestOrganizeBackfillFailureKeepsCopy(t *testing.T) {
	f := newFixture(t)
	f.tools.Errors = map[string]error{"jhead": errors.New("exit status 1")}
	src := f.source(t, "IMG-20170701-WA0002.jpg", 1000)

	res, err := f.organizer().Organize(context.Background(), src, f.dest)
	if !errors.Is(err, organizer.ErrBackfill) || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected backfill error, got %v", err)
	}
	if res.Action != organizer.ActionCopied || res.Backfilled {
		t.Fatalf("unexpected result %+v", res)
	}
	assertModTime(t, res.Target, time.Date(2017, 7, 1, 13, 0, 0, 0, time.UTC))
}

func TestOrganizeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.tags["myimg.jpg"] = gpsDate
	src := f.source(t, "myimg.jpg", 204636)

	first := f.organize(t, src)
	second := f.organize(t, src)

	if first.Action != organizer.ActionCopied || second.Action != organizer.ActionDuplicate {
		t.Fatalf("unexpected actions %s then %s", first.Action, second.Action)
	}
	if second.Target != first.Target {
		t.Fatalf("duplicate should point at the existing copy, got %s", second.Target)
	}
	entries, err := os.ReadDir(filepath.Dir(first.Target))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single file, found %d", len(entries))
	}
	if testsupport.FileSize(t, first.Target) != 204636 {
		t.Fatal("size changed on second run")
	}
}

func TestOrganizeCollisionSuffixes(t *testing.T) {
	f := newFixture(t)
	f.tags["myimg.jpg"] = gpsDate
	sizes := []int64{204636, 204717, 96593}
	dir := filepath.Join(f.dest, "2019", "2019-04-27")
	wantNames := []string{"myimg.jpg", "myimg_001.jpg", "myimg_002.jpg"}

	for i, size := range sizes {
		src := f.source(t, filepath.Join("batch"+string(rune('a'+i)), "myimg.jpg"), size)
		res := f.organize(t, src)
		if want := filepath.Join(dir, wantNames[i]); res.Target != want {
			t.Fatalf("file %d landed at %s, want %s", i, res.Target, want)
		}
	}
	for i, name := range wantNames {
		if got := testsupport.FileSize(t, filepath.Join(dir, name)); got != sizes[i] {
			t.Fatalf("%s has size %d, want %d", name, got, sizes[i])
		}
	}

	// Re-running the middle file finds its suffixed copy instead of adding another.
	again := f.organize(t, media.NewSourceFile(filepath.Join(f.src, "batchb", "myimg.jpg"), sizes[1]))
	if again.Action != organizer.ActionDuplicate || again.Target != filepath.Join(dir, "myimg_001.jpg") {
		t.Fatalf("unexpected re-run result %+v", again)
	}
}

func TestOrganizeReplacesStaleEmptyFile(t *testing.T) {
	f := newFixture(t)
	f.tags["myimg.jpg"] = gpsDate
	stale := filepath.Join(f.dest, "2019", "2019-04-27", "myimg.jpg")
	testsupport.WriteFile(t, stale, 0)
	src := f.source(t, "myimg.jpg", 204636)

	res := f.organize(t, src)

	if res.Target != stale || !res.ReplacedStale || res.Action != organizer.ActionCopied {
		t.Fatalf("unexpected result %+v", res)
	}
	if testsupport.FileSize(t, stale) != 204636 {
		t.Fatal("stale file was not replaced")
	}
}

func TestOrganizeSkipsSmallFiles(t *testing.T) {
	f := newFixture(t)
	f.tags["tiny.jpg"] = gpsDate
	src := f.source(t, "tiny.jpg", 499)

	res := f.organize(t, src)
	if res.Action != organizer.ActionSkippedSmall {
		t.Fatalf("unexpected action %s", res.Action)
	}
	entries, _ := os.ReadDir(f.dest)
	if len(entries) != 0 {
		t.Fatal("destination should stay empty")
	}

	exact := f.source(t, "exact.mp4", 500)
	if res := f.organize(t, exact); res.Action != organizer.ActionCopied {
		t.Fatalf("file of exactly min size should copy, got %s", res.Action)
	}
}

func TestOrganizeExtensionHandling(t *testing.T) {
	f := newFixture(t)

	res := f.organize(t, f.source(t, "notes.txt", 1000))
	if res.Action != organizer.ActionSkippedUnsupported {
		t.Fatalf("unexpected action %s", res.Action)
	}

	_, err := f.organizer().Organize(context.Background(), f.source(t, "README", 1000), f.dest)
	if !errors.Is(err, services.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestOrganizeHashCompare(t *testing.T) {
	f := newFixture(t)
	f.tags["myimg.jpg"] = gpsDate
	f.opts.Compare = config.CompareHash
	existing := filepath.Join(f.dest, "2019", "2019-04-27", "myimg.jpg")
	testsupport.WriteFilled(t, existing, 2000, 'a')

	srcPath := filepath.Join(f.src, "myimg.jpg")
	testsupport.WriteFilled(t, srcPath, 2000, 'b')
	res := f.organize(t, media.NewSourceFile(srcPath, 2000))
	if res.Action != organizer.ActionCopied || filepath.Base(res.Target) != "myimg_001.jpg" {
		t.Fatalf("same-size different content should be suffixed, got %+v", res)
	}

	f.opts.Compare = config.CompareSize
	other := filepath.Join(f.src, "other", "myimg.jpg")
	testsupport.WriteFilled(t, other, 2000, 'c')
	res = f.organize(t, media.NewSourceFile(other, 2000))
	if res.Action != organizer.ActionDuplicate || res.Target != existing {
		t.Fatalf("size compare should treat equal sizes as duplicates, got %+v", res)
	}
}

func TestOrganizeDryRunLeavesDestinationUntouched(t *testing.T) {
	f := newFixture(t)
	f.opts.DryRun = true
	f.tags["myimg.jpg"] = gpsDate
	stale := filepath.Join(f.dest, "2019", "2019-04-27", "myimg.jpg")
	testsupport.WriteFile(t, stale, 0)

	res := f.organize(t, f.source(t, "myimg.jpg", 1000))
	if res.Action != organizer.ActionPlanned || res.Target != stale || !res.ReplacedStale {
		t.Fatalf("unexpected result %+v", res)
	}
	if testsupport.FileSize(t, stale) != 0 {
		t.Fatal("dry run must not replace files")
	}

	res = f.organize(t, f.source(t, "creation-time.mp4", 1000))
	if res.Action != organizer.ActionPlanned {
		t.Fatalf("unexpected action %s", res.Action)
	}
	if _, err := os.Stat(filepath.Dir(res.Target)); !os.IsNotExist(err) {
		t.Fatal("dry run must not create directories")
	}
	if len(f.tools.CallsTo("jhead")) != 0 {
		t.Fatal("dry run must not backfill")
	}
}

func TestOrganizeDryRunReservesPlannedTargets(t *testing.T) {
	f := newFixture(t)
	f.opts.DryRun = true
	f.opts.Compare = config.CompareHash
	f.tags["myimg.jpg"] = gpsDate
	org := f.organizer()
	dir := filepath.Join(f.dest, "2019", "2019-04-27")

	plan := func(rel string, fill byte) organizer.Result {
		t.Helper()
		path := filepath.Join(f.src, rel)
		testsupport.WriteFilled(t, path, 2000, fill)
		res, err := org.Organize(context.Background(), media.NewSourceFile(path, 2000), f.dest)
		if err != nil {
			t.Fatalf("Organize(%s): %v", rel, err)
		}
		return res
	}

	first := plan(filepath.Join("a", "myimg.jpg"), 'a')
	second := plan(filepath.Join("b", "myimg.jpg"), 'b')
	third := plan(filepath.Join("c", "myimg.jpg"), 'a')

	if first.Action != organizer.ActionPlanned || first.Target != filepath.Join(dir, "myimg.jpg") {
		t.Fatalf("unexpected first plan %+v", first)
	}
	if second.Action != organizer.ActionPlanned || second.Target != filepath.Join(dir, "myimg_001.jpg") {
		t.Fatalf("different content should plan a suffixed name, got %+v", second)
	}
	if third.Action != organizer.ActionDuplicate || third.Target != first.Target {
		t.Fatalf("same content should duplicate the planned copy, got %+v", third)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("dry run must not create directories")
	}
}

func TestOrganizeShellCopy(t *testing.T) {
	f := newFixture(t)
	f.opts.ShellCopy = true
	f.opts.CopyBinary = "cp"
	var copied []string
	runner := command.RunnerFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name == "cp" {
			copied = append(copied, args...)
			_, err := fileutil.CopyFile(args[0], args[1])
			return nil, err
		}
		return f.tools.Run(ctx, name, args...)
	})
	resolver := timestamp.New(
		timestamp.WithContainerReader(ffprobe.New("ffprobe", f.tools)),
		timestamp.WithLogger(logging.NewNop()),
	)
	org := organizer.New(resolver, f.writer, runner, f.opts, logging.NewNop())

	src := f.source(t, "creation-time.mp4", 3000)
	res, err := org.Organize(context.Background(), src, f.dest)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if !slices.Equal(copied, []string{src.Path, res.Target}) {
		t.Fatalf("unexpected cp arguments %q", copied)
	}
	assertModTime(t, res.Target, time.Date(2019, 5, 1, 17, 40, 16, 0, time.UTC))
}

func TestOrganizeShellCopyFailures(t *testing.T) {
	tests := []struct {
		name   string
		cp     func(args []string) error
		marker error
	}{
		{
			name:   "tool fails",
			cp:     func([]string) error { return errors.New("exit status 1") },
			marker: services.ErrExternalTool,
		},
		{
			name: "short copy",
			cp: func(args []string) error {
				return os.WriteFile(args[1], []byte("short"), 0o644)
			},
			marker: fileutil.ErrSizeMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.opts.ShellCopy = true
			runner := command.RunnerFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
				if name == "cp" {
					return nil, tt.cp(args)
				}
				return f.tools.Run(ctx, name, args...)
			})
			resolver := timestamp.New(
				timestamp.WithContainerReader(ffprobe.New("ffprobe", f.tools)),
				timestamp.WithLogger(logging.NewNop()),
			)
			org := organizer.New(resolver, nil, runner, f.opts, logging.NewNop())

			src := f.source(t, "creation-time.mp4", 3000)
			_, err := org.Organize(context.Background(), src, f.dest)
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
			target := filepath.Join(f.dest, "2019", "2019-05-01", "creation-time.mp4")
			if _, err := os.Stat(target); !os.IsNotExist(err) {
				t.Fatal("failed copy must not leave a target behind")
			}
		})
	}
}

func TestSuffixedName(t *testing.T) {
	tests := map[int]string{0: "myimg.jpg", 1: "myimg_001.jpg", 42: "myimg_042.jpg", 1000: "myimg_1000.jpg"}
	for n, want := range tests {
		if got := organizer.SuffixedName("myimg.jpg", n); got != want {
			t.Errorf("SuffixedName(%d) = %q, want %q", n, got, want)
		}
	}
}
