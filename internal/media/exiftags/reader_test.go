package exiftags_test

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"phototools/internal/media/exiftags"
	"phototools/internal/services"
	"phototools/internal/testsupport"
)

func TestGoexifReaderReadsAllDateTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gps-date.jpg")
	testsupport.WriteEXIF(t, path, testsupport.EXIFTags{
		DateTime:         "2019:04:27 10:00:00",
		DateTimeOriginal: "2019:04:27 11:00:00",
		GPSDate:          "2019:04:27",
		GPSTime:          [][2]uint32{{14, 1}, {8, 1}, {150, 100}},
	})

	tags, err := exiftags.GoexifReader{}.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := exiftags.Tags{
		GPSDate:          "2019-04-27",
		GPSTime:          "14:08:01.50",
		DateTimeOriginal: "2019-04-27 11:00:00",
		DateTime:         "2019-04-27 10:00:00",
	}
	if tags != want {
		t.Fatalf("unexpected tags:\n got %+v\nwant %+v", tags, want)
	}
	if !tags.HasDateTag() {
		t.Fatal("expected HasDateTag")
	}
}

func TestGoexifReaderWithoutDateTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	testsupport.WriteEXIF(t, path, testsupport.EXIFTags{})

	tags, err := exiftags.GoexifReader{}.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tags.HasDateTag() {
		t.Fatalf("expected no date tags, got %+v", tags)
	}
}

func TestGoexifReaderZeroDenominatorDropsGPSTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad-gps.jpg")
	testsupport.WriteEXIF(t, path, testsupport.EXIFTags{
		GPSDate: "2019:04:27",
		GPSTime: [][2]uint32{{14, 0}, {8, 1}, {1, 1}},
	})

	tags, err := exiftags.GoexifReader{}.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tags.GPSTime != "" {
		t.Fatalf("expected GPS time to be dropped, got %q", tags.GPSTime)
	}
	if tags.GPSDate != "2019-04-27" {
		t.Fatalf("unexpected GPS date %q", tags.GPSDate)
	}
}

func TestGoexifReaderKeepsDatesWhenGPSPointerIsBroken(t *testing.T) {
	block := testsupport.EXIFBlock(testsupport.EXIFTags{
		DateTime:         "2018:01:02 03:04:05",
		DateTimeOriginal: "2018:01:02 03:04:06",
		GPSDate:          "2019:04:27",
		GPSTime:          [][2]uint32{{14, 1}, {8, 1}, {1, 1}},
	})
	pointGPSPastEnd(t, block)
	path := filepath.Join(t.TempDir(), "broken-gps.jpg")
	if err := os.WriteFile(path, block, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tags, err := exiftags.GoexifReader{}.Read(path)
	if !errors.Is(err, services.ErrInvalidData) {
		t.Fatalf("expected the damaged GPS directory to be reported, got %v", err)
	}
	if tags.DateTimeOriginal != "2018-01-02 03:04:06" || tags.DateTime != "2018-01-02 03:04:05" {
		t.Fatalf("dates from intact directories lost: %+v", tags)
	}
	if tags.GPSDate != "" || tags.GPSTime != "" {
		t.Fatalf("expected no GPS tags, got %+v", tags)
	}
	if !tags.HasDateTag() {
		t.Fatal("expected HasDateTag")
	}
}

// pointGPSPastEnd rewrites the GPS IFD pointer in IFD0 to an offset beyond the block.
func pointGPSPastEnd(t *testing.T, block []byte) {
	t.Helper()
	ifd0 := binary.LittleEndian.Uint32(block[4:8])
	count := int(binary.LittleEndian.Uint16(block[ifd0:]))
	for i := range count {
		entry := int(ifd0) + 2 + 12*i
		if binary.LittleEndian.Uint16(block[entry:]) == 0x8825 {
			binary.LittleEndian.PutUint32(block[entry+8:], 0xFFFFFF)
			return
		}
	}
	t.Fatal("block has no GPS pointer")
}

func TestGoexifReaderRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jpg")
	if err := os.WriteFile(path, []byte("definitely not a jpeg"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := exiftags.GoexifReader{}.Read(path)
	if !errors.Is(err, services.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}
