package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// EXIFTags lists the date fields WriteEXIF stores. Empty values are omitted.
// Dates use the EXIF colon form, e.g. "2019:04:27 14:08:01".
type EXIFTags struct {
	DateTime         string
	DateTimeOriginal string
	GPSDate          string
	// GPSTime holds hour, minute and second as numerator/denominator pairs.
	GPSTime [][2]uint32
}

const (
	tiffASCII    = 2
	tiffLong     = 4
	tiffRational = 5

	tagMake             = 0x010F
	tagDateTime         = 0x0132
	tagExifPointer      = 0x8769
	tagGPSPointer       = 0x8825
	tagDateTimeOriginal = 0x9003
	tagGPSTimeStamp     = 0x0007
	tagGPSDateStamp     = 0x001D
)

type tiffEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

// WriteEXIF writes a bare little-endian TIFF/EXIF block carrying tags to path.
// The EXIF decoder accepts it the same way it accepts the APP1 segment of a JPEG.
func WriteEXIF(t testing.TB, path string, tags EXIFTags) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, EXIFBlock(tags), 0o644); err != nil {
		t.Fatalf("write exif %s: %v", path, err)
	}
}

// EXIFBlock encodes tags as a TIFF structure with IFD0, an EXIF sub-IFD and a GPS sub-IFD.
func EXIFBlock(tags EXIFTags) []byte {
	ifd0 := []tiffEntry{asciiEntry(tagMake, "phototools")}
	if tags.DateTime != "" {
		ifd0 = append(ifd0, asciiEntry(tagDateTime, tags.DateTime))
	}
	var exifIFD, gpsIFD []tiffEntry
	if tags.DateTimeOriginal != "" {
		exifIFD = append(exifIFD, asciiEntry(tagDateTimeOriginal, tags.DateTimeOriginal))
	}
	if len(tags.GPSTime) > 0 {
		gpsIFD = append(gpsIFD, rationalEntry(tagGPSTimeStamp, tags.GPSTime))
	}
	if tags.GPSDate != "" {
		gpsIFD = append(gpsIFD, asciiEntry(tagGPSDateStamp, tags.GPSDate))
	}

	exifIdx, gpsIdx := -1, -1
	if len(exifIFD) > 0 {
		exifIdx = len(ifd0)
		ifd0 = append(ifd0, longEntry(tagExifPointer, 0))
	}
	if len(gpsIFD) > 0 {
		gpsIdx = len(ifd0)
		ifd0 = append(ifd0, longEntry(tagGPSPointer, 0))
	}

	next := 8 + ifdSize(ifd0)
	if exifIdx >= 0 {
		ifd0[exifIdx] = longEntry(tagExifPointer, next)
		next += ifdSize(exifIFD)
	}
	if gpsIdx >= 0 {
		ifd0[gpsIdx] = longEntry(tagGPSPointer, next)
	}

	out := []byte{'I', 'I', 0x2A, 0x00}
	out = binary.LittleEndian.AppendUint32(out, 8)
	out = appendIFD(out, ifd0)
	if len(exifIFD) > 0 {
		out = appendIFD(out, exifIFD)
	}
	if len(gpsIFD) > 0 {
		out = appendIFD(out, gpsIFD)
	}
	return out
}

func asciiEntry(tag uint16, value string) tiffEntry {
	data := append([]byte(value), 0)
	return tiffEntry{tag: tag, typ: tiffASCII, count: uint32(len(data)), data: data}
}

func longEntry(tag uint16, value uint32) tiffEntry {
	return tiffEntry{tag: tag, typ: tiffLong, count: 1, data: binary.LittleEndian.AppendUint32(nil, value)}
}

func rationalEntry(tag uint16, values [][2]uint32) tiffEntry {
	var data []byte
	for _, v := range values {
		data = binary.LittleEndian.AppendUint32(data, v[0])
		data = binary.LittleEndian.AppendUint32(data, v[1])
	}
	return tiffEntry{tag: tag, typ: tiffRational, count: uint32(len(values)), data: data}
}

func ifdSize(entries []tiffEntry) uint32 {
	size := uint32(2 + 12*len(entries) + 4)
	for _, e := range entries {
		if len(e.data) > 4 {
			size += uint32(len(e.data) + len(e.data)%2)
		}
	}
	return size
}

func appendIFD(out []byte, entries []tiffEntry) []byte {
	dataOffset := uint32(len(out)) + uint32(2+12*len(entries)+4)
	var data []byte
	out = binary.LittleEndian.AppendUint16(out, uint16(len(entries)))
	for _, e := range entries {
		out = binary.LittleEndian.AppendUint16(out, e.tag)
		out = binary.LittleEndian.AppendUint16(out, e.typ)
		out = binary.LittleEndian.AppendUint32(out, e.count)
		if len(e.data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.data)
			out = append(out, inline...)
			continue
		}
		out = binary.LittleEndian.AppendUint32(out, dataOffset+uint32(len(data)))
		data = append(data, e.data...)
		if len(e.data)%2 == 1 {
			data = append(data, 0)
		}
	}
	out = binary.LittleEndian.AppendUint32(out, 0)
	return append(out, data...)
}
