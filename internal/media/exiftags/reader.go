package exiftags

import (
	"fmt"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"phototools/internal/services"
)

// Tags holds the date-bearing EXIF fields of a photo. Dates use "YYYY-MM-DD"
// and date-times use "YYYY-MM-DD hh:mm:ss"; absent fields are empty.
type Tags struct {
	GPSDate          string
	GPSTime          string
	DateTimeOriginal string
	DateTime         string
}

// HasDateTag reports whether the photo carried any date tag at all, parseable or not.
func (t Tags) HasDateTag() bool {
	return t.GPSDate != "" || t.DateTimeOriginal != "" || t.DateTime != ""
}

// Reader extracts date tags from a photo file. Tags returned together with an
// error hold whatever could still be read.
type Reader interface {
	Read(path string) (Tags, error)
}

// GoexifReader decodes EXIF blocks with github.com/rwcarlsen/goexif.
type GoexifReader struct{}

// Read decodes the EXIF block of path. A file without a decodable block is
// reported as an ErrInvalidData error with empty tags. A damaged sub-IFD, such
// as a GPS pointer past the end of the block, is also reported, but the tags
// from the intact directories are returned with it.
func (GoexifReader) Read(path string) (Tags, error) {
	file, err := os.Open(path)
	if err != nil {
		return Tags{}, fmt.Errorf("open photo: %w", err)
	}
	defer file.Close()

	x, decodeErr := exif.Decode(file)
	if decodeErr != nil && (x == nil || exif.IsCriticalError(decodeErr)) {
		return Tags{}, services.Wrap(services.ErrInvalidData, "exiftags", "decode", "no readable EXIF block", decodeErr)
	}

	var tags Tags
	if v, ok := stringTag(x, exif.GPSDateStamp); ok {
		tags.GPSDate = normalizeDate(v)
	}
	if v, ok := gpsTime(x); ok {
		tags.GPSTime = v
	}
	if v, ok := stringTag(x, exif.DateTimeOriginal); ok {
		tags.DateTimeOriginal = normalizeDateTime(v)
	}
	if v, ok := stringTag(x, exif.DateTime); ok {
		tags.DateTime = normalizeDateTime(v)
	}
	if decodeErr != nil {
		return tags, services.Wrap(services.ErrInvalidData, "exiftags", "decode", "EXIF block partially readable", decodeErr)
	}
	return tags, nil
}

func stringTag(x *exif.Exif, name exif.FieldName) (string, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return "", false
	}
	value, err := tag.StringVal()
	if err != nil {
		return "", false
	}
	value = strings.TrimSpace(strings.TrimRight(value, "\x00"))
	return value, value != ""
}

// gpsTime renders the three GPSTimeStamp rationals as "hh:mm:ss.ff".
func gpsTime(x *exif.Exif) (string, bool) {
	tag, err := x.Get(exif.GPSTimeStamp)
	if err != nil {
		return "", false
	}
	var parts [3]float64
	for i := range parts {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return "", false
		}
		parts[i] = float64(num) / float64(den)
	}
	hours, minutes := int(parts[0]), int(parts[1])
	seconds := int(parts[2])
	hundredths := int((parts[2] - float64(seconds)) * 100)
	return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes, seconds, hundredths), true
}

// normalizeDate turns the EXIF "YYYY:MM:DD" form into "YYYY-MM-DD".
func normalizeDate(value string) string {
	if len(value) >= 10 && value[4] == ':' && value[7] == ':' {
		return value[:4] + "-" + value[5:7] + "-" + value[8:]
	}
	return value
}

// normalizeDateTime applies normalizeDate to the date half of "YYYY:MM:DD hh:mm:ss".
func normalizeDateTime(value string) string {
	date, clock, found := strings.Cut(value, " ")
	if !found {
		return normalizeDate(value)
	}
	return normalizeDate(date) + " " + strings.TrimSpace(clock)
}
