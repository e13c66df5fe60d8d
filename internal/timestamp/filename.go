package timestamp

import (
	"regexp"
	"time"

	"phototools/internal/media"
)

// conventionClock is the placeholder time of day for dates recovered from
// filenames, which carry no time.
const (
	conventionHour   = 13
	conventionMinute = 0
	conventionSecond = 0
)

var (
	photoConvention = regexp.MustCompile(`^IMG-(\d{8})-WA\d{4}\.[A-Za-z0-9]+$`)
	videoConvention = regexp.MustCompile(`^VID-(\d{8})-WA\d{4}\.[A-Za-z0-9]+$`)
)

// DateFromFilename recognizes the messaging-app naming convention
// (IMG-YYYYMMDD-WAnnnn.ext for photos, VID-YYYYMMDD-WAnnnn.ext for videos) and
// returns the encoded date at 13:00:00 UTC. Names that match the shape but
// encode an impossible date are rejected.
func DateFromFilename(name string, kind media.Kind) (time.Time, bool) {
	var pattern *regexp.Regexp
	switch kind {
	case media.Photo:
		pattern = photoConvention
	case media.Video:
		pattern = videoConvention
	default:
		return time.Time{}, false
	}

	m := pattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	day, err := time.Parse("20060102", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), conventionHour, conventionMinute, conventionSecond, 0, time.UTC), true
}
