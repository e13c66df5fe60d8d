package timestamp

import (
	"strings"
	"time"

	"phototools/internal/media/exiftags"
)

type tagCandidate struct {
	source string
	value  string
}

// photoCandidates lists tag-derived date-times in precedence order. GPS is
// only a candidate when both its date and time are present; the sub-second
// part of the GPS time is discarded.
func photoCandidates(tags exiftags.Tags) []tagCandidate {
	candidates := make([]tagCandidate, 0, 3)
	if tags.GPSDate != "" && tags.GPSTime != "" {
		clock, _, _ := strings.Cut(tags.GPSTime, ".")
		candidates = append(candidates, tagCandidate{SourceGPS, tags.GPSDate + " " + clock})
	}
	if tags.DateTimeOriginal != "" {
		candidates = append(candidates, tagCandidate{SourceDateTimeOriginal, tags.DateTimeOriginal})
	}
	if tags.DateTime != "" {
		candidates = append(candidates, tagCandidate{SourceDateTime, tags.DateTime})
	}
	return candidates
}

// timeFromTags returns the first candidate that parses.
func timeFromTags(tags exiftags.Tags) (time.Time, string, bool) {
	for _, c := range photoCandidates(tags) {
		if t, ok := parseDateTime(c.value); ok {
			return t, c.source, true
		}
	}
	return time.Time{}, "", false
}
