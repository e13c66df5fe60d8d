package timestamp

import (
	"regexp"
	"strings"
	"time"
)

const (
	vendorCreationKey = "com.apple.quicktime.creationdate"
	creationTimeKey   = "creation_time"
)

var (
	// The vendor tag may carry a trailing zone offset, which is ignored.
	vendorCreationPattern = regexp.MustCompile(`^com\.apple\.quicktime\.creationdate\s*:\s*(\d{4}-\d{2}-\d{2})T(\d{2}:\d{2}:\d{2})`)
	creationTimePattern   = regexp.MustCompile(`^creation_time\s*:\s*(\d{4}-\d{2}-\d{2})T(\d{2}:\d{2}:\d{2})(?:\.\d+)?Z`)
)

// timeFromDump scans a container metadata dump. The vendor creation date is
// preferred over the generic creation_time. For each key only the first line
// carrying it is considered; a malformed value falls through to the next key.
func timeFromDump(dump string) (time.Time, string, bool) {
	if t, ok := matchFirstLine(dump, vendorCreationKey, vendorCreationPattern); ok {
		return t, SourceVendorCreation, true
	}
	if t, ok := matchFirstLine(dump, creationTimeKey, creationTimePattern); ok {
		return t, SourceCreationTime, true
	}
	return time.Time{}, "", false
}

func matchFirstLine(dump, key string, pattern *regexp.Regexp) (time.Time, bool) {
	for raw := range strings.SplitSeq(dump, "\n") {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, key) {
			continue
		}
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			return time.Time{}, false
		}
		return parseDateTime(m[1] + " " + m[2])
	}
	return time.Time{}, false
}
