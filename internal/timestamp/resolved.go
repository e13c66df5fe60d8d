package timestamp

import "time"

// Provenance records where a resolved timestamp came from.
type Provenance int

const (
	// FromMetadata values were read from tags embedded in the file.
	FromMetadata Provenance = iota + 1
	// Inferred values were derived from the filename or filesystem.
	Inferred
)

func (p Provenance) String() string {
	switch p {
	case FromMetadata:
		return "metadata"
	case Inferred:
		return "inferred"
	default:
		return "unknown"
	}
}

// Resolved is the outcome of running a resolution chain.
type Resolved struct {
	// Time is UTC truncated to whole seconds.
	Time       time.Time
	Provenance Provenance
	// HasDateTag reports whether a photo carried any EXIF date tag, even one
	// that could not be parsed. It only decides how backfill writes the date.
	HasDateTag bool
	// Source names the chain step that produced Time.
	Source string
}

// Inferred reports whether the timestamp was not read from embedded metadata.
func (r Resolved) Inferred() bool {
	return r.Provenance == Inferred
}

// Chain step names reported in Resolved.Source.
const (
	SourceGPS              = "gps"
	SourceDateTimeOriginal = "date_time_original"
	SourceDateTime         = "date_time"
	SourceVendorCreation   = "vendor_creation_date"
	SourceCreationTime     = "creation_time"
	SourceFilename         = "filename"
	SourceFilesystem       = "filesystem"
)

const dateTimeLayout = "2006-01-02 15:04:05"

func parseDateTime(value string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateTimeLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
