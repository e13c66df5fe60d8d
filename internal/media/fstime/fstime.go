// Package fstime reads the filesystem's notion of when a file was created.
package fstime

import (
	"fmt"
	"time"

	"gopkg.in/djherbis/times.v1"
)

// CaptureTime returns the file's birth time when the platform records one,
// otherwise its modification time. The value is in UTC truncated to whole seconds.
func CaptureTime(path string) (time.Time, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat times: %w", err)
	}
	t := ts.ModTime()
	if ts.HasBirthTime() {
		t = ts.BirthTime()
	}
	return t.UTC().Truncate(time.Second), nil
}
