// Package mp4meta reads the creation time stored in the movie header (mvhd)
// of ISO base media files such as .mp4, .m4v and .mov, without external tools.
package mp4meta

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abema/go-mp4"

	"phototools/internal/services"
)

// mp4EpochOffset is the number of seconds between 1904-01-01 and 1970-01-01.
const mp4EpochOffset = 2082844800

// CreationTime returns the mvhd creation time of the file at path in UTC.
// A zero or pre-1970 value is reported as ErrNotFound: cameras that never set
// the clock leave the field at the 1904 epoch.
func CreationTime(path string) (time.Time, error) {
	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("open container: %w", err)
	}
	defer file.Close()

	boxes, err := mp4.ExtractBoxWithPayload(file, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()})
	if err != nil {
		return time.Time{}, services.Wrap(services.ErrInvalidData, "mp4meta", "read boxes", path, err)
	}
	for _, box := range boxes {
		mvhd, ok := box.Payload.(*mp4.Mvhd)
		if !ok {
			continue
		}
		raw := mvhd.GetCreationTime()
		if raw <= mp4EpochOffset {
			return time.Time{}, services.Wrap(services.ErrNotFound, "mp4meta", "creation time", "mvhd creation time unset", nil)
		}
		return time.Unix(int64(raw)-mp4EpochOffset, 0).UTC(), nil
	}
	return time.Time{}, services.Wrap(services.ErrNotFound, "mp4meta", "creation time", "mvhd box not found", nil)
}

// Reader renders the mvhd creation time as a one-line metadata dump in the
// same "creation_time : <RFC 3339>Z" shape ffprobe prints, so both sources
// feed one parser.
type Reader struct{}

// Dump returns the synthetic dump line, or an empty dump when the container
// carries no usable creation time.
func (Reader) Dump(_ context.Context, path string) (string, error) {
	t, err := CreationTime(path)
	if err != nil {
		return "", err
	}
	return FormatDump(t), nil
}

// FormatDump renders t the way ffprobe prints a container creation_time tag.
func FormatDump(t time.Time) string {
	return "    creation_time   : " + t.UTC().Format("2006-01-02T15:04:05.000000Z") + "\n"
}
