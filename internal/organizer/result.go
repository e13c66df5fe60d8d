package organizer

import (
	"errors"

	"phototools/internal/timestamp"
)

// Action is what Organize did with a file.
type Action string

const (
	ActionCopied             Action = "copied"
	ActionDuplicate          Action = "duplicate"
	ActionSkippedSmall       Action = "skipped_small"
	ActionSkippedUnsupported Action = "skipped_unsupported"
	ActionPlanned            Action = "planned"
)

// Actions lists every action in reporting order.
var Actions = []Action{ActionCopied, ActionDuplicate, ActionPlanned, ActionSkippedSmall, ActionSkippedUnsupported}

// Result describes the outcome for one source file.
type Result struct {
	Source string
	// Target is the copy, the already-present duplicate, or the planned path.
	Target    string
	Action    Action
	Timestamp timestamp.Resolved
	// Backfilled is set when the capture date was written into the copy's EXIF block.
	Backfilled bool
	// ReplacedStale is set when a zero-length file occupying the target was removed.
	ReplacedStale bool
}

// Summary tallies the results of a run.
type Summary struct {
	Files         int
	Counts        map[Action]int
	Failed        int
	Backfilled    int
	ReplacedStale int
}

// Add records one file's outcome. A result with an Action counts under that
// action even when err is set, since backfill failures leave a finished copy.
func (s *Summary) Add(res Result, err error) {
	if s.Counts == nil {
		s.Counts = make(map[Action]int, len(Actions))
	}
	s.Files++
	if res.Action != "" {
		s.Counts[res.Action]++
	}
	if err != nil {
		s.Failed++
	}
	if res.Backfilled {
		s.Backfilled++
	}
	if res.ReplacedStale {
		s.ReplacedStale++
	}
}

// ErrBackfill marks a file that was copied but whose EXIF date could not be written.
var ErrBackfill = errors.New("exif backfill failed")
