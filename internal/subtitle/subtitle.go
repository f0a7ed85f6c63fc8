package subtitle

import (
	"errors"
	"time"
)

// ErrNoTimedContent is returned when a subtitle export is attempted on a
// document without a single timestamped word.
var ErrNoTimedContent = errors.New("document has no timed content")

// represents single subtitle cue
type Cue struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Lines     []string
}

// represents complete subtitle track
type Track struct {
	Cues []Cue
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// interface for writing subtitles
type Writer interface {
	Render(track *Track) string
	Write(track *Track, path string) error
}

// result of checking whether subtitles can be generated
type Eligibility struct {
	CanGenerate bool
	Reason      string
}

func secondsToDuration(s float64) time.Duration {
	if s < 0 {
		return 0
	}
	ms := int64(s*1000 + 0.5)
	return time.Duration(ms) * time.Millisecond
}
