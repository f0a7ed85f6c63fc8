package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// malformed HH:MM:SS:FF string
	ErrFormat = errors.New("invalid timecode format")
	// zero or negative framerate
	ErrInvalidFramerate = errors.New("invalid framerate")
)

// framerates offered for export
var SupportedFramerates = []int{24, 25, 30}

// relative to the frame count; absorbs float error so frame-aligned values
// do not fall one frame short
const frameTolerance = 1e-12

// HH:MM:SS:FF timecode, frames interpreted at a caller supplied framerate
type Timecode struct {
	Hours   int
	Minutes int
	Seconds int
	Frames  int
}

func (tc Timecode) String() string {
	return fmt.Sprintf(
		"%02d:%02d:%02d:%02d",
		tc.Hours, tc.Minutes, tc.Seconds, tc.Frames,
	)
}

// Parse splits s on ':' into four integer fields. Field ranges are not
// checked; frames beyond the framerate simply add to the seconds value.
func Parse(s string) (Timecode, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 4 {
		return Timecode{}, fmt.Errorf(
			"%w: %q has %d fields, want 4",
			ErrFormat,
			s,
			len(parts),
		)
	}

	fields := make([]int, 4)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Timecode{}, fmt.Errorf(
				"%w: field %d of %q is not numeric",
				ErrFormat,
				i+1,
				s,
			)
		}
		fields[i] = n
	}

	return Timecode{
		Hours:   fields[0],
		Minutes: fields[1],
		Seconds: fields[2],
		Frames:  fields[3],
	}, nil
}

// ValidateFramerate rejects zero and negative framerates.
func ValidateFramerate(framerate int) error {
	if framerate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFramerate, framerate)
	}
	return nil
}

// ToSeconds converts tc to elapsed seconds at the given framerate.
func ToSeconds(tc Timecode, framerate int) (float64, error) {
	if err := ValidateFramerate(framerate); err != nil {
		return 0, err
	}
	return float64(tc.Hours*3600+tc.Minutes*60+tc.Seconds) +
		float64(tc.Frames)/float64(framerate), nil
}

// FromSeconds truncates seconds onto the frame grid and formats the result
// as HH:MM:SS:FF. Negative input is treated as zero.
func FromSeconds(seconds float64, framerate int) (string, error) {
	tc, err := Split(seconds, framerate)
	if err != nil {
		return "", err
	}
	return tc.String(), nil
}

// Split is FromSeconds without the formatting step.
func Split(seconds float64, framerate int) (Timecode, error) {
	if err := ValidateFramerate(framerate); err != nil {
		return Timecode{}, err
	}
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	exact := seconds * float64(framerate)
	totalFrames := int64(math.Floor(exact + exact*frameTolerance))
	fps := int64(framerate)
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps

	return Timecode{
		Hours:   int(totalSeconds / 3600),
		Minutes: int((totalSeconds % 3600) / 60),
		Seconds: int(totalSeconds % 60),
		Frames:  int(frames),
	}, nil
}

// FormatClock renders seconds as HH:MM:SS, dropping the fractional part.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf(
		"%02d:%02d:%02d",
		total/3600,
		(total%3600)/60,
		total%60,
	)
}

// IsSupportedFramerate reports whether fps is one of SupportedFramerates.
func IsSupportedFramerate(fps int) bool {
	for _, f := range SupportedFramerates {
		if f == fps {
			return true
		}
	}
	return false
}
