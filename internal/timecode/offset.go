package timecode

import (
	"strings"
)

// outcome of resolving a configured offset string
type OffsetStatus int

const (
	// no offset configured
	OffsetNone OffsetStatus = iota
	// offset parsed and in effect
	OffsetApplied
	// offset configured but unusable, zero is used instead
	OffsetInvalid
)

func (s OffsetStatus) String() string {
	switch s {
	case OffsetNone:
		return "none"
	case OffsetApplied:
		return "applied"
	case OffsetInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Offset is a resolved timecode offset. Seconds is always safe to add; when
// Status is OffsetInvalid it is zero and Err explains why.
type Offset struct {
	Raw       string
	Framerate int
	Seconds   float64
	Status    OffsetStatus
	Err       error
}

// ResolveOffset interprets raw at framerate. Only an empty string reports
// OffsetNone; an explicit "00:00:00:00" reports OffsetApplied.
func ResolveOffset(raw string, framerate int) Offset {
	off := Offset{Raw: raw, Framerate: framerate}
	if strings.TrimSpace(raw) == "" {
		off.Status = OffsetNone
		return off
	}

	tc, err := Parse(raw)
	if err != nil {
		off.Status = OffsetInvalid
		off.Err = err
		return off
	}

	seconds, err := ToSeconds(tc, framerate)
	if err != nil {
		off.Status = OffsetInvalid
		off.Err = err
		return off
	}

	off.Seconds = seconds
	off.Status = OffsetApplied
	return off
}

func (o Offset) Apply(seconds float64) float64 {
	return seconds + o.Seconds
}

// Func adapts the offset to the renderers' offset function parameter.
func (o Offset) Func() func(float64) float64 {
	return o.Apply
}

// ApplyOffset adds offsetTimecode to seconds. An absent or unparsable offset
// is treated as zero; use ResolveOffset to tell those cases apart.
func ApplyOffset(seconds float64, offsetTimecode string, framerate int) float64 {
	return ResolveOffset(offsetTimecode, framerate).Apply(seconds)
}
