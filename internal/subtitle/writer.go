package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// String serializes the track in the given format.
func (t *Track) String(format Format) (string, error) {
	writer, err := NewWriter(format)
	if err != nil {
		return "", err
	}
	return writer.Render(t), nil
}

func (w *SRTWriter) Render(track *Track) string {
	var sb strings.Builder
	for _, cue := range track.Cues {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", cue.Index))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(cue.StartTime),
			formatSRTTime(cue.EndTime)))

		sb.WriteString(strings.Join(cue.Lines, "\n"))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// writes the track to an SRT file
func (w *SRTWriter) Write(track *Track, path string) error {
	return writeFile(path, w.Render(track))
}

func (w *VTTWriter) Render(track *Track) string {
	var sb strings.Builder

	// VTT header
	sb.WriteString("WEBVTT\n\n")

	for _, cue := range track.Cues {
		// optional cue identifier
		sb.WriteString(fmt.Sprintf("%d\n", cue.Index))

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(cue.StartTime),
			formatVTTTime(cue.EndTime)))

		sb.WriteString(strings.Join(cue.Lines, "\n"))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// writes the track to a VTT file
func (w *VTTWriter) Write(track *Track, path string) error {
	return writeFile(path, w.Render(track))
}

func formatSRTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func formatVTTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

func writeFile(path, content string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension; ok is false for anything but
// .srt and .vtt
func GetFormatFromExtension(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vtt":
		return FormatVTT, true
	case ".srt":
		return FormatSRT, true
	default:
		return "", false
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	default:
		return ".srt"
	}
}

// MIME type used when offering the file for download
func MimeType(format Format) string {
	return "text/" + string(format)
}

// ParseFormat accepts "vtt", "webvtt" and "srt" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "srt":
		return FormatSRT, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use vtt or srt", s)
	}
}
