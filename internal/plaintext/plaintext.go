package plaintext

import (
	"strings"

	"github.com/mgpai22/trexport/internal/document"
	"github.com/mgpai22/trexport/internal/timecode"
)

// rendering options
type Options struct {
	IncludeSpeakerNames bool
	IncludeTimestamps   bool
	// applied to timestamps before formatting, may be nil
	Offset func(float64) float64
}

// Render lays the document out as plain text, grouping consecutive
// paragraphs of the same speaker under one header.
func Render(doc *document.Document, opts Options) string {
	var blocks []string
	var lastSpeaker string
	seen := false

	for _, para := range doc.Children {
		speakerChanged := !seen || lastSpeaker != para.Speaker

		var sb strings.Builder
		if seen &&
			((opts.IncludeSpeakerNames && speakerChanged) ||
				(opts.IncludeTimestamps && !opts.IncludeSpeakerNames)) {
			sb.WriteString("\n")
		}

		if opts.IncludeTimestamps && (speakerChanged || !opts.IncludeSpeakerNames) {
			// paragraphs without a leading timestamp get no timestamp line
			if start, ok := para.FirstStart(); ok {
				if opts.Offset != nil {
					start = opts.Offset(start)
				}
				sb.WriteString("[" + timecode.FormatClock(start) + "]\n")
			}
		}

		if opts.IncludeSpeakerNames && speakerChanged {
			sb.WriteString(doc.SpeakerName(para.Speaker) + ":\n")
		}

		sb.WriteString(strings.TrimSpace(para.Text()))

		lastSpeaker = para.Speaker
		seen = true

		if sb.Len() > 0 {
			blocks = append(blocks, sb.String())
		}
	}

	return strings.Join(blocks, "\n")
}
