package subtitle

import (
	"fmt"
	"strings"

	"github.com/mgpai22/trexport/internal/document"
)

// CanGenerate reports whether paragraphs contain at least one word with
// both timestamps. It never fails; the reason is meant for the user.
func CanGenerate(paragraphs []document.Paragraph) Eligibility {
	if len(paragraphs) == 0 {
		return Eligibility{
			CanGenerate: false,
			Reason:      "The document is empty, there is nothing to export.",
		}
	}

	for _, para := range paragraphs {
		for _, w := range para.Children {
			if w.Timed() {
				return Eligibility{CanGenerate: true}
			}
		}
	}

	return Eligibility{
		CanGenerate: false,
		Reason:      "The document contains no timing information. Subtitles need at least one timestamped word; wait for the transcription to finish or re-align the document.",
	}
}

// Generator turns a document into a subtitle track.
type Generator struct {
	IncludeSpeakerNames bool
	// one cue per timed word instead of one per paragraph
	IncludeWordTimings bool
	// 0 disables wrapping
	MaxLineLength int
	// applied to every cue time, may be nil
	Offset func(float64) float64
}

func (g *Generator) Generate(doc *document.Document) (*Track, error) {
	if e := CanGenerate(doc.Children); !e.CanGenerate {
		return nil, fmt.Errorf("%w: %s", ErrNoTimedContent, e.Reason)
	}

	var cues []Cue
	for _, para := range doc.Children {
		var speaker string
		if g.IncludeSpeakerNames {
			speaker = doc.SpeakerName(para.Speaker)
		}

		if g.IncludeWordTimings {
			cues = append(cues, g.wordCues(para, speaker)...)
			continue
		}

		if cue, ok := g.paragraphCue(para, speaker); ok {
			cues = append(cues, cue)
		}
	}

	for i := range cues {
		cues[i].Index = i + 1
	}

	return &Track{Cues: cues}, nil
}

func (g *Generator) paragraphCue(para document.Paragraph, speaker string) (Cue, bool) {
	start, end, ok := para.Span()
	if !ok {
		return Cue{}, false
	}

	text := strings.TrimSpace(para.Text())
	if text == "" {
		return Cue{}, false
	}

	return Cue{
		StartTime: secondsToDuration(g.offset(start)),
		EndTime:   secondsToDuration(g.offset(end)),
		Lines:     wrapText(labelled(speaker, text), g.MaxLineLength),
	}, true
}

// only the first cue of a paragraph carries the speaker label
func (g *Generator) wordCues(para document.Paragraph, speaker string) []Cue {
	var cues []Cue
	for _, w := range para.Children {
		if !w.Timed() {
			continue
		}
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}

		label := ""
		if len(cues) == 0 {
			label = speaker
		}

		cues = append(cues, Cue{
			StartTime: secondsToDuration(g.offset(*w.Start)),
			EndTime:   secondsToDuration(g.offset(*w.End)),
			Lines:     wrapText(labelled(label, text), g.MaxLineLength),
		})
	}
	return cues
}

func (g *Generator) offset(s float64) float64 {
	if g.Offset == nil {
		return s
	}
	return g.Offset(s)
}

func labelled(speaker, text string) string {
	if speaker == "" {
		return text
	}
	return speaker + ": " + text
}
