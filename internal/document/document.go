// Package document holds the read-only transcript snapshot every renderer
// consumes.
//
// A Document is produced once per export from the live, replicated editor
// document and is never written back. Renderers treat it as immutable; code
// that needs shifted timestamps works on a copy obtained from WithOffset.
package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Word is a text fragment. Start and End are seconds from media start and
// are nil for structural tokens such as inserted whitespace.
type Word struct {
	Text  string   `json:"text"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
}

// Timed reports whether both timestamps are present.
func (w Word) Timed() bool {
	return w.Start != nil && w.End != nil
}

// Paragraph is a run of words attributed to one speaker. An empty Speaker
// means the speaker is unknown.
type Paragraph struct {
	Speaker  string `json:"speaker"`
	Children []Word `json:"children"`
}

// Text concatenates the paragraph's words without trimming.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, w := range p.Children {
		sb.WriteString(w.Text)
	}
	return sb.String()
}

// FirstStart is the start of the first word, if that word carries one.
func (p Paragraph) FirstStart() (float64, bool) {
	if len(p.Children) == 0 || p.Children[0].Start == nil {
		return 0, false
	}
	return *p.Children[0].Start, true
}

// Span is the start of the first timed word and the end of the last one.
func (p Paragraph) Span() (start, end float64, ok bool) {
	first, last := -1, -1
	for i, w := range p.Children {
		if !w.Timed() {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return 0, 0, false
	}
	return *p.Children[first].Start, *p.Children[last].End, true
}

type Document struct {
	Children       []Paragraph       `json:"children"`
	SpeakerNames   map[string]string `json:"speaker_names,omitempty"`
	TimecodeOffset string            `json:"timecodeOffset,omitempty"`
}

// SpeakerName resolves a speaker id to its display name. Unknown ids fall
// back to "Speaker <id>", a missing id to "Unknown Speaker".
func (d *Document) SpeakerName(id string) string {
	if id == "" {
		return "Unknown Speaker"
	}
	if name, ok := d.SpeakerNames[id]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return "Speaker " + id
}

// HasTimedWords reports whether any word in the document carries both
// timestamps.
func (d *Document) HasTimedWords() bool {
	for _, p := range d.Children {
		for _, w := range p.Children {
			if w.Timed() {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	out := &Document{
		Children:       make([]Paragraph, len(d.Children)),
		TimecodeOffset: d.TimecodeOffset,
	}
	if d.SpeakerNames != nil {
		out.SpeakerNames = make(map[string]string, len(d.SpeakerNames))
		for k, v := range d.SpeakerNames {
			out.SpeakerNames[k] = v
		}
	}
	for i, p := range d.Children {
		words := make([]Word, len(p.Children))
		for j, w := range p.Children {
			words[j] = Word{
				Text:  w.Text,
				Start: copyFloat(w.Start),
				End:   copyFloat(w.End),
			}
		}
		out.Children[i] = Paragraph{Speaker: p.Speaker, Children: words}
	}
	return out
}

// WithOffset returns a copy whose present timestamps have been passed
// through fn. The receiver is left untouched.
func (d *Document) WithOffset(fn func(float64) float64) *Document {
	out := d.Clone()
	if fn == nil {
		return out
	}
	for i := range out.Children {
		for j := range out.Children[i].Children {
			w := &out.Children[i].Children[j]
			if w.Start != nil {
				*w.Start = fn(*w.Start)
			}
			if w.End != nil {
				*w.End = fn(*w.End)
			}
		}
	}
	return out
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Seconds is a convenience for building words in code and tests.
func Seconds(v float64) *float64 {
	return &v
}

func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

// Load reads a JSON document snapshot from path.
func Load(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return Decode(file)
}

func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}
