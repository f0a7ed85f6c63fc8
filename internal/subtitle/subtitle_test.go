package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mgpai22/trexport/internal/document"
)

var sec = document.Seconds

func sampleDoc() *document.Document {
	return &document.Document{
		SpeakerNames: map[string]string{"A": "Alice"},
		Children: []document.Paragraph{
			{Speaker: "A", Children: []document.Word{
				{Text: "Hi ", Start: sec(0), End: sec(0.5)},
				{Text: "there", Start: sec(0.5), End: sec(1.0)},
			}},
			{Speaker: "B", Children: []document.Word{
				{Text: " "},
				{Text: "Hello", Start: sec(1.2), End: sec(1.6)},
				{Text: "."},
			}},
		},
	}
}

func TestCanGenerate(t *testing.T) {
	if e := CanGenerate(sampleDoc().Children); !e.CanGenerate {
		t.Errorf("expected timed document to be exportable, reason %q", e.Reason)
	}

	untimed := []document.Paragraph{
		{Speaker: "A", Children: []document.Word{{Text: "no"}, {Text: " times"}}},
		{Speaker: "B", Children: []document.Word{{Text: "half", Start: sec(1)}}},
	}
	e := CanGenerate(untimed)
	if e.CanGenerate {
		t.Error("expected untimed document to be rejected")
	}
	if e.Reason == "" {
		t.Error("expected a reason for rejection")
	}

	if e := CanGenerate(nil); e.CanGenerate || e.Reason == "" {
		t.Errorf("expected empty document to be rejected with a reason, got %+v", e)
	}
}

func TestGenerateParagraphCues(t *testing.T) {
	g := &Generator{}
	track, err := g.Generate(sampleDoc())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(track.Cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(track.Cues))
	}

	first := track.Cues[0]
	if first.StartTime != 0 || first.EndTime != time.Second {
		t.Errorf("cue 0: expected 0s-1s, got %v-%v", first.StartTime, first.EndTime)
	}
	if got := strings.Join(first.Lines, "\n"); got != "Hi there" {
		t.Errorf("cue 0: expected 'Hi there', got %q", got)
	}

	second := track.Cues[1]
	if second.StartTime != 1200*time.Millisecond || second.EndTime != 1600*time.Millisecond {
		t.Errorf("cue 1: expected 1.2s-1.6s, got %v-%v", second.StartTime, second.EndTime)
	}
	if got := strings.Join(second.Lines, "\n"); got != "Hello." {
		t.Errorf("cue 1: expected 'Hello.', got %q", got)
	}
	if second.Index != 2 {
		t.Errorf("cue 1: expected index 2, got %d", second.Index)
	}
}

func TestGenerateSpeakerNames(t *testing.T) {
	g := &Generator{IncludeSpeakerNames: true}
	track, err := g.Generate(sampleDoc())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if got := track.Cues[0].Lines[0]; got != "Alice: Hi there" {
		t.Errorf("expected 'Alice: Hi there', got %q", got)
	}
	if got := track.Cues[1].Lines[0]; got != "Speaker B: Hello." {
		t.Errorf("expected 'Speaker B: Hello.', got %q", got)
	}
}

func TestGenerateWordCues(t *testing.T) {
	g := &Generator{IncludeWordTimings: true, IncludeSpeakerNames: true}
	track, err := g.Generate(sampleDoc())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := []string{"Alice: Hi", "there", "Speaker B: Hello"}
	if len(track.Cues) != len(want) {
		t.Fatalf("expected %d cues, got %d", len(want), len(track.Cues))
	}
	for i, w := range want {
		if got := strings.Join(track.Cues[i].Lines, "\n"); got != w {
			t.Errorf("cue %d: expected %q, got %q", i, w, got)
		}
	}
	if track.Cues[1].StartTime != 500*time.Millisecond {
		t.Errorf("cue 1: expected start 500ms, got %v", track.Cues[1].StartTime)
	}
}

func TestGenerateAppliesOffset(t *testing.T) {
	g := &Generator{Offset: func(s float64) float64 { return s + 5 }}
	track, err := g.Generate(sampleDoc())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if track.Cues[0].StartTime != 5*time.Second {
		t.Errorf("expected start 5s, got %v", track.Cues[0].StartTime)
	}
	if track.Cues[1].EndTime != 6600*time.Millisecond {
		t.Errorf("expected end 6.6s, got %v", track.Cues[1].EndTime)
	}
}

func TestGenerateRejectsUntimedDocument(t *testing.T) {
	doc := &document.Document{Children: []document.Paragraph{
		{Children: []document.Word{{Text: "nothing timed"}}},
	}}
	_, err := (&Generator{}).Generate(doc)
	if !errors.Is(err, ErrNoTimedContent) {
		t.Errorf("expected ErrNoTimedContent, got %v", err)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		text string
		max  int
		want []string
	}{
		{"one two three", 10, []string{"one two", "three"}},
		{"one two three", 0, []string{"one two three"}},
		{"one two three", 13, []string{"one two three"}},
		{"a supercalifragilistic word", 10, []string{"a", "supercalifragilistic", "word"}},
		{"äöü äöü äöü", 7, []string{"äöü äöü", "äöü"}},
		{"Cafe\u0301  ok", 0, []string{"Cafe\u0301  ok"}},
		{"Cafe\u0301 ok", 7, []string{"Cafe\u0301 ok"}},
		{"Cafe\u0301 ok", 6, []string{"Cafe\u0301", "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := wrapText(tt.text, tt.max)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("wrapText(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
		})
	}
}

func TestGenerateKeepsTextBytes(t *testing.T) {
	// decomposed e + combining acute accent
	text := "Cafe\u0301  ok"
	doc := &document.Document{Children: []document.Paragraph{
		{Speaker: "A", Children: []document.Word{
			{Text: text, Start: sec(0), End: sec(1)},
		}},
	}}

	for _, g := range []*Generator{{}, {IncludeWordTimings: true}} {
		track, err := g.Generate(doc)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		vtt, err := track.String(FormatVTT)
		if err != nil {
			t.Fatalf("String failed: %v", err)
		}
		if !strings.Contains(vtt, text) {
			t.Errorf("word timings %v: cue text altered: %q", g.IncludeWordTimings, vtt)
		}
	}
}

func TestWrapNeverExceedsLimit(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog and keeps running far away"
	for limit := 5; limit <= 30; limit++ {
		lines := wrapText(text, limit)
		if strings.Join(lines, " ") != text {
			t.Errorf("limit %d: words lost or split: %q", limit, lines)
		}
		for _, line := range lines {
			if utf8.RuneCountInString(line) > limit {
				t.Errorf("limit %d: line %q too long", limit, line)
			}
		}
	}
}

func TestGenerateWrapsParagraphs(t *testing.T) {
	doc := &document.Document{Children: []document.Paragraph{
		{Speaker: "A", Children: []document.Word{
			{Text: "one ", Start: sec(0), End: sec(1)},
			{Text: "two ", Start: sec(1), End: sec(2)},
			{Text: "three", Start: sec(2), End: sec(3)},
		}},
	}}

	track, err := (&Generator{MaxLineLength: 10}).Generate(doc)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, line := range track.Cues[0].Lines {
		if len(line) > 10 {
			t.Errorf("line %q exceeds 10 characters", line)
		}
	}
}

func TestVTTRender(t *testing.T) {
	track := &Track{Cues: []Cue{
		{Index: 1, StartTime: 0, EndTime: 1500 * time.Millisecond, Lines: []string{"Hello"}},
		{Index: 2, StartTime: time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond, EndTime: time.Hour + 2*time.Minute + 5*time.Second, Lines: []string{"two", "lines"}},
	}}

	got, err := track.String(FormatVTT)
	if err != nil {
		t.Fatalf("String failed: %v", err)
	}

	want := "WEBVTT\n\n" +
		"1\n00:00:00.000 --> 00:00:01.500\nHello\n\n" +
		"2\n01:02:03.004 --> 01:02:05.000\ntwo\nlines\n\n"
	if got != want {
		t.Errorf("VTT output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestSRTRender(t *testing.T) {
	track := &Track{Cues: []Cue{
		{Index: 7, StartTime: 250 * time.Millisecond, EndTime: 1500 * time.Millisecond, Lines: []string{"Hello"}},
	}}

	got, err := track.String(FormatSRT)
	if err != nil {
		t.Fatalf("String failed: %v", err)
	}

	want := "7\n00:00:00,250 --> 00:00:01,500\nHello\n\n"
	if got != want {
		t.Errorf("SRT output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestWriterWritesFile(t *testing.T) {
	track := &Track{Cues: []Cue{{Index: 1, EndTime: time.Second, Lines: []string{"x"}}}}

	tests := []struct {
		name   string
		prefix string
	}{
		{"out.vtt", "WEBVTT\n\n1\n"},
		{"OUT.SRT", "1\n00:00:00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", tt.name)

			format, ok := GetFormatFromExtension(path)
			if !ok {
				t.Fatalf("expected %s to map to a subtitle format", tt.name)
			}
			writer, err := NewWriter(format)
			if err != nil {
				t.Fatalf("NewWriter failed: %v", err)
			}
			if err := writer.Write(track, path); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read output: %v", err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, data)
			}
		})
	}

	if _, ok := GetFormatFromExtension("notes.txt"); ok {
		t.Error("expected .txt not to map to a subtitle format")
	}
}

func TestFormatHelpers(t *testing.T) {
	if _, err := NewWriter(Format("ass")); err == nil {
		t.Error("expected error for unsupported format")
	}
	if f, err := ParseFormat("WebVTT"); err != nil || f != FormatVTT {
		t.Errorf("ParseFormat(WebVTT) = %v, %v", f, err)
	}
	if _, err := ParseFormat("ass"); err == nil {
		t.Error("expected ParseFormat to reject ass")
	}
	if GetExtensionForFormat(FormatSRT) != ".srt" || GetExtensionForFormat(FormatVTT) != ".vtt" {
		t.Error("unexpected extension mapping")
	}
	if MimeType(FormatVTT) != "text/vtt" || MimeType(FormatSRT) != "text/srt" {
		t.Error("unexpected MIME mapping")
	}
}

func TestSecondsToDuration(t *testing.T) {
	if got := secondsToDuration(1.2); got != 1200*time.Millisecond {
		t.Errorf("expected 1.2s, got %v", got)
	}
	if got := secondsToDuration(-4); got != 0 {
		t.Errorf("expected negative input to clamp to 0, got %v", got)
	}
	if got := secondsToDuration(0.0016); got != 2*time.Millisecond {
		t.Errorf("expected rounding to 2ms, got %v", got)
	}
}
