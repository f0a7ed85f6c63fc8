// Package marker renders Avid locator files: one timecode and text line per
// paragraph, importable as markers on an Avid timeline.
package marker

import (
	"strings"

	"github.com/mgpai22/trexport/internal/document"
	"github.com/mgpai22/trexport/internal/timecode"
)

const header = "Avid Locator File"

// Render builds the locator file. A paragraph whose first word has no start
// is placed at zero before the offset. An unparsable offset counts as zero;
// only an invalid framerate fails.
func Render(doc *document.Document, framerate int, offsetTimecode string) (string, error) {
	if err := timecode.ValidateFramerate(framerate); err != nil {
		return "", err
	}
	offset := timecode.ResolveOffset(offsetTimecode, framerate)

	lines := make([]string, 0, len(doc.Children))
	for _, para := range doc.Children {
		start, _ := para.FirstStart()

		tc, err := timecode.FromSeconds(offset.Apply(start), framerate)
		if err != nil {
			return "", err
		}
		lines = append(lines, tc+"\t"+para.Text())
	}

	return header + "\n\n" + strings.Join(lines, "\n"), nil
}
