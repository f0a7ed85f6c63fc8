package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mgpai22/trexport/internal/document"
	"github.com/mgpai22/trexport/internal/subtitle"
	"github.com/mgpai22/trexport/internal/timecode"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [document.json]",
	Short: "Summarize a transcript document",
	Long: `Print paragraph, word and speaker counts, the timed span as timecodes at
--framerate (offset included) and whether subtitles can be exported.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	doc, err := document.Load(args[0])
	if err != nil {
		return err
	}

	raw := doc.TimecodeOffset
	if cmd.Flags().Changed("offset") {
		raw, _ = cmd.Flags().GetString("offset")
	}
	offset := timecode.ResolveOffset(raw, settings.Export.Framerate)

	rows, err := infoRows(doc, settings.Export.Framerate, offset)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Property", "Value"}, rows))
	return nil
}

func infoRows(doc *document.Document, framerate int, offset timecode.Offset) ([][]string, error) {
	stats := doc.Stats()

	rows := [][]string{
		{"Paragraphs", strconv.Itoa(stats.Paragraphs)},
		{"Words", strconv.Itoa(stats.Words)},
		{"Timed words", strconv.Itoa(stats.TimedWords)},
		{"Speakers", speakerList(doc)},
		{"Framerate", strconv.Itoa(framerate)},
		{"Offset", offsetDescription(offset)},
	}

	if stats.TimedWords > 0 {
		start, err := timecode.FromSeconds(offset.Apply(stats.Start), framerate)
		if err != nil {
			return nil, err
		}
		end, err := timecode.FromSeconds(offset.Apply(stats.End), framerate)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{"Start", start}, []string{"End", end})
	}

	eligibility := subtitle.CanGenerate(doc.Children)
	if eligibility.CanGenerate {
		rows = append(rows, []string{"Subtitles", "yes"})
	} else {
		rows = append(rows, []string{"Subtitles", "no: " + eligibility.Reason})
	}
	return rows, nil
}

// display names in order of first appearance
func speakerList(doc *document.Document) string {
	seen := make(map[string]int)
	for _, p := range doc.Children {
		if _, ok := seen[p.Speaker]; !ok {
			seen[p.Speaker] = len(seen)
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return seen[ids[i]] < seen[ids[j]] })

	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = doc.SpeakerName(id)
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func offsetDescription(o timecode.Offset) string {
	switch o.Status {
	case timecode.OffsetApplied:
		return o.Raw
	case timecode.OffsetInvalid:
		return fmt.Sprintf("%s (invalid, ignored)", o.Raw)
	default:
		return "none"
	}
}
