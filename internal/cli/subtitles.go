package cli

import (
	"fmt"

	"github.com/mgpai22/trexport/internal/export"
	"github.com/mgpai22/trexport/internal/subtitle"
	"github.com/spf13/cobra"
)

var subtitlesCmd = &cobra.Command{
	Use:   "subtitles [document.json]",
	Short: "Export the transcript as WebVTT or SRT subtitles",
	Long: `Export the transcript as subtitles. By default each paragraph becomes one
cue; --word-timings emits one cue per timed word instead.

The document needs at least one word with start and end times.

Examples:
  trexport subtitles episode.json
  trexport subtitles episode.json -f srt --max-line-length 42
  trexport subtitles episode.json --word-timings --no-speaker-names`,
	Args: cobra.ExactArgs(1),
	RunE: runSubtitles,
}

func init() {
	rootCmd.AddCommand(subtitlesCmd)

	subtitlesCmd.Flags().
		StringP("format", "f", "vtt", "Subtitle format (vtt, srt)")
	subtitlesCmd.Flags().
		Bool("word-timings", false, "One cue per word instead of per paragraph")
	subtitlesCmd.Flags().
		Int("max-line-length", 0, "Wrap cue text at this many characters (0 disables)")
	subtitlesCmd.Flags().Bool("no-speaker-names", false, "Omit speaker name prefixes")
}

func runSubtitles(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	format, err := subtitleFormatFor(
		settings.Export.SubtitleFormat,
		cmd.Flags().Changed("format"),
		outputPath,
	)
	if err != nil {
		return err
	}

	_, err = runExport(cmd, args[0], subtitleExportFormat(format))
	return err
}

// subtitleFormatFor picks the output format. A .vtt or .srt output path
// decides unless --format was given explicitly, in which case they must agree.
func subtitleFormatFor(configured string, explicit bool, outputPath string) (subtitle.Format, error) {
	format, err := subtitle.ParseFormat(configured)
	if err != nil {
		return "", err
	}

	fromPath, ok := subtitle.GetFormatFromExtension(outputPath)
	if !ok || fromPath == format {
		return format, nil
	}
	if explicit {
		return "", fmt.Errorf("--format %s does not match output file %s", format, outputPath)
	}
	return fromPath, nil
}

func subtitleExportFormat(format subtitle.Format) export.Format {
	if format == subtitle.FormatSRT {
		return export.SRT{}
	}
	return export.VTT{}
}
