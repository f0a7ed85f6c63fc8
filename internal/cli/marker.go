package cli

import (
	"github.com/mgpai22/trexport/internal/export"
	"github.com/spf13/cobra"
)

var markerCmd = &cobra.Command{
	Use:   "marker [document.json]",
	Short: "Export paragraph starts as an Avid locator file",
	Long: `Export one Avid locator per paragraph. Timecodes use --framerate and
include the timecode offset.

Examples:
  trexport marker episode.json -r 25
  trexport marker episode.json --offset 10:00:00:00 -o markers.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runExport(cmd, args[0], export.Marker{})
		return err
	},
}

func init() {
	rootCmd.AddCommand(markerCmd)
}
