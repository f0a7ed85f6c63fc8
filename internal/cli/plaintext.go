package cli

import (
	"github.com/mgpai22/trexport/internal/export"
	"github.com/spf13/cobra"
)

var plaintextCmd = &cobra.Command{
	Use:   "plaintext [document.json]",
	Short: "Export the transcript as plain text",
	Long: `Export the transcript as plain text, one block per speaker turn.

Examples:
  trexport plaintext episode.json
  trexport plaintext episode.json --no-timestamps -o -
  trexport plaintext episode.json --offset 01:00:00:00 -r 25`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runExport(cmd, args[0], export.Plaintext{})
		return err
	},
}

func init() {
	rootCmd.AddCommand(plaintextCmd)

	plaintextCmd.Flags().Bool("no-speaker-names", false, "Omit speaker names")
	plaintextCmd.Flags().Bool("no-timestamps", false, "Omit [HH:MM:SS] timestamps")
}
