package cli

import (
	"fmt"
	"net/url"

	"github.com/mgpai22/trexport/internal/export"
	"github.com/mgpai22/trexport/internal/media"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [document.json]",
	Short: "Bundle the transcript and its media into a .transcribee archive",
	Long: `Bundle the document (with the timecode offset applied), one media file and
a manifest into a zip archive that can be imported again.

Media comes from a local file (--media) or one or more URLs (--media-url).
The best available format is chosen (ogg, mp3, m4a, mp4); --original picks
the original upload instead.

Examples:
  trexport archive episode.json --media episode.mp3
  trexport archive episode.json --media-url https://cdn.example.org/e1.ogg
  trexport archive episode.json --media episode.mp4 --media-url https://cdn.example.org/e1.ogg --original`,
	Args: cobra.ExactArgs(1),
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)

	archiveCmd.Flags().String("media", "", "Local media file (treated as the original)")
	archiveCmd.Flags().
		StringArray("media-url", nil, "Remote media URL, may be repeated")
	archiveCmd.Flags().
		Bool("original", false, "Use the original media file instead of the best format")
}

func runArchive(cmd *cobra.Command, args []string) error {
	localPath, _ := cmd.Flags().GetString("media")
	urls, _ := cmd.Flags().GetStringArray("media-url")

	files, err := mediaFiles(localPath, urls)
	if err != nil {
		return err
	}

	res, err := runExport(cmd, args[0], export.Archive{
		Media:          files,
		PreferOriginal: settings.Archive.IncludeOriginal,
	})
	if err != nil {
		return err
	}

	if res.Manifest != nil {
		logger.Infow("Archive manifest",
			"id", res.Manifest.ID,
			"media", res.Manifest.MediaSource,
		)
	}
	return nil
}

// mediaFiles describes the candidate media for an archive. Content types of
// remote files are guessed from the URL path.
func mediaFiles(localPath string, urls []string) ([]media.File, error) {
	var files []media.File
	if localPath != "" {
		f, err := media.LocalFile(localPath)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid media URL %q", raw)
		}
		files = append(files, media.File{
			URL:         raw,
			ContentType: media.ContentTypeForPath(u.Path),
		})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: use --media or --media-url", media.ErrNoMedia)
	}
	return files, nil
}
