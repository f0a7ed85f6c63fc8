package cli

import (
	"fmt"

	"github.com/mgpai22/trexport/internal/config"
	"github.com/mgpai22/trexport/internal/document"
	"github.com/mgpai22/trexport/internal/export"
	"github.com/mgpai22/trexport/internal/podlove"
	"github.com/spf13/cobra"
)

var podloveCmd = &cobra.Command{
	Use:   "podlove [document.json]",
	Short: "Push the transcript as WebVTT to a Podlove Publisher episode",
	Long: `Render the transcript as WebVTT and upload it to an episode on a WordPress
site running Podlove Publisher. Authentication uses a WordPress application
password.

Credentials may also come from the config file ([podlove] section) or the
TREXPORT_PODLOVE_* environment variables.

Examples:
  trexport podlove episode.json --url https://podcast.example.org --user editor --episode 42
  TREXPORT_PODLOVE_PASSWORD=... trexport podlove episode.json --check-only`,
	Args: cobra.ExactArgs(1),
	RunE: runPodlove,
}

func init() {
	rootCmd.AddCommand(podloveCmd)

	podloveCmd.Flags().String("url", "", "WordPress base URL")
	podloveCmd.Flags().String("user", "", "WordPress user name")
	podloveCmd.Flags().
		String("password", "", "WordPress application password (prefer TREXPORT_PODLOVE_PASSWORD)")
	podloveCmd.Flags().Int("episode", 1, "Podlove episode id")
	podloveCmd.Flags().
		Bool("check-only", false, "Only verify that the episode can be reached")
}

func runPodlove(cmd *cobra.Command, args []string) error {
	checkOnly, _ := cmd.Flags().GetBool("check-only")

	format := export.Podlove{
		Credentials: credentials(settings.Podlove),
		CheckOnly:   checkOnly,
	}

	doc, err := document.Load(args[0])
	if err != nil {
		return err
	}

	res, err := newExporter().Run(cmd.Context(), doc, buildRequest(cmd, format))
	if err != nil {
		return fmt.Errorf("podlove export failed: %w", err)
	}

	if res.Pushed {
		fmt.Fprintf(cmd.OutOrStdout(), "Transcript pushed to episode %d\n", format.Credentials.EpisodeID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Episode %d is reachable\n", format.Credentials.EpisodeID)
	}
	return nil
}

func credentials(s config.PodloveSettings) podlove.Credentials {
	return podlove.Credentials{
		BaseURL:   s.BaseURL,
		User:      s.User,
		Password:  s.Password,
		EpisodeID: s.EpisodeID,
	}
}
