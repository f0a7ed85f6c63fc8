package cli

import (
	"fmt"
	"strconv"

	"github.com/mgpai22/trexport/internal/config"
	"github.com/mgpai22/trexport/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	configFile string
	logger     *logging.Logger
	settings   config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "trexport",
	Short: "Export edited transcripts to text, subtitles and markers",
	Long: `trexport turns a transcript document (JSON, as saved by the editor) into
plain text, WebVTT or SRT subtitles, Avid locator markers or a re-importable
archive, and can push WebVTT transcripts to a Podlove Publisher episode.

Settings are read from an optional TOML file (--config), then TREXPORT_*
environment variables, then command-line flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		s, err := loadSettings(cmd.Flags())
		if err != nil {
			return err
		}
		settings = s
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configFile, "config", "c", "", "Config file (TOML)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path (- for stdout)")
	rootCmd.PersistentFlags().
		IntP("framerate", "r", 25, "Framerate used for timecodes (24, 25 or 30)")
	rootCmd.PersistentFlags().
		String("offset", "", "Timecode offset HH:MM:SS:FF, overrides the document's offset")
	rootCmd.PersistentFlags().
		Bool("strict-offset", false, "Fail instead of ignoring an invalid timecode offset")
}

// flags that override a config key of the same meaning
var flagKeys = map[string]string{
	"framerate":       "export.framerate",
	"strict-offset":   "export.strict_offset",
	"format":          "export.subtitle_format",
	"word-timings":    "export.include_word_timings",
	"max-line-length": "export.max_line_length",
	"url":             "podlove.base_url",
	"user":            "podlove.user",
	"password":        "podlove.password",
	"episode":         "podlove.episode_id",
	"original":        "archive.include_original",
}

// boolean flags that switch a config key off
var negatedFlagKeys = map[string]string{
	"no-speaker-names": "export.include_speaker_names",
	"no-timestamps":    "export.include_timestamps",
}

func loadSettings(flags *pflag.FlagSet) (config.Settings, error) {
	cfg := config.NewConfiguration()
	if configFile != "" {
		var err error
		cfg, err = config.NewConfigurationFromFile(configFile)
		if err != nil {
			return config.Settings{}, err
		}
	}

	if err := applyFlagOverrides(flags, cfg); err != nil {
		return config.Settings{}, err
	}
	return cfg.Settings()
}

// applyFlagOverrides copies explicitly set flags into cfg.
func applyFlagOverrides(flags *pflag.FlagSet, cfg *config.Configuration) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			cfg.Set(key, f.Value.String())
			return
		}
		if key, ok := negatedFlagKeys[f.Name]; ok {
			v, perr := strconv.ParseBool(f.Value.String())
			if perr != nil {
				err = fmt.Errorf("invalid value for --%s: %w", f.Name, perr)
				return
			}
			cfg.Set(key, !v)
		}
	})
	return err
}
