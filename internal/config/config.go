package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/mgpai22/trexport/internal/subtitle"
	"github.com/mgpai22/trexport/internal/timecode"
)

const envPrefix = "TREXPORT"

// Configuration provides type-safe access to export settings
type Configuration struct {
	viper *viper.Viper
}

// typed view of every setting
type Settings struct {
	Export  ExportSettings  `toml:"export"`
	Podlove PodloveSettings `toml:"podlove"`
	Archive ArchiveSettings `toml:"archive"`
}

type ExportSettings struct {
	Framerate           int    `toml:"framerate"`
	IncludeSpeakerNames bool   `toml:"include_speaker_names"`
	IncludeTimestamps   bool   `toml:"include_timestamps"`
	IncludeWordTimings  bool   `toml:"include_word_timings"`
	MaxLineLength       int    `toml:"max_line_length"`
	SubtitleFormat      string `toml:"subtitle_format"`
	StrictOffset        bool   `toml:"strict_offset"`
}

type PodloveSettings struct {
	BaseURL   string        `toml:"base_url"`
	User      string        `toml:"user"`
	Password  string        `toml:"password"`
	EpisodeID int           `toml:"episode_id"`
	Timeout   time.Duration `toml:"-"`
}

type ArchiveSettings struct {
	IncludeOriginal bool          `toml:"include_original"`
	FetchTimeout    time.Duration `toml:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("export.framerate", 25)
	v.SetDefault("export.include_speaker_names", true)
	v.SetDefault("export.include_timestamps", true)
	v.SetDefault("export.include_word_timings", false)
	v.SetDefault("export.max_line_length", 0)
	v.SetDefault("export.subtitle_format", string(subtitle.FormatVTT))
	v.SetDefault("export.strict_offset", false)

	v.SetDefault("podlove.base_url", "")
	v.SetDefault("podlove.user", "")
	v.SetDefault("podlove.password", "")
	v.SetDefault("podlove.episode_id", 1)
	v.SetDefault("podlove.timeout", 30*time.Second)

	v.SetDefault("archive.include_original", false)
	v.SetDefault("archive.fetch_timeout", 5*time.Minute)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// TREXPORT_PODLOVE_PASSWORD overrides podlove.password, and so on
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewConfiguration creates a Configuration from defaults and environment
func NewConfiguration() *Configuration {
	return &Configuration{viper: newViper()}
}

// NewConfigurationFromFile additionally reads a TOML, YAML or JSON file
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configFile)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	return &Configuration{viper: v}, nil
}

// Set overrides a key, used for command-line flags
func (c *Configuration) Set(key string, value any) {
	c.viper.Set(key, value)
}

// Settings returns the validated typed settings
func (c *Configuration) Settings() (Settings, error) {
	v := c.viper
	s := Settings{
		Export: ExportSettings{
			Framerate:           v.GetInt("export.framerate"),
			IncludeSpeakerNames: v.GetBool("export.include_speaker_names"),
			IncludeTimestamps:   v.GetBool("export.include_timestamps"),
			IncludeWordTimings:  v.GetBool("export.include_word_timings"),
			MaxLineLength:       v.GetInt("export.max_line_length"),
			SubtitleFormat:      v.GetString("export.subtitle_format"),
			StrictOffset:        v.GetBool("export.strict_offset"),
		},
		Podlove: PodloveSettings{
			BaseURL:   v.GetString("podlove.base_url"),
			User:      v.GetString("podlove.user"),
			Password:  v.GetString("podlove.password"),
			EpisodeID: v.GetInt("podlove.episode_id"),
			Timeout:   v.GetDuration("podlove.timeout"),
		},
		Archive: ArchiveSettings{
			IncludeOriginal: v.GetBool("archive.include_original"),
			FetchTimeout:    v.GetDuration("archive.fetch_timeout"),
		},
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	if !timecode.IsSupportedFramerate(s.Export.Framerate) {
		return fmt.Errorf(
			"export.framerate %d is not supported: use one of %v",
			s.Export.Framerate,
			timecode.SupportedFramerates,
		)
	}
	if s.Export.MaxLineLength < 0 {
		return fmt.Errorf("export.max_line_length must not be negative, got %d", s.Export.MaxLineLength)
	}
	if _, err := subtitle.ParseFormat(s.Export.SubtitleFormat); err != nil {
		return fmt.Errorf("export.subtitle_format: %w", err)
	}
	if s.Podlove.Timeout <= 0 {
		return fmt.Errorf("podlove.timeout must be positive")
	}
	if s.Archive.FetchTimeout <= 0 {
		return fmt.Errorf("archive.fetch_timeout must be positive")
	}
	return nil
}

// dump form with durations as strings and the password masked
type dumpSettings struct {
	Export  ExportSettings `toml:"export"`
	Podlove struct {
		BaseURL   string `toml:"base_url"`
		User      string `toml:"user"`
		Password  string `toml:"password"`
		EpisodeID int    `toml:"episode_id"`
		Timeout   string `toml:"timeout"`
	} `toml:"podlove"`
	Archive struct {
		IncludeOriginal bool   `toml:"include_original"`
		FetchTimeout    string `toml:"fetch_timeout"`
	} `toml:"archive"`
}

// Dump renders the settings as TOML
func (s Settings) Dump() (string, error) {
	var d dumpSettings
	d.Export = s.Export
	d.Podlove.BaseURL = s.Podlove.BaseURL
	d.Podlove.User = s.Podlove.User
	if s.Podlove.Password != "" {
		d.Podlove.Password = "********"
	}
	d.Podlove.EpisodeID = s.Podlove.EpisodeID
	d.Podlove.Timeout = s.Podlove.Timeout.String()
	d.Archive.IncludeOriginal = s.Archive.IncludeOriginal
	d.Archive.FetchTimeout = s.Archive.FetchTimeout.String()

	out, err := toml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return string(out), nil
}
