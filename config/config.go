package config

import (
	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/validation"
)

// Config is the root application configuration.
type Config struct {
	Name          string              `yaml:"name" mapstructure:"name"`
	Logging       logger.Config       `yaml:"logging" mapstructure:"logging"`
	Transcription TranscriptionConfig `yaml:"transcription" mapstructure:"transcription"`
	Diarization   DiarizationConfig   `yaml:"diarization" mapstructure:"diarization"`
	Output        OutputConfig        `yaml:"output" mapstructure:"output"`
}

// TranscriptionConfig configures the transcription backend.
type TranscriptionConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	Model        string `yaml:"model" mapstructure:"model" validate:"required"`
	Language     string `yaml:"language" mapstructure:"language"`
	BeamSize     int    `yaml:"beam_size" mapstructure:"beam_size" validate:"gte=0"`
	VADFilter    bool   `yaml:"vad_filter" mapstructure:"vad_filter"`
	MinSilenceMS int    `yaml:"min_silence_ms" mapstructure:"min_silence_ms" validate:"gte=0"`
}

// DiarizationConfig configures speaker diarization and its backends.
type DiarizationConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	RequestedSpeakers int     `yaml:"requested_speakers" mapstructure:"requested_speakers" validate:"gte=0"`
	WindowSize        float64 `yaml:"window_size" mapstructure:"window_size" validate:"gt=0"`
	WindowStride      float64 `yaml:"window_stride" mapstructure:"window_stride" validate:"gt=0"`
	EmbeddingURL      string  `yaml:"embedding_url" mapstructure:"embedding_url" validate:"required,url"`
	ClusterURL        string  `yaml:"cluster_url" mapstructure:"cluster_url" validate:"required,url"`

	Pyannote PyannoteConfig `yaml:"pyannote" mapstructure:"pyannote"`
}

// PyannoteConfig configures the external turn-diarization pipeline. An
// empty auth token disables the backend.
type PyannoteConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	AuthToken string `yaml:"auth_token" mapstructure:"auth_token"`
}

// OutputConfig configures transcript rendering.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir" validate:"required"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=with_timestamps plain_text"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "scribe"
	}
	c.Logging.ApplyDefaults()

	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = "http://localhost:8387"
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = "base"
	}
	if c.Transcription.BeamSize == 0 {
		c.Transcription.BeamSize = 5
	}
	if c.Transcription.MinSilenceMS == 0 {
		c.Transcription.MinSilenceMS = 100
		c.Transcription.VADFilter = true
	}

	if c.Diarization.WindowSize == 0 {
		c.Diarization.WindowSize = 1.0
	}
	if c.Diarization.WindowStride == 0 {
		c.Diarization.WindowStride = 0.5
	}
	if c.Diarization.EmbeddingURL == "" {
		c.Diarization.EmbeddingURL = "http://localhost:8389"
	}
	if c.Diarization.ClusterURL == "" {
		c.Diarization.ClusterURL = "http://localhost:8390"
	}
	if c.Diarization.Pyannote.BaseURL == "" {
		c.Diarization.Pyannote.BaseURL = "http://localhost:8388"
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Output.Format == "" {
		c.Output.Format = "with_timestamps"
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}

	v := validation.New().
		Custom(c.Diarization.WindowStride <= c.Diarization.WindowSize,
			"diarization.window_stride", "must not exceed window_size")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
