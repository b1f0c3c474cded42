package ailisting

import (
	"fmt"
	"time"

	"kalastra-backend/internal/common/config"
)

const PipelineName = "ai-listing"

type Config struct {
	Enabled              bool          `mapstructure:"enabled"`
	QuestionCount        int           `mapstructure:"question_count"`
	MaxImages            int           `mapstructure:"max_images"`
	MaxUploadBytes       int64         `mapstructure:"max_upload_bytes"`
	TranscriptionTimeout time.Duration `mapstructure:"transcription_timeout"`
	EnrichmentTimeout    time.Duration `mapstructure:"enrichment_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:              true,
		QuestionCount:        8,
		MaxImages:            5,
		MaxUploadBytes:       32 << 20,
		TranscriptionTimeout: 15 * time.Second,
		EnrichmentTimeout:    20 * time.Second,
	}
}

// FromAppConfig derives the pipeline config from the application config.
func FromAppConfig(app *config.Config) *Config {
	src := app.Pipelines.AIListing
	return &Config{
		Enabled:              src.Enabled,
		QuestionCount:        src.QuestionCount,
		MaxImages:            src.MaxImages,
		MaxUploadBytes:       src.MaxUploadBytes,
		TranscriptionTimeout: time.Duration(src.TranscriptionTimeout) * time.Millisecond,
		EnrichmentTimeout:    time.Duration(src.EnrichmentTimeout) * time.Millisecond,
	}
}

func (c *Config) Validate() error {
	if c.QuestionCount <= 0 {
		return fmt.Errorf("question_count must be positive")
	}
	if c.MaxImages < 0 {
		return fmt.Errorf("max_images must not be negative")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	if c.TranscriptionTimeout <= 0 {
		return fmt.Errorf("transcription_timeout must be positive")
	}
	if c.EnrichmentTimeout <= 0 {
		return fmt.Errorf("enrichment_timeout must be positive")
	}
	return nil
}
