package manuallisting

import (
	"fmt"
	"time"

	"kalastra-backend/internal/common/config"
)

const PipelineName = "manual-listing"

type Config struct {
	Enabled           bool          `mapstructure:"enabled"`
	PreferAIContent   bool          `mapstructure:"prefer_ai_content"`
	EnrichmentTimeout time.Duration `mapstructure:"enrichment_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:           true,
		PreferAIContent:   false,
		EnrichmentTimeout: 20 * time.Second,
	}
}

// FromAppConfig derives the pipeline config from the application config.
func FromAppConfig(app *config.Config) *Config {
	src := app.Pipelines.ManualListing
	return &Config{
		Enabled:           src.Enabled,
		PreferAIContent:   src.PreferAIContent,
		EnrichmentTimeout: time.Duration(src.EnrichmentTimeout) * time.Millisecond,
	}
}

func (c *Config) Validate() error {
	if c.EnrichmentTimeout <= 0 {
		return fmt.Errorf("enrichment_timeout must be positive")
	}
	return nil
}
