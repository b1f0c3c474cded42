// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like VENDORS_GEMINI_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored when absent
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the usual locations so the service can run from
// the repo root, a cmd directory, or a test directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in every string value.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)
		if s, ok := val.(string); ok && strings.Contains(s, "${") {
			v.Set(key, os.ExpandEnv(s))
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "kalastra-backend"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 20
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.ProductIndex == "" {
		cfg.Database.Elasticsearch.ProductIndex = "kalastra-products"
	}

	if cfg.Storage.MinIO.ImageBucket == "" {
		cfg.Storage.MinIO.ImageBucket = "kalastra-listing-images"
	}

	if cfg.Vendors.Deepgram.BaseURL == "" {
		cfg.Vendors.Deepgram.BaseURL = "https://api.deepgram.com"
	}
	if cfg.Vendors.Deepgram.Model == "" {
		cfg.Vendors.Deepgram.Model = "nova"
	}
	if cfg.Vendors.Deepgram.Language == "" {
		cfg.Vendors.Deepgram.Language = "en"
	}
	if cfg.Vendors.Deepgram.Timeout == 0 {
		cfg.Vendors.Deepgram.Timeout = 15000
	}
	if cfg.Vendors.Gemini.Model == "" {
		cfg.Vendors.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Vendors.Gemini.Timeout == 0 {
		cfg.Vendors.Gemini.Timeout = 20000
	}

	p := &cfg.Pipelines
	if p.AIListing.QuestionCount == 0 {
		p.AIListing.QuestionCount = 8
	}
	if p.AIListing.MaxImages == 0 {
		p.AIListing.MaxImages = 5
	}
	if p.AIListing.MaxUploadBytes == 0 {
		p.AIListing.MaxUploadBytes = 32 << 20
	}
	if p.AIListing.TranscriptionTimeout == 0 {
		p.AIListing.TranscriptionTimeout = 15000
	}
	if p.AIListing.EnrichmentTimeout == 0 {
		p.AIListing.EnrichmentTimeout = 20000
	}
	if p.ManualListing.EnrichmentTimeout == 0 {
		p.ManualListing.EnrichmentTimeout = 20000
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	if cfg.Pipelines.AIListing.Enabled && cfg.Vendors.Deepgram.APIKey == "" {
		return fmt.Errorf("vendors.deepgram.api_key is required when ai_listing is enabled")
	}
	if (cfg.Pipelines.AIListing.Enabled || cfg.Pipelines.ManualListing.Enabled) &&
		cfg.Vendors.Gemini.APIKey == "" {
		return fmt.Errorf("vendors.gemini.api_key is required when a listing pipeline is enabled")
	}
	if cfg.Pipelines.AIListing.QuestionCount <= 0 {
		return fmt.Errorf("pipelines.ai_listing.question_count must be positive")
	}
	if cfg.Pipelines.AIListing.MaxImages < 0 {
		return fmt.Errorf("pipelines.ai_listing.max_images must not be negative")
	}
	return nil
}
