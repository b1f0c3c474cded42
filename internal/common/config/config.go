// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Vendors       VendorConfig       `mapstructure:"vendors"`
	Pipelines     PipelinesConfig    `mapstructure:"pipelines"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // seconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses    []string `mapstructure:"addresses"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	ProductIndex string   `mapstructure:"product_index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type StorageConfig struct {
	MinIO MinIOConfig `mapstructure:"minio"`
}

type MinIOConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	Secure      bool   `mapstructure:"secure"`
	ImageBucket string `mapstructure:"image_bucket"`
}

// --- External Vendor Config ---

// VendorConfig holds settings for the two external AI services the pipelines
// depend on. Both are narrow-contract collaborators: bytes in / text out for
// transcription, text in / JSON out for enrichment.
type VendorConfig struct {
	Deepgram DeepgramConfig `mapstructure:"deepgram"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
}

type DeepgramConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

type GeminiConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Timeout  int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds, 0 disables caching
}

// --- Pipeline Config ---

type PipelinesConfig struct {
	AIListing     AIListingConfig     `mapstructure:"ai_listing"`
	ManualListing ManualListingConfig `mapstructure:"manual_listing"`
}

type AIListingConfig struct {
	Enabled              bool  `mapstructure:"enabled"`
	QuestionCount        int   `mapstructure:"question_count"`
	MaxImages            int   `mapstructure:"max_images"`
	MaxUploadBytes       int64 `mapstructure:"max_upload_bytes"`
	TranscriptionTimeout int   `mapstructure:"transcription_timeout"` // milliseconds, per clip
	EnrichmentTimeout    int   `mapstructure:"enrichment_timeout"`    // milliseconds
}

type ManualListingConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	PreferAIContent   bool `mapstructure:"prefer_ai_content"`
	EnrichmentTimeout int  `mapstructure:"enrichment_timeout"` // milliseconds
}

// --- Notifications ---

// NotificationConfig holds settings for seller notifications sent after a
// listing is published.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
