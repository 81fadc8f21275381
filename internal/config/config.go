package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Fixed model identifiers for the completion API.
const (
	DefaultChatModel  = "gpt-4o"
	DefaultImageModel = "dall-e-3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// External record store (system of record for sites/content/prompts)
	Airtable AirtableConfig

	// Generative text/image API
	OpenAI OpenAIConfig

	// Workflow-automation webhook performing the SEO analysis
	Webhook WebhookConfig

	// Image upload handling
	Upload UploadConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// AirtableConfig holds record-store connection settings. When APIKey or
// BaseID is empty the application runs against the in-memory fallback store.
type AirtableConfig struct {
	APIKey         string
	BaseID         string
	SitesTable     string
	ContentTable   string
	PromptsTable   string
	RequestTimeout time.Duration
}

// Enabled reports whether the external record store is configured.
func (c *AirtableConfig) Enabled() bool {
	return c.APIKey != "" && c.BaseID != ""
}

// OpenAIConfig holds completion/image API settings.
type OpenAIConfig struct {
	APIKey         string
	Endpoint       string
	ChatModel      string
	ImageModel     string
	RequestTimeout time.Duration
}

// WebhookConfig holds the workflow-automation endpoint settings.
type WebhookConfig struct {
	URL            string
	RequestTimeout time.Duration
}

// UploadConfig holds image upload settings
type UploadConfig struct {
	Dir           string
	MaxUploadSize int64 // in bytes
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Airtable: AirtableConfig{
			APIKey:         getEnv("AIRTABLE_API_KEY", ""),
			BaseID:         getEnv("AIRTABLE_BASE_ID", ""),
			SitesTable:     getEnv("AIRTABLE_SITES_TABLE", "Sites"),
			ContentTable:   getEnv("AIRTABLE_CONTENT_TABLE", "Contenus"),
			PromptsTable:   getEnv("AIRTABLE_PROMPTS_TABLE", "Prompts"),
			RequestTimeout: getDurationEnv("AIRTABLE_TIMEOUT", 15*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Endpoint:       getEnv("OPENAI_ENDPOINT", "https://api.openai.com"),
			ChatModel:      getEnv("OPENAI_CHAT_MODEL", DefaultChatModel),
			ImageModel:     getEnv("OPENAI_IMAGE_MODEL", DefaultImageModel),
			RequestTimeout: getDurationEnv("OPENAI_TIMEOUT", 30*time.Second),
		},
		Webhook: WebhookConfig{
			URL:            getEnv("SEO_WEBHOOK_URL", ""),
			RequestTimeout: getDurationEnv("SEO_WEBHOOK_TIMEOUT", 30*time.Second),
		},
		Upload: UploadConfig{
			Dir:           getEnv("UPLOAD_DIR", "./data/uploads"),
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Airtable.APIKey != "" && c.Airtable.BaseID == "" {
		return fmt.Errorf("AIRTABLE_BASE_ID is required when AIRTABLE_API_KEY is set")
	}
	if c.Upload.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
