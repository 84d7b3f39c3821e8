package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Analysis  AnalysisConfig
	OCR       OCRConfig
	Compare   CompareConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string   `mapstructure:"port"`
	Environment     string   `mapstructure:"environment"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	MaintenanceMode bool     `mapstructure:"maintenance_mode"`
}

// LLMConfig holds the OpenAI-compatible analysis endpoint configuration
type LLMConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds per-IP rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	Burst int `mapstructure:"burst"`
}

// StorageConfig holds SQLite persistence configuration
type StorageConfig struct {
	SQLitePath   string `mapstructure:"sqlite_path"`
	HistoryLimit int    `mapstructure:"history_limit"`
}

// AnalysisConfig holds enrichment configuration
type AnalysisConfig struct {
	ConfidenceMode string `mapstructure:"confidence_mode"` // "keyword" or "random"
}

// OCRConfig holds label photo text extraction configuration
type OCRConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	Region        string  `mapstructure:"region"`
	MinConfidence float32 `mapstructure:"min_confidence"`
}

// CompareConfig holds compare session configuration
type CompareConfig struct {
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	MaxSessions int           `mapstructure:"max_sessions"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Pick up a local .env before reading the environment
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/foodbuddy/")

	// Environment variable settings: llm.api_key -> FOODBUDDY_LLM_API_KEY
	v.SetEnvPrefix("FOODBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already set in the
// environment win over the file.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "chrome-extension://*"})
	v.SetDefault("server.maintenance_mode", false)

	// LLM defaults (Groq's OpenAI-compatible endpoint)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "openai/gpt-oss-20b")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.requests_per_minute", 30)
	v.SetDefault("llm.max_retries", 3)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.burst", 10)

	// Storage defaults
	v.SetDefault("storage.sqlite_path", "foodbuddy.db")
	v.SetDefault("storage.history_limit", 5)

	// Analysis defaults
	v.SetDefault("analysis.confidence_mode", "keyword")

	// OCR defaults
	v.SetDefault("ocr.enabled", false)
	v.SetDefault("ocr.region", "")
	v.SetDefault("ocr.min_confidence", 80)

	// Compare defaults
	v.SetDefault("compare.session_ttl", "30m")
	v.SetDefault("compare.max_sessions", 1000)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required (set FOODBUDDY_LLM_API_KEY)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Analysis.ConfidenceMode != "keyword" && config.Analysis.ConfidenceMode != "random" {
		return fmt.Errorf("confidence mode must be 'keyword' or 'random', got: %s", config.Analysis.ConfidenceMode)
	}

	if config.Storage.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive, got: %d", config.Storage.HistoryLimit)
	}

	if config.OCR.Enabled && config.OCR.Region == "" {
		return fmt.Errorf("OCR region is required when OCR is enabled (set FOODBUDDY_OCR_REGION)")
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
