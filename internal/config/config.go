package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database   DatabaseConfig
	API        APIConfig
	Completion CompletionConfig
	Cache      CacheConfig
	Scoring    ScoringConfig
	Prompts    PromptsConfig
	Logging    LoggingConfig
}

// DatabaseConfig holds settings for the read-only lead store
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// APIConfig holds API server settings
type APIConfig struct {
	Port string
	Host string
}

// CompletionConfig holds settings for the external completion service
type CompletionConfig struct {
	URL           string
	APIKey        string
	Model         string
	MaxTokens     int
	Temperature   float64
	Timeout       time.Duration
	RetryAttempts int
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ScoringConfig holds the category thresholds of the scoring engine
type ScoringConfig struct {
	HotThreshold  int
	WarmThreshold int
}

// PromptsConfig points at an optional prompt override file
type PromptsConfig struct {
	FilePath string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "crm"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		API: APIConfig{
			Port: getEnv("API_PORT", "8080"),
			Host: getEnv("API_HOST", "0.0.0.0"),
		},
		Completion: CompletionConfig{
			URL:           getEnv("AI_API_URL", "https://api.openai.com/v1/chat/completions"),
			APIKey:        getEnv("AI_API_KEY", ""),
			Model:         getEnv("AI_MODEL", "gpt-4o-mini"),
			MaxTokens:     parseInt(getEnv("AI_MAX_TOKENS", "1500"), 1500),
			Temperature:   parseFloat(getEnv("AI_TEMPERATURE", "0.7"), 0.7),
			Timeout:       time.Duration(parseInt(getEnv("AI_TIMEOUT_SECONDS", "30"), 30)) * time.Second,
			RetryAttempts: parseInt(getEnv("AI_RETRY_ATTEMPTS", "3"), 3),
		},
		Cache: CacheConfig{
			Enabled: parseBool(getEnv("AI_CACHE_ENABLED", "true")),
			TTL:     time.Duration(parseFloat(getEnv("AI_CACHE_TTL_HOURS", "24"), 24) * float64(time.Hour)),
		},
		Scoring: ScoringConfig{
			HotThreshold:  parseInt(getEnv("SCORE_HOT_THRESHOLD", "80"), 80),
			WarmThreshold: parseInt(getEnv("SCORE_WARM_THRESHOLD", "60"), 60),
		},
		Prompts: PromptsConfig{
			FilePath: getEnv("PROMPTS_FILE", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are consistent
func (c *Config) Validate() error {
	if c.Completion.URL == "" {
		return fmt.Errorf("AI_API_URL is required")
	}
	if c.Completion.Model == "" {
		return fmt.Errorf("AI_MODEL is required")
	}
	if c.Completion.MaxTokens <= 0 {
		return fmt.Errorf("AI_MAX_TOKENS must be positive, got %d", c.Completion.MaxTokens)
	}
	if c.Completion.Temperature < 0 || c.Completion.Temperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE must be between 0 and 2, got %g", c.Completion.Temperature)
	}
	if c.Completion.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT_SECONDS must be positive")
	}
	if c.Completion.RetryAttempts < 1 {
		return fmt.Errorf("AI_RETRY_ATTEMPTS must be at least 1, got %d", c.Completion.RetryAttempts)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("AI_CACHE_TTL_HOURS must not be negative")
	}
	if c.Scoring.WarmThreshold < 0 || c.Scoring.HotThreshold > 100 {
		return fmt.Errorf("score thresholds must be within 0-100")
	}
	if c.Scoring.HotThreshold < c.Scoring.WarmThreshold {
		return fmt.Errorf("SCORE_HOT_THRESHOLD (%d) must be >= SCORE_WARM_THRESHOLD (%d)",
			c.Scoring.HotThreshold, c.Scoring.WarmThreshold)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(value string, defaultValue int) int {
	var result int
	_, err := fmt.Sscanf(value, "%d", &result)
	if err != nil {
		return defaultValue
	}
	return result
}

func parseFloat(value string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func parseBool(value string) bool {
	return value == "true" || value == "1" || value == "yes"
}
