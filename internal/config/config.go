package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the configuration for the recommender binaries
type Config struct {
	Artifact ArtifactConfig `koanf:"artifact"`
	Ranker   RankerConfig   `koanf:"ranker"`
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
}

// ArtifactConfig points at the precomputed model bundle
type ArtifactConfig struct {
	// Path is a filesystem path or an http(s) URL.
	Path         string        `koanf:"path" validate:"required"`
	FetchTimeout time.Duration `koanf:"fetch_timeout" validate:"gt=0"`
}

type RankerConfig struct {
	TopK int `koanf:"top_k" validate:"min=1,max=100"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr         string        `koanf:"addr" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gt=0"`
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int `koanf:"rate_limit" validate:"min=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `koanf:"format" validate:"oneof=text json"`
	File   string `koanf:"file"`
	// Caller adds the calling function and file to every entry.
	Caller bool `koanf:"caller"`
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Artifact: ArtifactConfig{
			Path:         GetStringEnv("ARTIFACT_PATH", "./data/movie_recommender.json"),
			FetchTimeout: GetDurationEnv("ARTIFACT_FETCH_TIMEOUT", 30*time.Second),
		},
		Ranker: RankerConfig{
			TopK: GetIntEnv("RANKER_TOP_K", 5),
		},
		Server: ServerConfig{
			Addr:         GetStringEnv("SERVER_ADDR", ":8080"),
			ReadTimeout:  GetDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: GetDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			RateLimit:    GetIntEnv("SERVER_RATE_LIMIT", 120),
		},
		Log: LogConfig{
			Level:  GetStringEnv("LOG_LEVEL", "info"),
			Format: GetStringEnv("LOG_FORMAT", "text"),
			File:   GetStringEnv("LOG_FILE", ""),
			Caller: GetBoolEnv("LOG_CALLER", false),
		},
	}
}

// Validate checks field constraints declared in the struct tags
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
