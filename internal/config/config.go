package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Model provider
	ModelProvider    string
	ModelName        string
	ModelBaseURL     string
	OpenAIAPIKey     string
	AnthropicAPIKey  string
	GeminiAPIKey     string
	ModelTimeout     time.Duration
	ModelMaxTokens   int
	ModelTemperature float64
	ModelRPS         float64
	ModelMaxRetries  int
	DefaultLanguage  string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentPages int

	// Fetching
	FetchTimeout time.Duration
	MaxPageBytes int64
	UserAgent    string

	// Request limits
	MaxRequestBytes int64

	// Job state
	JobTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the environment, after loading an optional .env file from the
// working directory.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		ModelProvider:    strings.ToLower(envOr("MODEL_PROVIDER", "openai")),
		ModelName:        os.Getenv("MODEL_NAME"),
		ModelBaseURL:     os.Getenv("MODEL_BASE_URL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		ModelTimeout:     envDuration("MODEL_TIMEOUT", 120*time.Second),
		ModelMaxTokens:   envInt("MODEL_MAX_TOKENS", 1000),
		ModelTemperature: envFloat("MODEL_TEMPERATURE", 0.3),
		ModelRPS:         envFloat("MODEL_RPS", 0),
		ModelMaxRetries:  envInt("MODEL_MAX_RETRIES", 2),
		DefaultLanguage:  envOr("DEFAULT_LANGUAGE", "en"),

		WorkerCount:        envInt("WORKER_COUNT", 2),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentPages: envInt("MAX_CONCURRENT_PAGES", 4),

		FetchTimeout: envDuration("FETCH_TIMEOUT", 30*time.Second),
		MaxPageBytes: envInt64("MAX_PAGE_BYTES", 10<<20),
		UserAgent:    os.Getenv("USER_AGENT"),

		MaxRequestBytes: envInt64("MAX_REQUEST_BYTES", 20<<20),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		LogLevel:  strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "json")),
	}

	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = 120 * time.Second
	}
	if cfg.ModelMaxTokens <= 0 {
		cfg.ModelMaxTokens = 1000
	}
	if cfg.ModelTemperature < 0 {
		cfg.ModelTemperature = 0.3
	}
	if cfg.ModelRPS < 0 {
		cfg.ModelRPS = 0
	}
	if cfg.ModelMaxRetries < 0 {
		cfg.ModelMaxRetries = 0
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentPages <= 0 {
		cfg.MaxConcurrentPages = 4
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.MaxPageBytes <= 0 {
		cfg.MaxPageBytes = 10 << 20
	}
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = 20 << 20
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

const maxModelRetries = 10

// Validate checks values that have no safe default. A missing API key is
// allowed: callers may supply their own per request.
func (c Config) Validate() error {
	switch c.ModelProvider {
	case "openai", "anthropic", "gemini":
	default:
		return fmt.Errorf("MODEL_PROVIDER must be openai, anthropic or gemini, got %q", c.ModelProvider)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.ModelMaxRetries < 0 || c.ModelMaxRetries > maxModelRetries {
		return fmt.Errorf("MODEL_MAX_RETRIES must be between 0 and %d, got %d", maxModelRetries, c.ModelMaxRetries)
	}
	return nil
}

// APIKey returns the server's credential for the configured provider.
func (c Config) APIKey() string {
	switch c.ModelProvider {
	case "anthropic":
		return c.AnthropicAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
