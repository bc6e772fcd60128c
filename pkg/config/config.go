// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for tunables that are rarely overridden.
const (
	DefaultMaxAttempts     = 3
	DefaultFilterThreshold = 10
	DefaultQueryLimit      = 10
	DefaultLLMTimeout      = 60 * time.Second
	DefaultQueryTimeout    = 30 * time.Second
	DefaultMaxTokens       = 4096

	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultOllamaURL      = "http://localhost:11434"
	DefaultOllamaModel    = "qwen2.5-coder:14b"
)

// Config holds the process configuration.
type Config struct {
	// LLM provider: "anthropic" or "ollama".
	LLMProvider string

	AnthropicModel string
	MaxTokens      int64

	OllamaURL   string
	OllamaModel string

	// Database driver ("duckdb", "pgx" or "clickhouse") and DSN.
	DBDriver string
	DBDSN    string

	// Agent tunables.
	MaxAttempts     int
	FilterThreshold int
	QueryLimit      int
	LLMTimeout      time.Duration
	QueryTimeout    time.Duration
}

// FromEnv builds a Config from environment variables, loading a .env file
// first if one is present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LLMProvider:    getenvDefault("LLM_PROVIDER", "anthropic"),
		AnthropicModel: getenvDefault("ANTHROPIC_MODEL", DefaultAnthropicModel),
		OllamaURL:      getenvDefault("OLLAMA_URL", DefaultOllamaURL),
		OllamaModel:    getenvDefault("OLLAMA_MODEL", DefaultOllamaModel),
		DBDriver:       getenvDefault("DB_DRIVER", "duckdb"),
		DBDSN:          os.Getenv("DB_DSN"),
		LLMTimeout:     DefaultLLMTimeout,
		QueryTimeout:   DefaultQueryTimeout,
	}

	var err error
	if cfg.MaxTokens, err = getenvInt64("LLM_MAX_TOKENS", DefaultMaxTokens); err != nil {
		return Config{}, err
	}
	if cfg.MaxAttempts, err = getenvInt("AGENT_MAX_ATTEMPTS", DefaultMaxAttempts); err != nil {
		return Config{}, err
	}
	if cfg.FilterThreshold, err = getenvInt("AGENT_FILTER_THRESHOLD", DefaultFilterThreshold); err != nil {
		return Config{}, err
	}
	if cfg.QueryLimit, err = getenvInt("AGENT_QUERY_LIMIT", DefaultQueryLimit); err != nil {
		return Config{}, err
	}
	if d := os.Getenv("LLM_TIMEOUT"); d != "" {
		if cfg.LLMTimeout, err = time.ParseDuration(d); err != nil {
			return Config{}, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
		}
	}
	if d := os.Getenv("QUERY_TIMEOUT"); d != "" {
		if cfg.QueryTimeout, err = time.ParseDuration(d); err != nil {
			return Config{}, fmt.Errorf("invalid QUERY_TIMEOUT: %w", err)
		}
	}

	return cfg, nil
}

// Validate checks the configuration for the first fatal problem.
func (cfg *Config) Validate() error {
	switch cfg.LLMProvider {
	case "anthropic":
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic")
		}
	case "ollama":
		if cfg.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL is empty")
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %q (use \"anthropic\" or \"ollama\")", cfg.LLMProvider)
	}

	switch cfg.DBDriver {
	case "duckdb", "pgx", "clickhouse":
	default:
		return fmt.Errorf("unsupported DB driver: %q", cfg.DBDriver)
	}
	if cfg.DBDSN == "" && cfg.DBDriver != "duckdb" {
		return fmt.Errorf("DB_DSN is required for driver %q", cfg.DBDriver)
	}

	if cfg.MaxAttempts < 1 {
		return fmt.Errorf("AGENT_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
