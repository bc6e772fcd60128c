package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"LLM_PROVIDER", "DB_DRIVER", "AGENT_MAX_ATTEMPTS", "AGENT_FILTER_THRESHOLD", "AGENT_QUERY_LIMIT", "LLM_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, "duckdb", cfg.DBDriver)
	assert.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, DefaultFilterThreshold, cfg.FilterThreshold)
	assert.Equal(t, DefaultQueryLimit, cfg.QueryLimit)
	assert.Equal(t, DefaultLLMTimeout, cfg.LLMTimeout)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("AGENT_MAX_ATTEMPTS", "5")
	t.Setenv("QUERY_TIMEOUT", "45s")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.LLMProvider)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 45*time.Second, cfg.QueryTimeout)
}

func TestFromEnvRejectsBadInt(t *testing.T) {
	t.Setenv("AGENT_MAX_ATTEMPTS", "muitos")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg := Config{
		LLMProvider: "anthropic",
		DBDriver:    "duckdb",
		MaxAttempts: 3,
	}
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.LLMProvider = "bard"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.DBDriver = "oracle"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.DBDriver = "pgx"
	require.Error(t, bad.Validate(), "pgx without DSN")

	bad = cfg
	bad.MaxAttempts = 0
	require.Error(t, bad.Validate())
}
