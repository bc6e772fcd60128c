package agent

import (
	"fmt"
	"log/slog"
	"time"
)

// Defaults for engine tunables.
const (
	DefaultMaxAttempts     = 3
	DefaultFilterThreshold = 10
	DefaultQueryLimit      = 10
	DefaultLLMTimeout      = 60 * time.Second
	DefaultQueryTimeout    = 30 * time.Second
)

// Config holds the configuration for the Engine.
type Config struct {
	Logger    *slog.Logger
	LLM       LLMClient
	Querier   Querier
	Inspector SchemaInspector
	Prompts   *Prompts

	// MaxAttempts is the execution attempt budget per run.
	MaxAttempts int
	// FilterThreshold is the table count above which context filtering runs.
	FilterThreshold int
	// QueryLimit is the default row limit suggested to the generation prompt.
	QueryLimit int

	// Per-call timeouts. An LLM timeout aborts the run; a query timeout
	// follows the normal correction path.
	LLMTimeout   time.Duration
	QueryTimeout time.Duration
}

func (cfg *Config) validate() error {
	if cfg.LLM == nil {
		return fmt.Errorf("LLM client is required")
	}
	if cfg.Querier == nil {
		return fmt.Errorf("querier is required")
	}
	if cfg.Inspector == nil {
		return fmt.Errorf("schema inspector is required")
	}
	return nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Prompts == nil {
		prompts, err := LoadPrompts()
		if err != nil {
			return err
		}
		cfg.Prompts = prompts
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.FilterThreshold == 0 {
		cfg.FilterThreshold = DefaultFilterThreshold
	}
	if cfg.QueryLimit == 0 {
		cfg.QueryLimit = DefaultQueryLimit
	}
	if cfg.LLMTimeout == 0 {
		cfg.LLMTimeout = DefaultLLMTimeout
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = DefaultQueryTimeout
	}
	return nil
}
