// Package llm provides the language-model gateway used by the agent.
//
// Backend selection happens once, at configuration time, through New. The
// rest of the program only ever sees the Client interface.
package llm

import (
	"context"
	"fmt"

	"github.com/datalago/askdb/pkg/config"
)

// Client is the capability interface every backend implements.
type Client interface {
	// Complete sends a system and user prompt and returns the response text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// New resolves the configured backend to a Client.
func New(cfg config.Config) (Client, error) {
	switch cfg.LLMProvider {
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicModel, cfg.MaxTokens), nil
	case "ollama":
		return NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.LLMProvider)
	}
}
