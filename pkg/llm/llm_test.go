package llm

import "github.com/datalago/askdb/pkg/config"

func configWithProvider(provider string) config.Config {
	return config.Config{
		LLMProvider:    provider,
		AnthropicModel: config.DefaultAnthropicModel,
		OllamaURL:      config.DefaultOllamaURL,
		OllamaModel:    config.DefaultOllamaModel,
		MaxTokens:      config.DefaultMaxTokens,
	}
}
