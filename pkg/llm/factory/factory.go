package factory

import (
	"fmt"
	"time"

	"maharaja-assistant-be/pkg/llm"
	"maharaja-assistant-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured backend wrapped in the retry loop
func NewLLMProvider(providerType, modelName, baseURL string, timeout time.Duration, retry llm.RetryConfig) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return llm.NewRetryingProvider(ollama.NewOllamaProvider(baseURL, modelName, timeout), retry), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
