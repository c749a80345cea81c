package generator

import (
	"context"
	"fmt"
	"strings"
)

// LLMClient abstracts a text generation provider so it can be swapped or faked.
// One call targets one named model; implementations never retry on their own.
type LLMClient interface {
	Complete(ctx context.Context, model string, prompt Prompt) (string, error)
}

// LLMSettings is the provider configuration handed to concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewLLMFromConfig picks a client for settings.Provider. A missing API key yields
// a nil client and no error: the invoker reports that as a ConfigurationError
// when a step first needs generated text.
func NewLLMFromConfig(settings LLMSettings) (LLMClient, error) {
	if settings.APIKey == "" {
		return nil, nil
	}
	switch strings.ToLower(settings.Provider) {
	case "", "gemini", "google":
		return NewGeminiLLMFromConfig(&settings)
	case "openai":
		return NewOpenAILLMFromConfig(&settings)
	case "deepseek":
		// DeepSeek exposes an OpenAI compatible API, so base_url is mandatory.
		if settings.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return NewOpenAILLMFromConfig(&settings)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", settings.Provider)
	}
}
