package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// DefaultGeminiBaseURL is Google's OpenAI compatible endpoint for Gemini models.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// GeminiLLM implements LLMClient on top of a langchaingo model. The model name
// is passed per call so one client serves the whole fallback chain.
type GeminiLLM struct {
	model llms.Model
}

func NewGeminiLLMFromConfig(cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key missing; provide llm.api_key")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	opts := []lcopenai.Option{
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithBaseURL(baseURL),
	}
	if cfg.Model != "" {
		opts = append(opts, lcopenai.WithModel(cfg.Model))
	}
	m, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiLLM{model: m}, nil
}

// NewLangchainLLM wraps any langchaingo model.
func NewLangchainLLM(m llms.Model) *GeminiLLM {
	return &GeminiLLM{model: m}
}

func (g *GeminiLLM) Complete(ctx context.Context, model string, prompt Prompt) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(prompt.System)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt.User)},
		},
	}
	var callOpts []llms.CallOption
	if model != "" {
		callOpts = append(callOpts, llms.WithModel(model))
	}
	resp, err := g.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("gemini: empty choices")
	}
	return resp.Choices[0].Content, nil
}
