package llm

import (
	"context"
	"fmt"

	"iaprender_backend/internal/config"
)

// NewProvider builds the provider selected by cfg.Provider. An empty provider
// returns nil: the tutor then answers from its fallback rules only.
func NewProvider(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai", "groq":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultGroqBaseURL
		}
		p, err = NewOpenAIProvider(cfg.APIKey, baseURL, cfg.Model)
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return p, nil
}
