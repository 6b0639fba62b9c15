package llm

import (
	"context"
	"testing"

	"iaprender_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, config.AIConfig{})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider(ctx, config.AIConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	p, err = NewProvider(ctx, config.AIConfig{Provider: "openai", APIKey: "k", Model: "llama3-8b-8192"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, p)

	p, err = NewProvider(ctx, config.AIConfig{Provider: "anthropic", APIKey: "k", Model: "claude-sonnet"})
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", p.ModelID())

	_, err = NewProvider(ctx, config.AIConfig{Provider: "openai"})
	assert.ErrorContains(t, err, "initializing openai provider")

	_, err = NewProvider(ctx, config.AIConfig{Provider: "watson"})
	assert.ErrorContains(t, err, "unknown LLM provider")
}
