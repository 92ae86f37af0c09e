package factory

import (
	"testing"

	"ai-assistant-be/pkg/llm/anthropic"
	"ai-assistant-be/pkg/llm/ollama"
	"ai-assistant-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(Settings{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	p, err = NewLLMProvider(Settings{Provider: "openai", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Provider{}, p)

	p, err = NewLLMProvider(Settings{Provider: "anthropic", APIKey: "key"})
	require.NoError(t, err)
	assert.IsType(t, &anthropic.Provider{}, p)

	_, err = NewLLMProvider(Settings{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewLLMProvider(Settings{Provider: "gemini"})
	assert.Error(t, err)
}
