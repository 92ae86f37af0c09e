package factory

import (
	"fmt"

	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/anthropic"
	"ai-assistant-be/pkg/llm/ollama"
	"ai-assistant-be/pkg/llm/openai"
)

// Settings carries what every backend might need; each uses its own subset.
type Settings struct {
	Provider string // "ollama", "openai", "anthropic"
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama", "":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		p, err := ollama.NewOllamaProvider(baseURL, s.Model)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai":
		return openai.NewProvider(s.BaseURL, s.APIKey, s.Model)
	case "anthropic":
		return anthropic.NewProvider(s.BaseURL, s.APIKey, s.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
