package openai

import (
	"context"
	"errors"
	"fmt"

	"ai-assistant-be/pkg/llm"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

// Provider talks to any OpenAI-compatible chat completions endpoint.
type Provider struct {
	client sdk.Client
	model  string
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(baseURL, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	client := sdk.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &Provider{client: client, model: model}, nil
}

func convertMessages(history []llm.Message) []sdk.ChatCompletionMessageParamUnion {
	out := make([]sdk.ChatCompletionMessageParamUnion, len(history))
	for i, msg := range history {
		switch msg.Role {
		case llm.RoleSystem:
			out[i] = sdk.SystemMessage(msg.Content)
		case llm.RoleAssistant, "model":
			out[i] = sdk.AssistantMessage(msg.Content)
		default:
			out[i] = sdk.UserMessage(msg.Content)
		}
	}
	return out
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts...)

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	params := sdk.ChatCompletionNewParams{
		Messages:    convertMessages(history),
		Model:       sdk.ChatModel(model),
		Temperature: sdk.Float(options.Temperature),
	}
	if options.MaxTokens > 0 {
		params.MaxCompletionTokens = sdk.Int(int64(options.MaxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
