package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-assistant-be/pkg/llm"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultBaseURL = "https://api.anthropic.com"

type Provider struct {
	client *sdk.Client
	model  sdk.Model
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(baseURL, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	m := sdk.ModelClaudeSonnet4_5_20250929
	if model != "" {
		m = sdk.Model(model)
	}

	client := sdk.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &Provider{client: &client, model: m}, nil
}

// convertMessages splits out system framing, which the Messages API takes separately.
func convertMessages(history []llm.Message) ([]sdk.MessageParam, []sdk.TextBlockParam) {
	var system []sdk.TextBlockParam
	msgs := make([]sdk.MessageParam, 0, len(history))

	for _, msg := range history {
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, sdk.TextBlockParam{Text: msg.Content})
		case llm.RoleAssistant, "model":
			msgs = append(msgs, sdk.NewAssistantMessage(sdk.NewTextBlock(msg.Content)))
		default:
			msgs = append(msgs, sdk.NewUserMessage(sdk.NewTextBlock(msg.Content)))
		}
	}
	return msgs, system
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts...)

	model := p.model
	if options.Model != "" {
		model = sdk.Model(options.Model)
	}

	msgs, system := convertMessages(history)
	params := sdk.MessageNewParams{
		Model:       model,
		Messages:    msgs,
		MaxTokens:   int64(options.MaxTokens),
		Temperature: sdk.Float(options.Temperature),
	}
	if len(system) > 0 {
		params.System = system
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
