package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-assistant-be/pkg/llm"

	"github.com/ollama/ollama/api"
)

const (
	defaultTimeout = 120 * time.Second

	// Error bodies are echoed into logs; keep them short.
	maxErrorBody = 512
)

// APIError is a non-2xx answer from the Ollama server.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ollama: status %d: %s", e.Status, e.Body)
}

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	client    *api.Client
}

var _ llm.LLMProvider = (*OllamaProvider)(nil)

func NewOllamaProvider(baseURL, modelName string) (*OllamaProvider, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		client:    api.NewClient(parsed, &http.Client{Timeout: defaultTimeout}),
	}, nil
}

// Chat sends the whole history in one non-streaming request. The reply
// is returned with surrounding whitespace removed.
func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts...)

	stream := false
	req := &api.ChatRequest{
		Model:    o.ModelName,
		Messages: make([]api.Message, 0, len(history)),
		Stream:   &stream,
		Options: map[string]any{
			"temperature": options.Temperature,
			"num_predict": options.MaxTokens,
		},
	}
	if options.Model != "" {
		req.Model = options.Model
	}
	for _, m := range history {
		req.Messages = append(req.Messages, api.Message{Role: m.Role, Content: m.Content})
	}

	var reply strings.Builder
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", wrapError(err)
	}
	return strings.TrimSpace(reply.String()), nil
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func wrapError(err error) error {
	var status api.StatusError
	if errors.As(err, &status) {
		body := strings.TrimSpace(status.ErrorMessage)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &APIError{Status: status.StatusCode, Body: body}
	}
	return fmt.Errorf("ollama: %w", err)
}
