package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-assistant-be/pkg/llm"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	var got api.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(api.ChatResponse{
			Model:   got.Model,
			Message: api.Message{Role: "assistant", Content: "  hi there\n"},
			Done:    true,
		})
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL+"/", "llama3")
	require.NoError(t, err)
	assert.Equal(t, srv.URL, p.BaseURL)

	reply, err := p.Chat(context.Background(), llm.Compose("be brief", nil, "hello"), llm.WithModel("qwen2.5"))
	require.NoError(t, err)

	assert.Equal(t, "hi there", reply)
	assert.Equal(t, "qwen2.5", got.Model)
	require.NotNil(t, got.Stream)
	assert.False(t, *got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[1].Content)
	assert.EqualValues(t, 4096, got.Options["num_predict"])
}

func TestChatServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": strings.Repeat("x", 2*maxErrorBody)})
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL, "missing")
	require.NoError(t, err)
	_, err = p.Generate(context.Background(), "hello")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Len(t, apiErr.Body, maxErrorBody)
}

func TestChatErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "model is loading"})
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL, "llama3")
	require.NoError(t, err)
	_, err = p.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is loading")
}

func TestNewOllamaProviderRejectsBadURL(t *testing.T) {
	_, err := NewOllamaProvider("http://[::1", "llama3")
	assert.Error(t, err)
}
