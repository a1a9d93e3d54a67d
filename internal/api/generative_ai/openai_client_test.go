package generativeAI

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RezenkovD/TravelAiApi/config"
	"github.com/RezenkovD/TravelAiApi/internal/types"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClient(OpenAIOptions{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func TestOpenAIClient_Generate(t *testing.T) {
	t.Run("sends a single user message with the configured model", func(t *testing.T) {
		var got struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-3.5-turbo-1106",
				"choices":[{"index":0,"message":{"role":"assistant","content":"[]"},"finish_reason":"stop"}],
				"usage":{"prompt_tokens":10,"completion_tokens":1,"total_tokens":11}}`))
		})

		out, err := client.Generate(context.Background(), "I am a tourist. Paris.")
		require.NoError(t, err)
		assert.Equal(t, "[]", out)
		assert.Equal(t, "gpt-3.5-turbo-1106", got.Model)
		require.Len(t, got.Messages, 1)
		assert.Equal(t, "user", got.Messages[0].Role)
		assert.Equal(t, "I am a tourist. Paris.", got.Messages[0].Content)
	})

	t.Run("api error becomes provider error", func(t *testing.T) {
		client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
		})

		_, err := client.Generate(context.Background(), "prompt")
		require.Error(t, err)
		var perr *types.ProviderError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "OpenAI", perr.Provider)
		assert.Contains(t, err.Error(), "OpenAI API error:")
		assert.Contains(t, err.Error(), "Rate limit reached")
	})

	t.Run("no choices becomes provider error", func(t *testing.T) {
		client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","choices":[]}`))
		})

		_, err := client.Generate(context.Background(), "prompt")
		var perr *types.ProviderError
		assert.True(t, errors.As(err, &perr))
	})
}

func TestNewPlaceModelClient(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("openai by default", func(t *testing.T) {
		c, err := NewPlaceModelClient(ctx, config.LLMConfig{APIKey: "sk-test"}, logger)
		require.NoError(t, err)
		assert.Equal(t, "OpenAI", c.Name())
		assert.Equal(t, DefaultOpenAIModel, c.(*OpenAIClient).model)
	})

	t.Run("openai without key", func(t *testing.T) {
		_, err := NewPlaceModelClient(ctx, config.LLMConfig{Provider: "openai"}, logger)
		assert.Error(t, err)
	})

	t.Run("gemini without key", func(t *testing.T) {
		_, err := NewPlaceModelClient(ctx, config.LLMConfig{Provider: "gemini"}, logger)
		assert.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewPlaceModelClient(ctx, config.LLMConfig{Provider: "mistral", APIKey: "x"}, logger)
		assert.EqualError(t, err, "unsupported llm provider: mistral")
	})
}
