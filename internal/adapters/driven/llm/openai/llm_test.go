package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

func TestNewLLMService(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := NewLLMService(LLMConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key")
	})

	t.Run("applies defaults", func(t *testing.T) {
		svc, err := NewLLMService(LLMConfig{APIKey: "test-key"})
		require.NoError(t, err)
		assert.Equal(t, DefaultLLMModel, svc.ModelName())
	})
}

func TestComplete(t *testing.T) {
	t.Run("sends system and user messages", func(t *testing.T) {
		var captured chatCompletionRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"content": "You can check your balance in the app."}},
				},
			})
		}))
		defer server.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		answer, err := svc.Complete(context.Background(),
			"You are a helpful assistant.",
			"How do I check my balance?",
			driven.GenerateOptions{MaxTokens: 500, Temperature: 0.7},
		)
		require.NoError(t, err)
		assert.Equal(t, "You can check your balance in the app.", answer)

		require.Len(t, captured.Messages, 2)
		assert.Equal(t, "system", captured.Messages[0].Role)
		assert.Equal(t, "You are a helpful assistant.", captured.Messages[0].Content)
		assert.Equal(t, "user", captured.Messages[1].Role)
		assert.Equal(t, 500, captured.MaxTokens)
		assert.InDelta(t, 0.7, captured.Temperature, 1e-9)
	})

	t.Run("surfaces API error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "rate limit exceeded", "type": "rate_limit"},
			})
		}))
		defer server.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = svc.Complete(context.Background(), "sys", "user", driven.GenerateOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limit exceeded")
	})

	t.Run("rejects empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer server.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = svc.Complete(context.Background(), "sys", "user", driven.GenerateOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no response choices")
	})
}

func TestLLMPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	require.NoError(t, svc.Ping(context.Background()))
}
