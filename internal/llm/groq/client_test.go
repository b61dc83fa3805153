package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/om0401/CreditCardDataExtraction/internal/llm"
)

func TestCompleteSendsChatRequest(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float32 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  {\"issuer\": \"HDFC\"}  "}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "llama-3.1-8b-instant"}, nil)
	out, err := c.Complete(context.Background(), llm.ExtractRequest{
		StatementText: "statement text",
		Fields:        []string{"issuer"},
	})
	require.NoError(t, err)

	assert.Equal(t, `{"issuer": "HDFC"}`, out)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	assert.InDelta(t, 0.2, got.Temperature, 0.001)
	assert.Equal(t, 1500, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "statement text")
	assert.Contains(t, got.Messages[0].Content, "issuer")
}

func TestCompleteNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	_, err := c.Complete(context.Background(), llm.ExtractRequest{StatementText: "x", Fields: []string{"issuer"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	_, err := c.Complete(context.Background(), llm.ExtractRequest{StatementText: "x", Fields: []string{"issuer"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
