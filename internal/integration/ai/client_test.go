package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Equal(t, "draft an intro", req.Prompt)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": "Hello there",
			"usage":   map[string]int{"tokens": 42},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "gpt-4o-mini", 5*time.Second)
	resp, err := client.Generate(context.Background(), GenerateRequest{Prompt: "draft an intro"})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", resp.Content)
	assert.Equal(t, 42, resp.Usage.Tokens)
}

func TestGenerateProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	client := NewClient("", server.URL, "gpt-4o-mini", 5*time.Second)
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "x"})

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
	assert.Contains(t, provErr.Body, "rate limited")
}

func TestGenerateProviderUnreachable(t *testing.T) {
	client := NewClient("", "http://127.0.0.1:1", "gpt-4o-mini", time.Second)
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "x"})

	assert.Error(t, err)
	var provErr *ProviderError
	assert.False(t, errors.As(err, &provErr))
}
