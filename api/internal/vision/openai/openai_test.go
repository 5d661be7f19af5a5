package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reuse-api/api/internal/vision"
)

func newTestEngine(t *testing.T, h http.HandlerFunc) *Engine {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewWithConfig(cfg, "gpt-4o-mini")
}

func TestGenerateSendsPromptAndImage(t *testing.T) {
	var got openai.ChatCompletionRequest
	eng := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "Yes, works."}}},
		})
	})

	out, err := eng.Generate(context.Background(), "is it reusable?", vision.Image{Data: []byte{0xFF, 0xD8, 0xFF}})
	require.NoError(t, err)
	assert.Equal(t, "Yes, works.", out)

	require.Len(t, got.Messages, 1)
	parts := got.Messages[0].MultiContent
	require.Len(t, parts, 2)
	assert.Equal(t, "is it reusable?", parts[0].Text)
	require.NotNil(t, parts[1].ImageURL)
	assert.True(t, strings.HasPrefix(parts[1].ImageURL.URL, "data:image/jpeg;base64,"))
}

func TestGenerateEmptyChoices(t *testing.T) {
	eng := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	_, err := eng.Generate(context.Background(), "p", vision.Image{Data: []byte("x"), MIME: "image/png"})
	assert.ErrorContains(t, err, "empty response")
}

func TestGenerateAPIError(t *testing.T) {
	eng := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})
	_, err := eng.Generate(context.Background(), "p", vision.Image{Data: []byte("x"), MIME: "image/png"})
	assert.ErrorContains(t, err, "openai:")
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("  ", "gpt-4o-mini")
	assert.Error(t, err)
}
