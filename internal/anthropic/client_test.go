// ABOUTME: Tests for the Anthropic Messages client against a fake server.
// ABOUTME: Verifies headers, request shape, and text block concatenation.
package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "the-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-sonnet-4-20250514", req.Model)
		assert.Equal(t, 1024, req.MaxTokens)
		assert.Equal(t, "You are a coach.", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "How was my week?", req.Messages[0].Content)

		json.NewEncoder(w).Encode(messagesResponse{
			Content: []contentBlock{
				{Type: "text", Text: "Good volume. "},
				{Type: "tool_use"},
				{Type: "text", Text: "Rest tomorrow."},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("the-key", "claude-sonnet-4-20250514").WithBaseURL(srv.URL)
	got, err := c.Complete(context.Background(), "You are a coach.", "How was my week?")
	require.NoError(t, err)
	assert.Equal(t, "Good volume. Rest tomorrow.", got)
}

func TestCompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"overloaded_error"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("the-key", "claude-sonnet-4-20250514").WithBaseURL(srv.URL)
	_, err := c.Complete(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
