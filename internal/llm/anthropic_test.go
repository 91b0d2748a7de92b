package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicClient(t *testing.T) {
	_, err := newAnthropicClient(Config{})
	require.Error(t, err)

	client, err := newAnthropicClient(Config{APIKey: "sk-ant"})
	require.NoError(t, err)
	c, ok := client.(*anthropicClient)
	require.True(t, ok)
	assert.Equal(t, AnthropicBaseURL, c.baseURL)
	assert.NotEmpty(t, c.model)
}

func TestAnthropicClient_Complete(t *testing.T) {
	var got anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"id":"msg","content":[{"type":"text","text":"Health"}]}`))
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "sk-ant", BaseURL: server.URL, MaxTokens: 64})
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), CompletionRequest{
		System: "top",
		Messages: []Message{
			{Role: RoleSystem, Content: "context"},
			{Role: RoleUser, Content: "q1"},
			{Role: RoleAssistant, Content: "a1"},
			{Role: RoleUser, Content: "q2"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Health", reply)

	assert.Equal(t, "top\n\ncontext", got.System)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, RoleUser, got.Messages[0].Role)
	assert.Equal(t, RoleAssistant, got.Messages[1].Role)
	assert.Equal(t, 64, got.MaxTokens)
}

func TestAnthropicClient_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
