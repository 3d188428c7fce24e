package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "bard"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{Provider: ProviderOpenAI})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIURL, c.cfg.BaseURL)
	assert.Equal(t, 1000, c.cfg.MaxTokens)
	assert.Equal(t, 30*time.Second, c.cfg.Timeout)
}

func TestClient_Claude(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req claudeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sys", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "hello", req.Messages[0].Content)

		w.Write([]byte(`{"content":[{"type":"text","text":"{\"decision\":\"BUY\"}"}]}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{Provider: ProviderClaude, APIKey: "k", Model: "m", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "sys", "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"decision":"BUY"}`, out)
}

func TestClient_OpenAI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{Provider: ProviderOpenAI, APIKey: "k", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "sys", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{Provider: ProviderClaude, BaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "sys", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication_error")
}

func TestClient_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{Provider: ProviderOpenAI, BaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "sys", "hello")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c, err := NewClient(Config{Provider: ProviderClaude, BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.Complete(ctx, "sys", "hello")
	assert.Error(t, err)
}
