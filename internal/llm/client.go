// Package llm is a minimal completion client for hosted language models.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider is the model API flavor.
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// Default endpoints.
const (
	DefaultClaudeURL = "https://api.anthropic.com/v1"
	DefaultOpenAIURL = "https://api.openai.com/v1"
	anthropicVersion = "2023-06-01"
)

// ErrUnsupportedProvider is returned for unknown provider names.
var ErrUnsupportedProvider = errors.New("unsupported llm provider")

// ErrEmptyResponse is returned when the model returns no text.
var ErrEmptyResponse = errors.New("empty llm response")

// Config holds LLM client configuration.
type Config struct {
	Provider    Provider      `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"` // empty selects the provider default
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderClaude,
		Model:       "claude-sonnet-4-20250514",
		MaxTokens:   1000,
		Temperature: 0.3,
		Timeout:     30 * time.Second,
	}
}

// Client is the LLM API client.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new LLM client.
func NewClient(cfg Config) (*Client, error) {
	switch cfg.Provider {
	case ProviderClaude, ProviderOpenAI:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultClaudeURL
		if cfg.Provider == ProviderOpenAI {
			cfg.BaseURL = DefaultOpenAIURL
		}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Provider returns the configured provider.
func (c *Client) Provider() Provider {
	return c.cfg.Provider
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type openAIRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends one system + user prompt and returns the model's text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	switch c.cfg.Provider {
	case ProviderClaude:
		return c.completeClaude(ctx, system, user)
	case ProviderOpenAI:
		return c.completeOpenAI(ctx, system, user)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, c.cfg.Provider)
	}
}

func (c *Client) completeClaude(ctx context.Context, system, user string) (string, error) {
	req := claudeRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		System:      system,
		Messages:    []message{{Role: "user", Content: user}},
	}
	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}

	body, status, err := c.post(ctx, c.cfg.BaseURL+"/messages", headers, req)
	if err != nil {
		return "", err
	}

	var resp claudeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", statusError(status, body, err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("api error: %s - %s", resp.Error.Type, resp.Error.Message)
	}
	if status != http.StatusOK {
		return "", statusError(status, body, nil)
	}
	for _, block := range resp.Content {
		if block.Type == "text" || block.Type == "" {
			return block.Text, nil
		}
	}
	return "", ErrEmptyResponse
}

func (c *Client) completeOpenAI(ctx context.Context, system, user string) (string, error) {
	req := openAIRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	headers := map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
	}

	body, status, err := c.post(ctx, c.cfg.BaseURL+"/chat/completions", headers, req)
	if err != nil {
		return "", err
	}

	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", statusError(status, body, err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("api error: %s - %s", resp.Error.Type, resp.Error.Message)
	}
	if status != http.StatusOK {
		return "", statusError(status, body, nil)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// post sends a JSON request and returns the raw body with its status code.
func (c *Client) post(ctx context.Context, url string, headers map[string]string, in any) ([]byte, int, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

func statusError(status int, body []byte, decodeErr error) error {
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", status, string(body))
	}
	return fmt.Errorf("unmarshal response: %w", decodeErr)
}
