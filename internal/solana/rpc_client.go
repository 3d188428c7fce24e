package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
	DefaultMaxDelay   = 5 * time.Second
)

// HTTPClient reads mint accounts over JSON-RPC 2.0.
type HTTPClient struct {
	endpoint   string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
	logger     *zap.Logger
	nextID     atomic.Uint64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) { c.client.Timeout = d }
}

func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) { c.maxRetries = n }
}

// WithRetryDelay sets the first backoff step. Later steps double up to the max delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) { c.retryDelay = d }
}

func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) { c.maxDelay = d }
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) { c.client = client }
}

func WithLogger(l *zap.Logger) ClientOption {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient creates an RPC client for endpoint.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:   endpoint,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		maxDelay:   DefaultMaxDelay,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("solana_rpc")
	return c
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// RPCError is an error object returned by the node. It is never retried.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// transientError marks a failed attempt worth repeating.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// call runs method, retrying transport failures, 429 and 5xx with capped doubling backoff.
func (c *HTTPClient) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: c.nextID.Add(1), Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", method, err)
	}

	delay := c.retryDelay
	for attempt := 0; ; attempt++ {
		raw, err := c.post(ctx, body)
		if err == nil {
			if out == nil || len(raw) == 0 {
				return nil
			}
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("decode %s result: %w", method, err)
			}
			return nil
		}

		var transient transientError
		if !errors.As(err, &transient) {
			return err
		}
		if attempt >= c.maxRetries {
			return fmt.Errorf("%s failed after %d attempts: %w", method, attempt+1, transient.err)
		}

		c.logger.Debug("retrying rpc call",
			zap.String("method", method),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", delay),
			zap.Error(transient.err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, c.maxDelay)
	}
}

// post performs one attempt and returns the raw result.
func (c *HTTPClient) post(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, transientError{fmt.Errorf("post: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transientError{fmt.Errorf("read body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, transientError{fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var rr rpcResponse
	if err := json.Unmarshal(data, &rr); err != nil {
		return nil, transientError{fmt.Errorf("decode response: %w", err)}
	}
	if rr.Error != nil {
		return nil, rr.Error
	}
	return rr.Result, nil
}

// GetAccountInfo fetches an account with jsonParsed encoding.
// A missing account yields ErrAccountNotFound.
func (c *HTTPClient) GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error) {
	var result struct {
		Value *struct {
			Lamports   uint64          `json:"lamports"`
			Owner      string          `json:"owner"`
			Data       json.RawMessage `json:"data"`
			Executable bool            `json:"executable"`
		} `json:"value"`
	}
	params := []any{pubkey, map[string]any{"encoding": "jsonParsed"}}
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey)
	}
	return &AccountInfo{
		Lamports:   result.Value.Lamports,
		Owner:      result.Value.Owner,
		Executable: result.Value.Executable,
		Data:       result.Value.Data,
	}, nil
}

// splMintData is the jsonParsed layout of a token program mint account.
type splMintData struct {
	Program string `json:"program"`
	Parsed  struct {
		Type string `json:"type"`
		Info struct {
			Decimals        uint8   `json:"decimals"`
			Supply          string  `json:"supply"`
			MintAuthority   *string `json:"mintAuthority"`
			FreezeAuthority *string `json:"freezeAuthority"`
			IsInitialized   bool    `json:"isInitialized"`
		} `json:"info"`
	} `json:"parsed"`
}

// GetMintInfo fetches and decodes the SPL mint behind a token address.
func (c *HTTPClient) GetMintInfo(ctx context.Context, mint string) (*MintInfo, error) {
	if err := ValidateAddress(mint); err != nil {
		return nil, err
	}

	acct, err := c.GetAccountInfo(ctx, mint)
	if err != nil {
		return nil, err
	}

	var data splMintData
	if err := json.Unmarshal(acct.Data, &data); err != nil || data.Parsed.Type != "mint" {
		return nil, fmt.Errorf("%w: %s owned by %s", ErrNotMint, mint, acct.Owner)
	}

	info := data.Parsed.Info
	m := &MintInfo{
		Address:       mint,
		Program:       data.Program,
		Decimals:      info.Decimals,
		Supply:        info.Supply,
		IsInitialized: info.IsInitialized,
	}
	if info.MintAuthority != nil {
		m.MintAuthority = *info.MintAuthority
	}
	if info.FreezeAuthority != nil {
		m.FreezeAuthority = *info.FreezeAuthority
	}
	return m, nil
}
