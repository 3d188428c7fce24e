package solana

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func rpcReply(w http.ResponseWriter, r *http.Request, key string, v any) {
	var req rpcRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, key: v})
}

func TestHTTPClient_RetriesTransientStatus(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch attempts.Add(1) {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			rpcReply(w, r, "result", map[string]any{"value": map[string]any{"lamports": 42, "owner": "x"}})
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(3), WithRetryDelay(5*time.Millisecond))
	acct, err := client.GetAccountInfo(context.Background(), wsolMint)
	if err != nil {
		t.Fatalf("GetAccountInfo: %v", err)
	}
	if acct.Lamports != 42 {
		t.Errorf("lamports = %d, want 42", acct.Lamports)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestHTTPClient_GivesUpAfterMaxRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(2), WithRetryDelay(time.Millisecond))
	if _, err := client.GetAccountInfo(context.Background(), wsolMint); err == nil {
		t.Fatal("expected error")
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestHTTPClient_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryDelay(time.Millisecond))
	if _, err := client.GetAccountInfo(context.Background(), wsolMint); err == nil {
		t.Fatal("expected error")
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestHTTPClient_RPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rpcReply(w, r, "error", map[string]any{"code": -32600, "message": "Invalid Request"})
	}))
	defer server.Close()

	_, err := NewHTTPClient(server.URL).GetAccountInfo(context.Background(), wsolMint)

	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %T: %v", err, err)
	}
	if rpcErr.Code != -32600 {
		t.Errorf("code = %d, want -32600", rpcErr.Code)
	}
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPClient(server.URL).GetAccountInfo(ctx, wsolMint)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

const wsolMint = "So11111111111111111111111111111111111111112"

func mintServer(t *testing.T, value any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		if req.Method != "getAccountInfo" {
			t.Errorf("expected method getAccountInfo, got %s", req.Method)
		}
		if len(req.Params) != 2 {
			t.Errorf("expected 2 params, got %d", len(req.Params))
		} else if cfg, ok := req.Params[1].(map[string]any); !ok || cfg["encoding"] != "jsonParsed" {
			t.Errorf("expected jsonParsed encoding, got %v", req.Params[1])
		}

		resp := map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  map[string]any{"value": value},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestHTTPClient_GetMintInfo(t *testing.T) {
	server := mintServer(t, map[string]any{
		"lamports": uint64(1461600),
		"owner":    "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		"data": map[string]any{
			"program": "spl-token",
			"parsed": map[string]any{
				"type": "mint",
				"info": map[string]any{
					"decimals":        9,
					"supply":          "1000000000000000",
					"mintAuthority":   nil,
					"freezeAuthority": "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
					"isInitialized":   true,
				},
			},
		},
		"executable": false,
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	mint, err := client.GetMintInfo(context.Background(), wsolMint)
	if err != nil {
		t.Fatalf("GetMintInfo: %v", err)
	}

	if mint.Decimals != 9 {
		t.Errorf("expected decimals 9, got %d", mint.Decimals)
	}
	if mint.Supply != "1000000000000000" {
		t.Errorf("unexpected supply: %s", mint.Supply)
	}
	if !mint.MintRevoked() {
		t.Error("expected mint authority revoked")
	}
	if mint.FreezeRevoked() {
		t.Error("expected freeze authority present")
	}
	if mint.Program != "spl-token" {
		t.Errorf("unexpected program: %s", mint.Program)
	}
}

func TestHTTPClient_GetMintInfo_NotFound(t *testing.T) {
	server := mintServer(t, nil)
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.GetMintInfo(context.Background(), wsolMint)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestHTTPClient_GetMintInfo_NotMint(t *testing.T) {
	server := mintServer(t, map[string]any{
		"lamports": uint64(2039280),
		"owner":    "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		"data": map[string]any{
			"program": "spl-token",
			"parsed":  map[string]any{"type": "account", "info": map[string]any{}},
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.GetMintInfo(context.Background(), wsolMint)
	if !errors.Is(err, ErrNotMint) {
		t.Errorf("expected ErrNotMint, got %v", err)
	}
}

func TestHTTPClient_GetMintInfo_InvalidAddress(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:0")
	_, err := client.GetMintInfo(context.Background(), "not-base58!")
	if !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
}
