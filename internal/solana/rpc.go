package solana

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrAccountNotFound is returned when an account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNotMint is returned when an account is not an SPL token mint.
	ErrNotMint = errors.New("account is not a token mint")
)

// MintReader reads SPL token mint accounts.
type MintReader interface {
	GetMintInfo(ctx context.Context, mint string) (*MintInfo, error)
}

var _ MintReader = (*HTTPClient)(nil)

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Executable bool
	Data       json.RawMessage // jsonParsed payload
}

// MintInfo is the decoded state of an SPL token mint.
// Empty authorities mean the authority is revoked.
type MintInfo struct {
	Address         string `json:"address"`
	Program         string `json:"program"`
	Decimals        uint8  `json:"decimals"`
	Supply          string `json:"supply"` // raw base units
	MintAuthority   string `json:"mint_authority,omitempty"`
	FreezeAuthority string `json:"freeze_authority,omitempty"`
	IsInitialized   bool   `json:"is_initialized"`
}

// MintRevoked reports whether no further tokens can be minted.
func (m *MintInfo) MintRevoked() bool {
	return m.MintAuthority == ""
}

// FreezeRevoked reports whether token accounts can no longer be frozen.
func (m *MintInfo) FreezeRevoked() bool {
	return m.FreezeAuthority == ""
}
