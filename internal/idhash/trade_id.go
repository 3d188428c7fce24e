// Package idhash derives deterministic identifiers.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeTradeID computes a deterministic trade id using SHA256.
// Formula: SHA256(tx_ref|symbol|action|platform|timestamp_unix_nano)
// Returns hex-encoded hash (64 characters). Resubmitting the same
// execution yields the same id, so the ledger rejects it as a duplicate.
func ComputeTradeID(
	txRef string,
	symbol string,
	action string,
	platform string,
	timestamp time.Time,
) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%d",
		txRef,
		symbol,
		action,
		platform,
		timestamp.UnixNano(),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
