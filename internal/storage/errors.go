package storage

import "errors"

var (
	// ErrNotFound means no trade has the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey means a trade id is already in the ledger. Trades are never overwritten.
	ErrDuplicateKey = errors.New("duplicate trade id")

	// ErrInvalidInput means a nil record or one missing its key fields.
	ErrInvalidInput = errors.New("invalid record")
)
