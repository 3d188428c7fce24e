package solana

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// PublicKeyLength is the size of a Solana public key in bytes.
const PublicKeyLength = 32

// ErrInvalidAddress is returned for strings that are not base58 public keys.
var ErrInvalidAddress = errors.New("invalid solana address")

// DecodeAddress decodes a base58 address into its 32 key bytes.
func DecodeAddress(address string) ([]byte, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	b, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(b) != PublicKeyLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidAddress, len(b))
	}
	return b, nil
}

// ValidateAddress reports whether address is a well-formed public key.
func ValidateAddress(address string) error {
	_, err := DecodeAddress(address)
	return err
}

// IsOnCurve reports whether the address is a point on the ed25519 curve.
// Wallet keys are on the curve; program derived addresses are not.
func IsOnCurve(address string) (bool, error) {
	b, err := DecodeAddress(address)
	if err != nil {
		return false, err
	}
	return isOnCurve(b), nil
}

func isOnCurve(point []byte) bool {
	if len(point) != PublicKeyLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
