package database

import (
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// MintAccountID is the sentinel sender of transactions that create value.
// These transactions need no signature and no balance.
const MintAccountID AccountID = "0"

// AccountID represents an identity that sends and receives value. It is the
// uncompressed public key of the owner in hex.
type AccountID string

// ToAccountID converts a hex-encoded string to an account and validates the
// hex-encoded string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(hex)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// IsAccountID verifies whether the underlying data represents a full
// public identity.
func (a AccountID) IsAccountID() bool {
	return signature.IsIdentity(string(a))
}

// IsMint reports whether this is the mint sentinel.
func (a AccountID) IsMint() bool {
	return a == MintAccountID
}

// Short returns an abbreviated form for logging.
func (a AccountID) Short() string {
	if len(a) <= 10 {
		return string(a)
	}
	return string(a[:10])
}
