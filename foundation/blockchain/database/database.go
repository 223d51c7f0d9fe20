// Package database handles the lower level data types of the ledger: the
// transactions, the blocks they are batched into and the canonical encoding
// that feeds every fingerprint and block hash.
package database

// Signer represents the behavior required of a key that can sign
// transaction fingerprints.
type Signer interface {
	PublicIdentity() string
	Sign(digest []byte) ([]byte, error)
}

// Verifier represents the behavior required to check a signature against
// a public identity.
type Verifier interface {
	Verify(digest []byte, sig []byte, identity string) bool
}

// EventHandler defines a function that is called when events occur while
// mining and validating blocks.
type EventHandler func(v string, args ...any)

// safe returns an event handler that can always be called.
func safe(ev EventHandler) EventHandler {
	if ev == nil {
		return func(string, ...any) {}
	}
	return ev
}
