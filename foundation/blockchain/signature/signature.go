// Package signature provides the key capability for the ledger. Identities
// are uncompressed secp256k1 public keys in hex and signatures are produced
// over 32 byte digests.
package signature

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// IdentityLength is the number of hex characters in a full public identity.
// That is the 0x04 prefix byte followed by the 32 byte X and Y coordinates.
const IdentityLength = 2 * 65

// SecretLength is the number of hex characters in a private key.
const SecretLength = 2 * 32

// ErrInvalidSecret is returned when a secret can't be turned into a key.
var ErrInvalidSecret = errors.New("invalid secret")

// =============================================================================

// Curve is the stateless secp256k1 engine. It carries no state so a zero
// value can be passed around freely to anything that needs to create keys
// or verify signatures.
type Curve struct{}

// Generate produces a new random key.
func (Curve) Generate() (*Key, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	return &Key{privateKey: pk}, nil
}

// FromSecret rebuilds a key from its hex encoded secret.
func (Curve) FromSecret(secret string) (*Key, error) {
	if len(secret) != SecretLength {
		return nil, fmt.Errorf("%w: length %d, exp %d", ErrInvalidSecret, len(secret), SecretLength)
	}

	pk, err := crypto.HexToECDSA(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSecret, err)
	}

	return &Key{privateKey: pk}, nil
}

// Verify checks the signature was produced over the digest by the key
// whose public identity is provided.
func (Curve) Verify(digest []byte, sig []byte, identity string) bool {
	if len(digest) != crypto.DigestLength {
		return false
	}

	// Accept the [R|S|V] format produced by Sign as well as plain [R|S].
	switch len(sig) {
	case crypto.SignatureLength:
		sig = sig[:crypto.RecoveryIDOffset]
	case crypto.RecoveryIDOffset:
	default:
		return false
	}

	pub, err := hex.DecodeString(identity)
	if err != nil {
		return false
	}

	if _, err := crypto.UnmarshalPubkey(pub); err != nil {
		return false
	}

	return crypto.VerifySignature(pub, digest, sig)
}

// =============================================================================

// Key is a private key with its public identity.
type Key struct {
	privateKey *ecdsa.PrivateKey
}

// PublicIdentity returns the uncompressed public key in hex. This is the
// identity used as an address on the ledger.
func (k *Key) PublicIdentity() string {
	return PublicIdentity(k.privateKey.PublicKey)
}

// Secret returns the private key in hex.
func (k *Key) Secret() string {
	return hex.EncodeToString(crypto.FromECDSA(k.privateKey))
}

// Sign signs the 32 byte digest and returns the signature in the 65 byte
// [R|S|V] format.
func (k *Key) Sign(digest []byte) ([]byte, error) {
	if len(digest) != crypto.DigestLength {
		return nil, fmt.Errorf("digest length %d, exp %d", len(digest), crypto.DigestLength)
	}

	sig, err := crypto.Sign(digest, k.privateKey)
	if err != nil {
		return nil, err
	}

	// Check the signature against our own identity before handing it out.
	if !crypto.VerifySignature(crypto.FromECDSAPub(&k.privateKey.PublicKey), digest, sig[:crypto.RecoveryIDOffset]) {
		return nil, errors.New("invalid signature")
	}

	return sig, nil
}

// =============================================================================

// PublicIdentity converts the public key to its identity string.
func PublicIdentity(pk ecdsa.PublicKey) string {
	return hex.EncodeToString(crypto.FromECDSAPub(&pk))
}

// IsIdentity verifies the string is a well formed full public identity.
func IsIdentity(identity string) bool {
	if len(identity) != IdentityLength {
		return false
	}

	b, err := hex.DecodeString(identity)
	if err != nil {
		return false
	}

	return b[0] == 0x04
}

// LoadKey reads a key file holding the hex encoded secret.
func LoadKey(path string) (*Key, error) {
	pk, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("load key %q: %w", path, err)
	}

	return &Key{privateKey: pk}, nil
}

// SaveKey writes the key's secret to the specified file.
func SaveKey(path string, key *Key) error {
	if err := crypto.SaveECDSA(path, key.privateKey); err != nil {
		return fmt.Errorf("save key %q: %w", path, err)
	}

	return nil
}
