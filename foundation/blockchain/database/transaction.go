package database

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Set of errors returned when signing or verifying a transaction.
var (
	ErrWrongSigner      = errors.New("signer is not the sender of the transaction")
	ErrMissingSignature = errors.New("transaction is not signed")
	ErrInvalidSignature = errors.New("transaction signature does not verify")
)

// =============================================================================

// Tx is a value transfer between two identities.
type Tx struct {
	FromID    AccountID     `json:"from"`                // Sender, or "0" when value is minted.
	ToID      AccountID     `json:"to"`                  // Receiver of the value.
	Value     int64         `json:"value"`               // Whole coins being transferred.
	TimeStamp int64         `json:"timestamp"`           // Creation time in unix milliseconds.
	Signature hexutil.Bytes `json:"signature,omitempty"` // [R|S|V] signature over the fingerprint.
}

// NewTx constructs a new unsigned transaction stamped with the current time.
func NewTx(fromID AccountID, toID AccountID, value int64) Tx {
	return Tx{
		FromID:    fromID,
		ToID:      toID,
		Value:     value,
		TimeStamp: time.Now().UTC().UnixMilli(),
	}
}

// NewMintTx constructs a transaction that creates value for the receiver.
func NewMintTx(toID AccountID, value int64, timeStamp int64) Tx {
	return Tx{
		FromID:    MintAccountID,
		ToID:      toID,
		Value:     value,
		TimeStamp: timeStamp,
	}
}

// IsMint reports whether the transaction creates value.
func (tx Tx) IsMint() bool {
	return tx.FromID.IsMint()
}

// Fingerprint returns the digest of the transaction. The signature is not
// part of it since the signature is made over this value.
func (tx Tx) Fingerprint() [sha256.Size]byte {
	return sha256.Sum256(encodeTx(tx))
}

// FingerprintHex returns the fingerprint as a hex string.
func (tx Tx) FingerprintHex() string {
	fp := tx.Fingerprint()
	return hex.EncodeToString(fp[:])
}

// Sign uses the specified key to sign the transaction. Only the owner of the
// from account may sign unless this is a mint transaction. The transaction
// is left untouched when signing fails.
func (tx *Tx) Sign(signer Signer) error {
	if !tx.IsMint() && AccountID(signer.PublicIdentity()) != tx.FromID {
		return ErrWrongSigner
	}

	fp := tx.Fingerprint()
	sig, err := signer.Sign(fp[:])
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}

	tx.Signature = sig

	return nil
}

// Verify checks the signature was produced by the from account over the
// current fingerprint. Mint transactions always verify.
func (tx Tx) Verify(v Verifier) error {
	if tx.IsMint() {
		return nil
	}

	if len(tx.Signature) == 0 {
		return ErrMissingSignature
	}

	fp := tx.Fingerprint()
	if !v.Verify(fp[:], tx.Signature, string(tx.FromID)) {
		return ErrInvalidSignature
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.FromID.Short(), tx.ToID.Short(), tx.Value)
}
