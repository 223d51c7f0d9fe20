package database

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

/*
	Canonical encoding

	Every fingerprint and block hash is SHA-256 over an RLP encoding of the
	fields listed below, in this order. RLP is length prefixed and has exactly
	one encoding for a given value so the bytes can't drift between runs.
	Signed integers are encoded as their two's complement uint64.

	Transaction fingerprint:
		[FromID, ToID, Value, TimeStamp]

	Block hash:
		[TimeStamp, [[FromID, ToID, Value, TimeStamp, Signature], ...], PrevBlockHash, Nonce]

	Changing any of this invalidates every signature and hash ever produced.
*/

// ZeroHash is the previous block hash recorded by the genesis block.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// txFields is the fingerprint input of a transaction.
type txFields struct {
	FromID    string
	ToID      string
	Value     uint64
	TimeStamp uint64
}

// blockTxFields is a transaction as it contributes to the block hash.
type blockTxFields struct {
	FromID    string
	ToID      string
	Value     uint64
	TimeStamp uint64
	Signature []byte
}

// blockFields is the block hash input. Trans holds the already encoded
// transaction list so the mining loop only re-encodes the nonce.
type blockFields struct {
	TimeStamp     uint64
	Trans         rlp.RawValue
	PrevBlockHash string
	Nonce         uint64
}

// encodeTx returns the canonical encoding of the transaction fingerprint.
func encodeTx(tx Tx) []byte {
	return encode(txFields{
		FromID:    string(tx.FromID),
		ToID:      string(tx.ToID),
		Value:     uint64(tx.Value),
		TimeStamp: uint64(tx.TimeStamp),
	})
}

// encodeTrans returns the canonical encoding of an ordered transaction list.
func encodeTrans(trans []Tx) rlp.RawValue {
	fields := make([]blockTxFields, len(trans))
	for i, tx := range trans {
		fields[i] = blockTxFields{
			FromID:    string(tx.FromID),
			ToID:      string(tx.ToID),
			Value:     uint64(tx.Value),
			TimeStamp: uint64(tx.TimeStamp),
			Signature: tx.Signature,
		}
	}

	return encode(fields)
}

// hashFields returns the hex SHA-256 of the encoded block fields.
func hashFields(fields blockFields) string {
	hash := sha256.Sum256(encode(fields))
	return hex.EncodeToString(hash[:])
}

// encode returns the RLP encoding of v. RLP only fails on types it can't
// represent and every field type above is a string, an unsigned integer, a
// byte slice or a list of those, so an error here is a programming error.
func encode(v any) []byte {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		panic(fmt.Sprintf("rlp encoding %T: %s", v, err))
	}

	return data
}
