package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Set of errors returned by the mining operation.
var (
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 64")
	ErrMiningExhausted   = errors.New("mining gave up after the maximum number of attempts")
)

// maxDifficulty is the number of hex characters in a hash. Anything above
// can never be solved.
const maxDifficulty = 64

// =============================================================================

// Block represents a group of transactions batched together and linked to
// the block before it.
type Block struct {
	TimeStamp     int64  `json:"timestamp"`       // Time the block was created in unix milliseconds.
	Trans         []Tx   `json:"trans"`           // Ordered transactions, the order is hashed.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
	Hash          string `json:"hash"`            // Cached hash of this block.
}

// NewBlock constructs a block that has not been mined yet. The hash is
// computed right away with a nonce of zero.
func NewBlock(timeStamp int64, trans []Tx, prevBlockHash string) Block {
	cpy := make([]Tx, len(trans))
	copy(cpy, trans)

	b := Block{
		TimeStamp:     timeStamp,
		Trans:         cpy,
		PrevBlockHash: prevBlockHash,
	}
	b.Hash = b.CalculateHash()

	return b
}

// CalculateHash recomputes the hash from the current block fields.
func (b Block) CalculateHash() string {
	return hashFields(b.fields(encodeTrans(b.Trans)))
}

// Mine does the work of finding a nonce that makes the hash start with
// difficulty number of 0's. Pointer semantics are being used since a nonce
// is being discovered. The search stops when the context is cancelled or
// after maxAttempts hashes, unless maxAttempts is zero.
func (b *Block) Mine(ctx context.Context, difficulty int, maxAttempts uint64, ev EventHandler) error {
	if difficulty <= 0 || difficulty > maxDifficulty {
		return ErrInvalidDifficulty
	}

	ev = safe(ev)
	ev("database: Mine: MINING: started: difficulty[%d]", difficulty)
	defer ev("database: Mine: MINING: completed")

	for _, tx := range b.Trans {
		ev("database: Mine: MINING: tx[%s]", tx)
	}

	fields := b.fields(encodeTrans(b.Trans))

	b.Hash = hashFields(fields)
	attempts := uint64(1)

	for !IsHashSolved(difficulty, b.Hash) {
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED")
			return ctx.Err()
		}

		if maxAttempts > 0 && attempts >= maxAttempts {
			ev("database: Mine: MINING: EXHAUSTED: attempts[%d]", attempts)
			return ErrMiningExhausted
		}

		b.Nonce++
		fields.Nonce = b.Nonce
		b.Hash = hashFields(fields)
		attempts++
	}

	ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.PrevBlockHash, b.Hash, b.Nonce)

	return nil
}

// ValidateTransactions checks every transaction carries a valid signature.
// It stops at the first one that doesn't.
func (b Block) ValidateTransactions(v Verifier, ev EventHandler) error {
	ev = safe(ev)

	for i, tx := range b.Trans {
		if err := tx.Verify(v); err != nil {
			ev("database: ValidateTransactions: tx[%d][%s]: %s", i, tx, err)
			return fmt.Errorf("tx %d: %w", i, err)
		}
	}

	return nil
}

// fields returns the hash input of the block given its encoded transactions.
func (b Block) fields(trans []byte) blockFields {
	return blockFields{
		TimeStamp:     uint64(b.TimeStamp),
		Trans:         trans,
		PrevBlockHash: b.PrevBlockHash,
		Nonce:         b.Nonce,
	}
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func IsHashSolved(difficulty int, hash string) bool {
	if difficulty <= 0 || len(hash) != maxDifficulty || difficulty > len(hash) {
		return false
	}

	return strings.Count(hash[:difficulty], "0") == difficulty
}
