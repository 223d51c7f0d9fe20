package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Set of checks applied to every block by ValidateChain, in the order
// they are applied.
const (
	CheckGenesis      = "genesis"
	CheckLink         = "link"
	CheckTransactions = "transactions"
	CheckHash         = "hash"
	CheckWork         = "work"
)

// Set of error variables for chain validation.
var (
	ErrGenesisTampered = errors.New("genesis block does not match the one mined at startup")
	ErrBrokenLink      = errors.New("previous hash does not match the previous block")
	ErrHashMismatch    = errors.New("stored hash does not match the block contents")
	ErrHashNotSolved   = errors.New("hash does not meet the difficulty")
)

// ValidationError identifies the first block that failed validation and
// the check it failed.
type ValidationError struct {
	Block uint64
	Check string
	Err   error
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("block %d: %s: %s", ve.Block, ve.Check, ve.Err)
}

// Unwrap provides support for errors.Is and errors.As.
func (ve *ValidationError) Unwrap() error {
	return ve.Err
}

// IsValidationError checks if an error of type ValidationError exists.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// =============================================================================

// ValidateChain walks the chain from the genesis block and reports the
// first block that fails a check. It has no side effects.
func (s *State) ValidateChain() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.evHandler("state: ValidateChain: started: blocks[%d]", s.storage.Count())

	var prev database.Block
	var num uint64

	iter := s.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return err
		}

		if err := s.validateBlock(num, block, prev); err != nil {
			s.evHandler("state: ValidateChain: ERROR: %s", err)
			return err
		}

		prev = block
		num++
	}

	if num == 0 {
		return ErrEmptyChain
	}

	s.evHandler("state: ValidateChain: completed: valid")

	return nil
}

// validateBlock applies the checks in order: the genesis reference or the
// link to the previous block, the signatures, the hash and the work.
func (s *State) validateBlock(num uint64, block database.Block, prev database.Block) error {
	difficulty := s.genesis.Difficulty

	switch num {
	case 0:
		s.evHandler("state: ValidateChain: blk[%d]: check: genesis reference", num)

		if block.Nonce != s.genesisNonce || block.Hash != s.genesisHash {
			return &ValidationError{
				Block: num,
				Check: CheckGenesis,
				Err:   fmt.Errorf("%w: nonce %d, hash %s", ErrGenesisTampered, block.Nonce, block.Hash),
			}
		}
		difficulty = s.genesis.GenesisDifficulty

	default:
		s.evHandler("state: ValidateChain: blk[%d]: check: previous hash", num)

		if block.PrevBlockHash != prev.Hash {
			return &ValidationError{
				Block: num,
				Check: CheckLink,
				Err:   fmt.Errorf("%w: got %s, exp %s", ErrBrokenLink, block.PrevBlockHash, prev.Hash),
			}
		}
	}

	s.evHandler("state: ValidateChain: blk[%d]: check: transaction signatures", num)

	if err := block.ValidateTransactions(s.curve, s.evHandler); err != nil {
		return &ValidationError{Block: num, Check: CheckTransactions, Err: err}
	}

	s.evHandler("state: ValidateChain: blk[%d]: check: block hash", num)

	if hash := block.CalculateHash(); hash != block.Hash {
		return &ValidationError{
			Block: num,
			Check: CheckHash,
			Err:   fmt.Errorf("%w: got %s, exp %s", ErrHashMismatch, block.Hash, hash),
		}
	}

	s.evHandler("state: ValidateChain: blk[%d]: check: hash is solved", num)

	if !database.IsHashSolved(difficulty, block.Hash) {
		return &ValidationError{
			Block: num,
			Check: CheckWork,
			Err:   fmt.Errorf("%w: difficulty %d, hash %s", ErrHashNotSolved, difficulty, block.Hash),
		}
	}

	return nil
}
