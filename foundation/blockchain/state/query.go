package state

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/balance"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// LatestBlock returns a copy of the current tail of the chain.
func (s *State) LatestBlock() (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestBlock()
}

// latestBlock requires the caller to hold the lock.
func (s *State) latestBlock() (database.Block, error) {
	n := s.storage.Count()
	if n == 0 {
		return database.Block{}, ErrEmptyChain
	}

	return s.storage.GetBlock(n - 1)
}

// BlockByNumber returns a copy of the block at the specified number. The
// genesis block is number zero.
func (s *State) BlockByNumber(num uint64) (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.storage.GetBlock(num)
}

// Blocks returns a copy of the full chain starting with the genesis block.
func (s *State) Blocks() ([]database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]database.Block, 0, s.storage.Count())

	iter := s.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		out = append(out, block)
	}

	return out, nil
}

// BlockCount returns the number of blocks in the chain.
func (s *State) BlockCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.storage.Count()
}

// =============================================================================

// BalanceOf replays every transaction in the chain to compute the settled
// balance of the account. Pending transactions are not included.
func (s *State) BalanceOf(accountID database.AccountID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balanceOf(accountID)
}

// balanceOf requires the caller to hold the lock.
func (s *State) balanceOf(accountID database.AccountID) (int64, error) {
	if !accountID.IsAccountID() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAccount, accountID.Short())
	}

	sheet, err := s.replay()
	if err != nil {
		return 0, err
	}

	return sheet.Balance(accountID), nil
}

// Balances replays the chain and returns the settled balance of every
// account that ever sent or received value.
func (s *State) Balances() (map[database.AccountID]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sheet, err := s.replay()
	if err != nil {
		return nil, err
	}

	return sheet.Copy(), nil
}

// replay builds a balance sheet from the genesis block forward.
func (s *State) replay() (*balance.Sheet, error) {
	sheet := balance.NewSheet()

	iter := s.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		sheet.ApplyBlock(block)
	}

	return sheet, nil
}
