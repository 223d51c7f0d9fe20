package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// MinePendingTransactions puts a signed reward for the miner in front of
// every pending transaction and mines them into a new block. It returns the
// block along with its number in the chain. The pool is cleared only once
// the block is part of the chain. If mining is cancelled or runs out of
// attempts, the chain and the pool are left as they were.
func (s *State) MinePendingTransactions(ctx context.Context, miner database.Signer) (database.Block, uint64, error) {
	if miner == nil {
		return database.Block{}, 0, errors.New("miner key is required")
	}

	minerID, err := database.ToAccountID(miner.PublicIdentity())
	if err != nil {
		return database.Block{}, 0, fmt.Errorf("%w: miner: %w", ErrInvalidAccount, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: MinePendingTransactions: MINING: started: miner[%s] pool[%d]", minerID.Short(), s.mempool.Count())
	defer s.evHandler("state: MinePendingTransactions: MINING: completed")

	reward := database.NewTx(database.MintAccountID, minerID, s.genesis.MiningReward)
	if err := reward.Sign(miner); err != nil {
		return database.Block{}, 0, fmt.Errorf("sign reward: %w", err)
	}

	latest, err := s.latestBlock()
	if err != nil {
		return database.Block{}, 0, err
	}

	trans := append([]database.Tx{reward}, s.mempool.Copy()...)
	block := database.NewBlock(time.Now().UTC().UnixMilli(), trans, latest.Hash)

	s.evHandler("state: MinePendingTransactions: MINING: perform POW: difficulty[%d]", s.genesis.Difficulty)

	if err := block.Mine(ctx, s.genesis.Difficulty, s.genesis.MaxAttempts, s.evHandler); err != nil {
		s.evHandler("state: MinePendingTransactions: MINING: ERROR: %s", err)
		return database.Block{}, 0, err
	}

	if err := s.storage.Write(block); err != nil {
		return database.Block{}, 0, fmt.Errorf("write block: %w", err)
	}
	s.mempool.Truncate()

	number := s.storage.Count() - 1

	s.evHandler("viewer: block[%d]: hash[%s] nonce[%d] trans[%d]", number, block.Hash, block.Nonce, len(block.Trans))

	return block, number, nil
}
