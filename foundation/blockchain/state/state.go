// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
)

// Set of error variables for the ledger operations.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrEmptyChain         = errors.New("chain is empty")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler = database.EventHandler

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis    genesis.Genesis
	FundingKey database.Signer
	Curve      database.Verifier
	Storage    database.Storage
	EvHandler  EventHandler
}

// State manages the chain and the pending transactions. All changes to the
// chain or the pool are serialized behind a single lock.
type State struct {
	evHandler EventHandler
	mu        sync.RWMutex

	genesis      genesis.Genesis
	genesisNonce uint64
	genesisHash  string
	fundingID    database.AccountID

	curve   database.Verifier
	mempool *mempool.Mempool
	storage database.Storage
}

// New constructs a ledger and mines the genesis block, which mints the
// mining reward to the funding account. Mining the genesis block can be
// cancelled through the context.
func New(ctx context.Context, cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	if cfg.FundingKey == nil {
		return nil, errors.New("funding key is required")
	}

	if cfg.Curve == nil {
		return nil, errors.New("signature verifier is required")
	}

	fundingID, err := database.ToAccountID(cfg.FundingKey.PublicIdentity())
	if err != nil {
		return nil, fmt.Errorf("funding key: %w", err)
	}

	// The storage is optional and defaults to holding the chain in memory.
	strg := cfg.Storage
	if strg == nil {
		strg = memory.New()
	}

	if n := strg.Count(); n != 0 {
		return nil, fmt.Errorf("storage must be empty, holds %d blocks", n)
	}

	state := State{
		evHandler: ev,
		genesis:   cfg.Genesis,
		fundingID: fundingID,
		curve:     cfg.Curve,
		mempool:   mempool.New(),
		storage:   strg,
	}

	if err := state.mineGenesis(ctx, cfg.FundingKey); err != nil {
		return nil, err
	}

	return &state, nil
}

// mineGenesis mints the first reward to the funding account through the
// pool and mines the genesis block at the genesis difficulty.
func (s *State) mineGenesis(ctx context.Context, fundingKey database.Signer) error {
	s.evHandler("state: mineGenesis: started: funding[%s]", s.fundingID.Short())
	defer s.evHandler("state: mineGenesis: completed")

	tx := database.NewMintTx(s.fundingID, s.genesis.MiningReward, s.genesis.TimeStamp)
	if err := tx.Sign(fundingKey); err != nil {
		return fmt.Errorf("sign genesis mint: %w", err)
	}
	s.mempool.Append(tx)

	block := database.NewBlock(s.genesis.TimeStamp, s.mempool.Copy(), database.ZeroHash)
	if err := block.Mine(ctx, s.genesis.GenesisDifficulty, s.genesis.MaxAttempts, s.evHandler); err != nil {
		s.mempool.Truncate()
		return fmt.Errorf("mine genesis: %w", err)
	}

	if err := s.storage.Write(block); err != nil {
		s.mempool.Truncate()
		return fmt.Errorf("write genesis: %w", err)
	}
	s.mempool.Truncate()

	s.genesisNonce = block.Nonce
	s.genesisHash = block.Hash

	s.evHandler("viewer: block[0]: hash[%s] nonce[%d]", block.Hash, block.Nonce)

	return nil
}

// Genesis returns a copy of the genesis configuration.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// FundingID returns the account the genesis reward was minted to.
func (s *State) FundingID() database.AccountID {
	return s.fundingID
}
