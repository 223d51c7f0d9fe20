// Package memory implements the ability to append and read blocks in memory
// using a slice.
package memory

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Memory represents the storage implementation for holding the chain in
// memory using a slice. This implements the database.Storage interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.Block
}

// New constructs an empty Memory value for use.
func New() *Memory {
	return &Memory{}
}

// Write appends the block to the end of the chain. A block must link to the
// current tail by its previous hash.
func (m *Memory) Write(block database.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l := len(m.blocks); l > 0 {
		if tail := m.blocks[l-1]; block.PrevBlockHash != tail.Hash {
			return fmt.Errorf("block is out of order, prev hash %s, tail %s", block.PrevBlockHash, tail.Hash)
		}
	}

	m.blocks = append(m.blocks, clone(block))

	return nil
}

// GetBlock returns a copy of the block at the specified number. Block
// numbers start at zero with the genesis block.
func (m *Memory) GetBlock(num uint64) (database.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if num >= uint64(len(m.blocks)) {
		return database.Block{}, database.ErrBlockNotFound
	}

	return clone(m.blocks[num]), nil
}

// Count returns the number of blocks in the chain.
func (m *Memory) Count() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return uint64(len(m.blocks))
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m}
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through and reading blocks in memory. This implements the database
// Iterator interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current block number being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block.
func (mi *memoryIterator) Next() (database.Block, error) {
	if mi.eoc {
		return database.Block{}, database.ErrBlockNotFound
	}

	block, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
	}

	mi.current++

	return block, err
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}

// =============================================================================

// clone copies the transactions so callers can't reach into the chain.
func clone(block database.Block) database.Block {
	trans := make([]database.Tx, len(block.Trans))
	for i, tx := range block.Trans {
		tx.Signature = append([]byte(nil), tx.Signature...)
		trans[i] = tx
	}
	block.Trans = trans

	return block
}
