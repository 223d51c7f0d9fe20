// Package mempool maintains the pending transactions waiting to be mined.
package mempool

import (
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Mempool represents the pending transactions in the order they were
// submitted. Transactions leave the pool only when the whole pool is
// mined into a block.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs an empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds a transaction to the end of the pool and returns the new
// size of the pool.
func (mp *Mempool) Append(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// Copy returns the transactions in submission order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// From returns the transactions sent by the account in submission order.
func (mp *Mempool) From(accountID database.AccountID) []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var out []database.Tx
	for _, tx := range mp.pool {
		if tx.FromID == accountID {
			out = append(out, tx)
		}
	}

	return out
}

// Amount returns the total value the account is sending in pending
// transactions.
func (mp *Mempool) Amount(accountID database.AccountID) int64 {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var total int64
	for _, tx := range mp.pool {
		if tx.FromID == accountID {
			total += tx.Value
		}
	}

	return total
}
