// Package balance maintains account balances in memory while replaying
// the chain.
package balance

import (
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Sheet represents the data representation to maintain account balances.
// A sheet is built from scratch for every query and thrown away after.
type Sheet struct {
	sheet  map[database.AccountID]int64
	minted int64
	mu     sync.RWMutex
}

// NewSheet constructs an empty balance sheet for use.
func NewSheet() *Sheet {
	return &Sheet{
		sheet: make(map[database.AccountID]int64),
	}
}

// ApplyBlock applies every transaction of the block in order.
func (bs *Sheet) ApplyBlock(block database.Block) {
	for _, tx := range block.Trans {
		bs.ApplyTransaction(tx)
	}
}

// ApplyTransaction moves the value from the sender to the receiver. Value
// sent by the mint sentinel is counted as minted instead of being debited
// from an account.
func (bs *Sheet) ApplyTransaction(tx database.Tx) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if tx.IsMint() {
		bs.minted += tx.Value
	} else {
		bs.sheet[tx.FromID] -= tx.Value
	}

	bs.sheet[tx.ToID] += tx.Value
}

// Balance returns the balance for the specified account.
func (bs *Sheet) Balance(accountID database.AccountID) int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	return bs.sheet[accountID]
}

// Minted returns the total value created by mint transactions.
func (bs *Sheet) Minted() int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	return bs.minted
}

// Total returns the sum of all account balances.
func (bs *Sheet) Total() int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	var total int64
	for _, value := range bs.sheet {
		total += value
	}
	return total
}

// Copy makes a copy of the current balance sheet but returns the raw data.
func (bs *Sheet) Copy() map[database.AccountID]int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	sheet := make(map[database.AccountID]int64, len(bs.sheet))
	for accountID, value := range bs.sheet {
		sheet[accountID] = value
	}
	return sheet
}
