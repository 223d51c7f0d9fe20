package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// AdmitTransaction validates the transaction and appends it to the pool.
// A sender can't have more value in flight than its settled balance.
func (s *State) AdmitTransaction(tx database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: AdmitTransaction: started: %s", tx)

	if err := s.checkTransaction(tx); err != nil {
		s.evHandler("state: AdmitTransaction: rejected: %s", err)
		return err
	}

	n := s.mempool.Append(tx)

	s.evHandler("viewer: tx[%s] admitted: pool[%d]", tx.FingerprintHex()[:16], n)

	return nil
}

// checkTransaction applies the admission rules in order. The caller must
// hold the write lock.
func (s *State) checkTransaction(tx database.Tx) error {
	if tx.FromID == "" || tx.ToID == "" {
		return fmt.Errorf("%w: transaction must include from and to address", ErrInvalidTransaction)
	}

	if tx.Value <= 0 {
		return fmt.Errorf("%w: value must be positive, got %d", ErrInvalidTransaction, tx.Value)
	}

	if err := tx.Verify(s.curve); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	settled, err := s.balanceOf(tx.FromID)
	if err != nil {
		if errors.Is(err, ErrInvalidAccount) {
			return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
		}
		return err
	}

	// Admission keeps pending <= settled so the subtraction can't wrap.
	pending := s.mempool.Amount(tx.FromID)
	if tx.Value > settled-pending {
		return fmt.Errorf("%w: balance %d, pending %d, value %d", ErrInsufficientFunds, settled, pending, tx.Value)
	}

	return nil
}

// PendingAmount returns the total value the account is sending in
// transactions that are still in the pool.
func (s *State) PendingAmount(accountID database.AccountID) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mempool.Amount(accountID)
}

// PendingTransactionsFrom returns the pending transactions sent by the
// account in submission order.
func (s *State) PendingTransactionsFrom(accountID database.AccountID) []database.Tx {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mempool.From(accountID)
}

// Mempool returns a copy of the pending transactions in submission order.
func (s *State) Mempool() []database.Tx {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mempool.Copy()
}
