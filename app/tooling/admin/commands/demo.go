// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

// Report is the outcome of a demo run.
type Report struct {
	Balances map[string]int64
	Blocks   uint64
	Valid    bool
}

// Demo runs three wallets through two mined blocks on a fresh ledger and
// prints the balances and the validation result.
//
//	bill sends 10 to pavel and 20 to edu, bill mines
//	edu sends 11 to pavel, bill sends 8 to pavel, edu mines
func Demo(ctx context.Context, w io.Writer, g genesis.Genesis, ev database.EventHandler) (Report, error) {
	var curve signature.Curve

	names := []string{"bill", "pavel", "edu"}
	keys := make(map[string]*signature.Key, len(names))
	for _, name := range names {
		key, err := curve.Generate()
		if err != nil {
			return Report{}, fmt.Errorf("generating key for %s: %w", name, err)
		}
		keys[name] = key
	}

	st, err := state.New(ctx, state.Config{
		Genesis:    g,
		FundingKey: keys["bill"],
		Curve:      curve,
		EvHandler:  ev,
	})
	if err != nil {
		return Report{}, err
	}

	send := func(from string, to string, value int64) error {
		tx := database.NewTx(database.AccountID(keys[from].PublicIdentity()), database.AccountID(keys[to].PublicIdentity()), value)
		if err := tx.Sign(keys[from]); err != nil {
			return err
		}
		if err := st.AdmitTransaction(tx); err != nil {
			return fmt.Errorf("%s sends %d to %s: %w", from, value, to, err)
		}
		fmt.Fprintf(w, "%s sends %d to %s\n", from, value, to)
		return nil
	}

	mine := func(miner string) error {
		blk, number, err := st.MinePendingTransactions(ctx, keys[miner])
		if err != nil {
			return fmt.Errorf("%s mining: %w", miner, err)
		}
		fmt.Fprintf(w, "%s mined block %d %s nonce %d\n", miner, number, blk.Hash, blk.Nonce)
		return nil
	}

	steps := []func() error{
		func() error { return send("bill", "pavel", 10) },
		func() error { return send("bill", "edu", 20) },
		func() error { return mine("bill") },
		func() error { return send("edu", "pavel", 11) },
		func() error { return send("bill", "pavel", 8) },
		func() error { return mine("edu") },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return Report{}, err
		}
	}

	report := Report{
		Balances: make(map[string]int64, len(names)),
		Blocks:   st.BlockCount(),
	}

	fmt.Fprintln(w)
	for _, name := range names {
		bal, err := st.BalanceOf(database.AccountID(keys[name].PublicIdentity()))
		if err != nil {
			return Report{}, err
		}
		report.Balances[name] = bal
		fmt.Fprintf(w, "Account: %-6s Balance: %d %s\n", name, bal, g.Symbol)
	}

	if err := st.ValidateChain(); err != nil {
		fmt.Fprintf(w, "\nChain is NOT valid: %s\n", err)
		return report, nil
	}

	report.Valid = true
	fmt.Fprintf(w, "\nChain of %d blocks is valid\n", report.Blocks)

	return report, nil
}
