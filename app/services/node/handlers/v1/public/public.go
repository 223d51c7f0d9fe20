// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ledgerErrors maps the expected ledger errors to the status returned to
// the client.
var ledgerErrors = []errs.Mapping{
	{Err: state.ErrInvalidTransaction, Status: http.StatusBadRequest},
	{Err: state.ErrInsufficientFunds, Status: http.StatusBadRequest},
	{Err: state.ErrInvalidAccount, Status: http.StatusBadRequest},
	{Err: database.ErrBlockNotFound, Status: http.StatusNotFound},
	{Err: database.ErrMiningExhausted, Status: http.StatusServiceUnavailable},
	{Err: context.DeadlineExceeded, Status: http.StatusServiceUnavailable},
}

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log           *zap.SugaredLogger
	State         *state.State
	NS            *nameservice.NameService
	WS            websocket.Upgrader
	Evts          *events.Events
	Miner         database.Signer
	MiningTimeout time.Duration
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.Genesis()

	blk, err := h.State.BlockByNumber(0)
	if err != nil {
		return err
	}

	info := genesisInfo{
		Symbol:            gen.Symbol,
		Difficulty:        gen.Difficulty,
		GenesisDifficulty: gen.GenesisDifficulty,
		MiningReward:      gen.MiningReward,
		TimeStamp:         gen.TimeStamp,
		MaxAttempts:       gen.MaxAttempts,
		FundingAccount:    h.State.FundingID(),
		GenesisHash:       blk.Hash,
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}

// SubmitTransaction adds a signed wallet transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req submitTx
	if err := web.Decode(r, &req); err != nil {
		return err
	}
	dbTx := req.toDatabaseTx()

	h.Log.Infow("submit tran", "traceid", v.TraceID, "from", dbTx.FromID.Short(), "to", dbTx.ToID.Short(), "value", dbTx.Value)

	if err := h.State.AdmitTransaction(dbTx); err != nil {
		return errs.Classify(err, ledgerErrors...)
	}

	resp := submitResult{
		Status:      "transaction added to mempool",
		Fingerprint: dbTx.FingerprintHex(),
		Pending:     h.State.PendingAmount(dbTx.FromID),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions, optionally only the
// ones sent by an account.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var pool []database.Tx

	switch account := web.Param(r, "account"); account {
	case "":
		pool = h.State.Mempool()

	default:
		accountID, err := h.NS.Resolve(account)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		pool = h.State.PendingTransactionsFrom(accountID)
	}

	trans := make([]tx, len(pool))
	for i, tran := range pool {
		trans[i] = h.toTx(tran)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Balances returns the settled balances replayed from the chain along with
// what each account has pending.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var sheet map[database.AccountID]int64

	switch account := web.Param(r, "account"); account {
	case "":
		all, err := h.State.Balances()
		if err != nil {
			return err
		}
		sheet = all

	default:
		accountID, err := h.NS.Resolve(account)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		bal, err := h.State.BalanceOf(accountID)
		if err != nil {
			return errs.Classify(err, ledgerErrors...)
		}
		sheet = map[database.AccountID]int64{accountID: bal}
	}

	bals := make([]balance, 0, len(sheet))
	for accountID, bal := range sheet {
		bals = append(bals, balance{
			Account: accountID,
			Name:    h.NS.Lookup(accountID),
			Balance: bal,
			Pending: h.State.PendingAmount(accountID),
		})
	}
	slices.SortFunc(bals, func(a, b balance) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})

	latest, err := h.State.LatestBlock()
	if err != nil {
		return err
	}

	resp := balances{
		LatestBlock: latest.Hash,
		Uncommitted: len(h.State.Mempool()),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns all the blocks and their details.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks, err := h.State.Blocks()
	if err != nil {
		return err
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = h.toBlock(uint64(i), blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// ValidateChain reports whether the chain passes every integrity check and
// names the first block that doesn't.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := validation{
		Valid:  true,
		Blocks: h.State.BlockCount(),
	}

	if err := h.State.ValidateChain(); err != nil {
		var ve *state.ValidationError
		if !errors.As(err, &ve) {
			return err
		}

		resp.Valid = false
		resp.Block = ve.Block
		resp.Check = ve.Check
		resp.Error = ve.Err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine mines the pending transactions into a new block, crediting the
// reward to the node's miner account.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	ctx, cancel := context.WithTimeout(ctx, h.MiningTimeout)
	defer cancel()

	h.Log.Infow("mine block", "traceid", v.TraceID, "pending", len(h.State.Mempool()))

	blk, number, err := h.State.MinePendingTransactions(ctx, h.Miner)
	if err != nil {
		return errs.Classify(err, ledgerErrors...)
	}

	return web.Respond(ctx, w, h.toBlock(number, blk), http.StatusOK)
}

// =============================================================================

func (h Handlers) toTx(tran database.Tx) tx {
	var sig string
	if len(tran.Signature) > 0 {
		sig = tran.Signature.String()
	}

	return tx{
		FromAccount: tran.FromID,
		FromName:    h.NS.Lookup(tran.FromID),
		To:          tran.ToID,
		ToName:      h.NS.Lookup(tran.ToID),
		Value:       tran.Value,
		TimeStamp:   tran.TimeStamp,
		Fingerprint: tran.FingerprintHex(),
		Sig:         sig,
	}
}

func (h Handlers) toBlock(number uint64, blk database.Block) block {
	trans := make([]tx, len(blk.Trans))
	for i, tran := range blk.Trans {
		trans[i] = h.toTx(tran)
	}

	return block{
		Number:        number,
		TimeStamp:     blk.TimeStamp,
		PrevBlockHash: blk.PrevBlockHash,
		Nonce:         blk.Nonce,
		Hash:          blk.Hash,
		Trans:         trans,
	}
}
