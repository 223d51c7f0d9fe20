package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/app/services/node/handlers"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	secretA = "28CA6A9D397CA4C49A2BB9E7A5593548EBB1E9ABC6C93E859A42BC24A13D55FC"
	secretB = "AD47604AD676051E20ABBA120ED9B65BE6BFC2E12A1653006DC051EB4BF952D0"
)

// =============================================================================

type ledgerTests struct {
	app   http.Handler
	debug http.Handler
	keyA  *signature.Key
	keyB  *signature.Key
}

func Test_Ledger(t *testing.T) {
	var curve signature.Curve

	keyA, err := curve.FromSecret(secretA)
	if err != nil {
		t.Fatalf("Should be able to load key A: %s", err)
	}
	keyB, err := curve.FromSecret(secretB)
	if err != nil {
		t.Fatalf("Should be able to load key B: %s", err)
	}

	g := genesis.Default()
	g.Difficulty = 1
	g.GenesisDifficulty = 1

	st, err := state.New(context.Background(), state.Config{
		Genesis:    g,
		FundingKey: keyA,
		Curve:      curve,
	})
	if err != nil {
		t.Fatalf("Should be able to start the ledger: %s", err)
	}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to start the name service: %s", err)
	}

	log := zap.NewNop().Sugar()

	lt := ledgerTests{
		app: handlers.PublicMux(handlers.MuxConfig{
			Shutdown:      make(chan os.Signal, 1),
			Log:           log,
			State:         st,
			NS:            ns,
			Evts:          events.New(),
			Miner:         keyA,
			MiningTimeout: time.Minute,
			CORSOrigin:    "*",
		}),
		debug: handlers.DebugMux("test", log, st),
		keyA:  keyA,
		keyB:  keyB,
	}

	t.Run("genesis", lt.genesis)
	t.Run("submit", lt.submit)
	t.Run("mine", lt.mine)
	t.Run("balances", lt.balances)
	t.Run("validate", lt.validate)
	t.Run("readiness", lt.readiness)
}

func (lt *ledgerTests) genesis(t *testing.T) {
	t.Log("Given the need to read the genesis information.")
	{
		var got struct {
			FundingAccount string `json:"funding_account"`
			GenesisHash    string `json:"genesis_hash"`
		}
		lt.do(t, http.MethodGet, "/v1/genesis", nil, http.StatusOK, &got)

		if got.FundingAccount != lt.keyA.PublicIdentity() || len(got.GenesisHash) != 64 {
			t.Fatalf("\t%s\tShould get the funding account and the genesis hash: %+v", failed, got)
		}
		t.Logf("\t%s\tShould get the funding account and the genesis hash.", success)
	}
}

func (lt *ledgerTests) submit(t *testing.T) {
	t.Log("Given the need to submit transactions.")
	{
		lt.do(t, http.MethodPost, "/v1/tx/submit", lt.signed(t, 10), http.StatusOK, nil)
		t.Logf("\t%s\tShould admit a funded transaction.", success)

		var er errs.Response
		lt.do(t, http.MethodPost, "/v1/tx/submit", lt.signed(t, 1000), http.StatusBadRequest, &er)
		if !strings.Contains(er.Error, state.ErrInsufficientFunds.Error()) {
			t.Fatalf("\t%s\tShould explain the refusal, got %q.", failed, er.Error)
		}
		t.Logf("\t%s\tShould refuse an overspend with the reason.", success)

		unsigned := database.NewTx(database.AccountID(lt.keyA.PublicIdentity()), database.AccountID(lt.keyB.PublicIdentity()), 5)
		er = errs.Response{}
		lt.do(t, http.MethodPost, "/v1/tx/submit", unsigned, http.StatusBadRequest, &er)
		if _, exists := er.Fields["signature"]; !exists {
			t.Fatalf("\t%s\tShould report the missing signature field: %+v", failed, er)
		}
		t.Logf("\t%s\tShould report the missing signature field.", success)

		var pool []map[string]any
		lt.do(t, http.MethodGet, "/v1/mempool/"+lt.keyA.PublicIdentity(), nil, http.StatusOK, &pool)
		if len(pool) != 1 {
			t.Fatalf("\t%s\tShould have one pending transaction, got %d.", failed, len(pool))
		}
		t.Logf("\t%s\tShould have one pending transaction.", success)
	}
}

func (lt *ledgerTests) mine(t *testing.T) {
	t.Log("Given the need to mine the pending transactions.")
	{
		var got struct {
			Number uint64           `json:"number"`
			Trans  []map[string]any `json:"txs"`
		}
		lt.do(t, http.MethodPost, "/v1/mine", nil, http.StatusOK, &got)

		if got.Number != 1 || len(got.Trans) != 2 {
			t.Fatalf("\t%s\tShould mine block 1 with the reward and the transaction: %+v", failed, got)
		}
		t.Logf("\t%s\tShould mine block 1 with the reward and the transaction.", success)

		var pool []map[string]any
		lt.do(t, http.MethodGet, "/v1/mempool", nil, http.StatusOK, &pool)
		if len(pool) != 0 {
			t.Fatalf("\t%s\tShould empty the pool, got %d.", failed, len(pool))
		}
		t.Logf("\t%s\tShould empty the pool.", success)

		var blocks []map[string]any
		lt.do(t, http.MethodGet, "/v1/blocks/list", nil, http.StatusOK, &blocks)
		if len(blocks) != 2 {
			t.Fatalf("\t%s\tShould list two blocks, got %d.", failed, len(blocks))
		}
		t.Logf("\t%s\tShould list two blocks.", success)
	}
}

func (lt *ledgerTests) balances(t *testing.T) {
	type table struct {
		name    string
		account string
		balance int64
	}

	tt := []table{
		{"funder", lt.keyA.PublicIdentity(), 90},
		{"receiver", lt.keyB.PublicIdentity(), 10},
	}

	t.Log("Given the need to read the settled balances.")
	{
		for testID, tst := range tt {
			var got struct {
				Balances []struct {
					Balance int64 `json:"balance"`
				} `json:"balances"`
			}
			lt.do(t, http.MethodGet, "/v1/balances/list/"+tst.account, nil, http.StatusOK, &got)

			if len(got.Balances) != 1 || got.Balances[0].Balance != tst.balance {
				t.Fatalf("\t%s\tTest %d:\tShould have a balance of %d: %+v", failed, testID, tst.balance, got)
			}
			t.Logf("\t%s\tTest %d:\tShould have a balance of %d.", success, testID, tst.balance)
		}

		lt.do(t, http.MethodGet, "/v1/balances/list/bill", nil, http.StatusBadRequest, nil)
		t.Logf("\t%s\tShould refuse an unknown account.", success)
	}
}

func (lt *ledgerTests) validate(t *testing.T) {
	t.Log("Given the need to validate the chain.")
	{
		var got struct {
			Valid  bool   `json:"valid"`
			Blocks uint64 `json:"blocks"`
		}
		lt.do(t, http.MethodGet, "/v1/chain/validate", nil, http.StatusOK, &got)

		if !got.Valid || got.Blocks != 2 {
			t.Fatalf("\t%s\tShould report a valid chain of two blocks: %+v", failed, got)
		}
		t.Logf("\t%s\tShould report a valid chain of two blocks.", success)
	}
}

func (lt *ledgerTests) readiness(t *testing.T) {
	t.Log("Given the need to check the node is ready.")
	{
		r := httptest.NewRequest(http.MethodGet, "/debug/readiness", nil)
		w := httptest.NewRecorder()
		lt.debug.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould receive a status code of 200, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould receive a status code of 200.", success)
	}
}

// =============================================================================

func Test_ValidateGenesis(t *testing.T) {
	var curve signature.Curve

	keyA, err := curve.FromSecret(secretA)
	if err != nil {
		t.Fatalf("Should be able to load key A: %s", err)
	}

	g := genesis.Default()
	g.Difficulty = 1
	g.GenesisDifficulty = 1

	strg := &genesisStore{Memory: memory.New()}
	st, err := state.New(context.Background(), state.Config{
		Genesis:    g,
		FundingKey: keyA,
		Curve:      curve,
		Storage:    strg,
	})
	if err != nil {
		t.Fatalf("Should be able to start the ledger: %s", err)
	}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to start the name service: %s", err)
	}

	lt := ledgerTests{
		app: handlers.PublicMux(handlers.MuxConfig{
			Shutdown:      make(chan os.Signal, 1),
			Log:           zap.NewNop().Sugar(),
			State:         st,
			NS:            ns,
			Evts:          events.New(),
			Miner:         keyA,
			MiningTimeout: time.Minute,
			CORSOrigin:    "*",
		}),
	}

	t.Log("Given the need to report a tampered genesis block.")
	{
		strg.tampered = true

		var got map[string]any
		lt.do(t, http.MethodGet, "/v1/chain/validate", nil, http.StatusOK, &got)

		if got["valid"] != false || got["check"] != state.CheckGenesis {
			t.Fatalf("\t%s\tShould report the genesis check failing: %+v", failed, got)
		}
		t.Logf("\t%s\tShould report the genesis check failing.", success)

		if block, exists := got["block"]; !exists || block != float64(0) {
			t.Fatalf("\t%s\tShould report block 0 as the failing block: %+v", failed, got)
		}
		t.Logf("\t%s\tShould report block 0 as the failing block.", success)
	}
}

// genesisStore changes the genesis nonce on the way out once tampered is set.
type genesisStore struct {
	*memory.Memory
	tampered bool
}

func (gs *genesisStore) GetBlock(num uint64) (database.Block, error) {
	block, err := gs.Memory.GetBlock(num)
	if err == nil && num == 0 && gs.tampered {
		block.Nonce++
	}

	return block, err
}

func (gs *genesisStore) ForEach() database.Iterator {
	return &genesisIterator{store: gs}
}

type genesisIterator struct {
	store   *genesisStore
	current uint64
	eoc     bool
}

func (gi *genesisIterator) Next() (database.Block, error) {
	if gi.eoc {
		return database.Block{}, database.ErrBlockNotFound
	}

	block, err := gi.store.GetBlock(gi.current)
	if err != nil {
		gi.eoc = true
	}
	gi.current++

	return block, err
}

func (gi *genesisIterator) Done() bool {
	return gi.eoc
}

// =============================================================================

func (lt *ledgerTests) signed(t *testing.T, value int64) database.Tx {
	t.Helper()

	tx := database.NewTx(database.AccountID(lt.keyA.PublicIdentity()), database.AccountID(lt.keyB.PublicIdentity()), value)
	if err := tx.Sign(lt.keyA); err != nil {
		t.Fatalf("Should be able to sign the transaction: %s", err)
	}

	return tx
}

func (lt *ledgerTests) do(t *testing.T, method string, path string, body any, status int, resp any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Should be able to encode the body: %s", err)
		}
	}

	r := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	lt.app.ServeHTTP(w, r)

	if w.Code != status {
		t.Fatalf("\t%s\tShould receive a status code of %d for %s %s, got %d: %s", failed, status, method, path, w.Code, w.Body.String())
	}

	if resp != nil {
		if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
			t.Fatalf("Should be able to decode the response: %s", err)
		}
	}
}
