package public

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type genesisInfo struct {
	Symbol            string             `json:"symbol"`
	Difficulty        int                `json:"difficulty"`
	GenesisDifficulty int                `json:"genesis_difficulty"`
	MiningReward      int64              `json:"mining_reward"`
	TimeStamp         int64              `json:"timestamp"`
	MaxAttempts       uint64             `json:"max_attempts"`
	FundingAccount    database.AccountID `json:"funding_account"`
	GenesisHash       string             `json:"genesis_hash"`
}

// submitTx is the payload a wallet sends to have a signed transaction
// admitted to the pool.
type submitTx struct {
	From      database.AccountID `json:"from" validate:"required"`
	To        database.AccountID `json:"to" validate:"required"`
	Value     int64              `json:"value"`
	TimeStamp int64              `json:"timestamp" validate:"gt=0"`
	Signature hexutil.Bytes      `json:"signature" validate:"required"`
}

func (st submitTx) toDatabaseTx() database.Tx {
	return database.Tx{
		FromID:    st.From,
		ToID:      st.To,
		Value:     st.Value,
		TimeStamp: st.TimeStamp,
		Signature: st.Signature,
	}
}

type submitResult struct {
	Status      string `json:"status"`
	Fingerprint string `json:"fingerprint"`
	Pending     int64  `json:"pending"`
}

type tx struct {
	FromAccount database.AccountID `json:"from"`
	FromName    string             `json:"from_name"`
	To          database.AccountID `json:"to"`
	ToName      string             `json:"to_name"`
	Value       int64              `json:"value"`
	TimeStamp   int64              `json:"timestamp"`
	Fingerprint string             `json:"fingerprint"`
	Sig         string             `json:"sig,omitempty"`
}

type block struct {
	Number        uint64 `json:"number"`
	TimeStamp     int64  `json:"timestamp"`
	PrevBlockHash string `json:"prev_block_hash"`
	Nonce         uint64 `json:"nonce"`
	Hash          string `json:"hash"`
	Trans         []tx   `json:"txs"`
}

type balance struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance int64              `json:"balance"`
	Pending int64              `json:"pending"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

type validation struct {
	Valid  bool   `json:"valid"`
	Blocks uint64 `json:"blocks"`
	Block  uint64 `json:"block"`
	Check  string `json:"check,omitempty"`
	Error  string `json:"error,omitempty"`
}
