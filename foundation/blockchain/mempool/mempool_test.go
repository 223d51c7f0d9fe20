package mempool_test

import (
	"math"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name    string
		txs     []database.Tx
		from    database.AccountID
		amount  int64
		fromIdx []int
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				{FromID: "bill", ToID: "pavel", Value: 17},
				{FromID: "pavel", ToID: "bill", Value: 3},
				{FromID: "bill", ToID: "edu", Value: 13},
				{FromID: "edu", ToID: "bill", Value: 1},
			},
			from:    "bill",
			amount:  30,
			fromIdx: []int{0, 2},
		},
		{
			name: "maxvalue",
			txs: []database.Tx{
				{FromID: "edu", ToID: "bill", Value: math.MaxInt64 - 5},
				{FromID: "bill", ToID: "edu", Value: 10},
				{FromID: "bill", ToID: "pavel", Value: math.MaxInt64 - 20},
			},
			from:    "bill",
			amount:  math.MaxInt64 - 10,
			fromIdx: []int{1, 2},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for i, tx := range tst.txs {
						if n := mp.Append(tx); n != i+1 {
							t.Fatalf("\t%s\tTest %d:\tShould grow the pool by one, got %d.", failed, testID, n)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to add new transactions.", success, testID)

					for i, tx := range mp.Copy() {
						if !same(tx, tst.txs[i]) {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i])
							t.Fatalf("\t%s\tTest %d:\tShould keep submission order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould keep submission order.", success, testID)

					if got := mp.Amount(tst.from); got != tst.amount {
						t.Fatalf("\t%s\tTest %d:\tShould sum the pending amount, got %d, exp %d.", failed, testID, got, tst.amount)
					}
					t.Logf("\t%s\tTest %d:\tShould sum the pending amount.", success, testID)

					from := mp.From(tst.from)
					if len(from) != len(tst.fromIdx) {
						t.Fatalf("\t%s\tTest %d:\tShould select the sender's transactions, got %d.", failed, testID, len(from))
					}
					for i, idx := range tst.fromIdx {
						if !same(from[i], tst.txs[idx]) {
							t.Fatalf("\t%s\tTest %d:\tShould select the sender's transactions in order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould select the sender's transactions in order.", success, testID)

					mp.Truncate()
					if mp.Count() != 0 || len(mp.Copy()) != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to truncate mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to truncate mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

// same compares the fields the pool is expected to keep intact.
func same(a, b database.Tx) bool {
	return a.FromID == b.FromID && a.ToID == b.ToID && a.Value == b.Value && a.TimeStamp == b.TimeStamp
}
