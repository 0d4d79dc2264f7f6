package mempool_test

import (
	"testing"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/mempool"
	"github.com/ddknet/node/foundation/blockchain/transaction"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		trss []*transaction.Transaction
		best []string
	}

	tt := []table{
		{
			name: "basic",
			trss: []*transaction.Transaction{
				{ID: "b", SenderID: "DDK1", Type: transaction.TypeSend, Fee: 10, Timestamp: 2, Status: transaction.StatusUnconfirmApplied},
				{ID: "c", SenderID: "DDK2", Type: transaction.TypeVote, Fee: 50, Timestamp: 1, Status: transaction.StatusUnconfirmApplied},
				{ID: "d", SenderID: "DDK3", Type: transaction.TypeSend, Fee: 100, Timestamp: 3, Status: transaction.StatusUnconfirmApplied},
				{ID: "a", SenderID: "DDK4", Type: transaction.TypeRegister, Fee: 0, Timestamp: 4, Status: transaction.StatusUnconfirmApplied},
			},
			best: []string{"a", "d", "b"},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp, err := mempool.New()
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct the mempool: %v", failed, testID, err)
					}

					for _, trs := range tst.trss {
						if _, err := mp.Upsert(trs); err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to add new transaction: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould be able to add new transaction: %s", success, testID, trs.ID)
					}

					if _, err := mp.Upsert(&transaction.Transaction{}); !fault.IsValidation(err) {
						t.Fatalf("\t%s\tTest %d:\tShould refuse a transaction without an id: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould refuse a transaction without an id.", success, testID)

					for i, trs := range mp.PickBest(3) {
						if trs.ID != tst.best[i] {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, trs.ID)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.best[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back the transactions in block order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back the transactions in block order.", success, testID)

					if err := mp.SetStatus("b", transaction.StatusPutInPool); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to move the status: %v", failed, testID, err)
					}
					if trs, _ := mp.Get("b"); trs.Status != transaction.StatusPutInPool {
						t.Fatalf("\t%s\tTest %d:\tShould keep the new status: %s", failed, testID, trs.Status)
					}
					t.Logf("\t%s\tTest %d:\tShould keep the new status.", success, testID)

					if err := mp.SetStatus("b", transaction.StatusQueued); !fault.IsValidation(err) {
						t.Fatalf("\t%s\tTest %d:\tShould refuse a backward move: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould refuse a backward move.", success, testID)

					if _, err := mp.Get("zz"); !fault.IsNotFound(err) {
						t.Fatalf("\t%s\tTest %d:\tShould report a missing transaction: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould report a missing transaction.", success, testID)

					mp.Delete("c")
					if mp.Count() != 3 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to remove a transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to remove a transaction.", success, testID)

					mp.Truncate()
					if len(mp.Copy()) != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to truncate mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to truncate mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
