package memory_test

import (
	"context"
	"testing"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
	"github.com/ddknet/node/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newStore(t *testing.T) storage.Store {
	return memory.New()
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Log("Given the need to save and read back records.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen handling a set of transaction records.", testID)
		{
			store := newStore(t)
			defer store.Close()

			recs := []storage.Record{
				{Table: storage.TableTransactions, Fields: []string{"id", "amount"}, Values: map[string]any{"id": "b", "amount": uint64(20)}},
				{Table: storage.TableTransactions, Fields: []string{"id", "amount"}, Values: map[string]any{"id": "a", "amount": uint64(10)}},
				{Table: storage.TableBlocks, Fields: []string{"id"}, Values: map[string]any{"id": "x"}},
			}

			if err := store.Save(ctx, recs...); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to save records: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to save records.", success, testID)

			row, err := store.Get(ctx, storage.TableTransactions, "a")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to get a row: %v", failed, testID, err)
			}
			if row["t_amount"] != "10" {
				t.Fatalf("\t%s\tTest %d:\tShould get the prefixed amount, got %v.", failed, testID, row)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to get a row.", success, testID)

			rows, err := store.List(ctx, storage.TableTransactions)
			if err != nil || len(rows) != 2 || rows[0]["t_id"] != "a" {
				t.Fatalf("\t%s\tTest %d:\tShould list rows of one table by key, got %v %v.", failed, testID, rows, err)
			}
			t.Logf("\t%s\tTest %d:\tShould list rows of one table by key.", success, testID)

			if err := store.Delete(ctx, storage.TableTransactions, "a", "missing"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to delete rows: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to delete rows.", success, testID)

			_, err = store.Get(ctx, storage.TableTransactions, "a")
			if !fault.IsNotFound(err) {
				t.Fatalf("\t%s\tTest %d:\tShould get a not found error, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get a not found error.", success, testID)
		}
	}
}
