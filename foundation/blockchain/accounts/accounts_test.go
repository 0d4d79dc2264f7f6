package accounts_test

import (
	"errors"
	"testing"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	delegateKey  = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	delegateAddr = "DDK7035278622117199393"
)

func newLedger() *accounts.Ledger {
	gen := genesis.Default()
	gen.Balances = map[string]uint64{"DDK1": 1000, "DDK2": 0}
	gen.Delegates = []genesis.Delegate{{Username: "genesis_1", PublicKey: delegateKey}}

	return accounts.New(gen)
}

func TestGenesis(t *testing.T) {
	t.Log("Given the need to start the ledger from genesis.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen handling genesis balances and delegates.", testID)
		{
			ledger := newLedger()

			acct, exists := ledger.Account("DDK1")
			if !exists || acct.Balance != 1000 || acct.UBalance != 1000 {
				t.Fatalf("\t%s\tTest %d:\tShould set both balances from genesis: %+v", failed, testID, acct)
			}
			t.Logf("\t%s\tTest %d:\tShould set both balances from genesis.", success, testID)

			dlg, exists := ledger.DelegateByUsername("genesis_1")
			if !exists || dlg.Address != delegateAddr || !dlg.IsDelegate || !dlg.UIsDelegate {
				t.Fatalf("\t%s\tTest %d:\tShould register genesis delegates: %+v", failed, testID, dlg)
			}
			t.Logf("\t%s\tTest %d:\tShould register genesis delegates.", success, testID)

			if _, exists := ledger.DelegateByPublicKey(delegateKey); !exists {
				t.Fatalf("\t%s\tTest %d:\tShould find the delegate by public key.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould find the delegate by public key.", success, testID)
		}
	}
}

func TestUpdate(t *testing.T) {
	t.Log("Given the need to stage changes and commit them atomically.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a batch succeeds.", testID)
		{
			ledger := newLedger()

			committed, err := ledger.Update(func(b *accounts.Batch) error {
				if err := b.Debit("DDK1", 400); err != nil {
					return err
				}
				return b.Credit("DDK2", 400)
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to commit the batch: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to commit the batch.", success, testID)

			if len(committed) != 2 || committed[0].Address != "DDK1" || committed[1].Address != "DDK2" {
				t.Fatalf("\t%s\tTest %d:\tShould return the committed accounts in order: %+v", failed, testID, committed)
			}
			t.Logf("\t%s\tTest %d:\tShould return the committed accounts in order.", success, testID)

			a1, _ := ledger.Account("DDK1")
			a2, _ := ledger.Account("DDK2")
			if a1.Balance != 600 || a2.Balance != 400 {
				t.Fatalf("\t%s\tTest %d:\tShould move the balance, got %d and %d.", failed, testID, a1.Balance, a2.Balance)
			}
			t.Logf("\t%s\tTest %d:\tShould move the balance.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a batch fails part way.", testID)
		{
			ledger := newLedger()
			before := ledger.Copy()

			_, err := ledger.Update(func(b *accounts.Batch) error {
				if err := b.Credit("DDK2", 5000); err != nil {
					return err
				}
				return b.Debit("DDK1", 5000)
			})
			if !fault.IsVerification(err) {
				t.Fatalf("\t%s\tTest %d:\tShould get a verification error, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get a verification error.", success, testID)

			after := ledger.Copy()
			for addr, acct := range before {
				if after[addr].Balance != acct.Balance {
					t.Fatalf("\t%s\tTest %d:\tShould leave %s untouched.", failed, testID, addr)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould leave the ledger untouched.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen staging dapps and withdrawals.", testID)
		{
			ledger := newLedger()
			errStop := errors.New("stop")

			_, err := ledger.Update(func(b *accounts.Batch) error {
				if err := b.RegisterDapp(accounts.Dapp{ID: "1", Name: "game", Author: "DDK1"}); err != nil {
					return err
				}
				b.MarkOutTransfer("tx1")

				if _, exists := b.DappByName("game"); !exists {
					t.Fatalf("\t%s\tTest %d:\tShould see staged dapps inside the batch.", failed, testID)
				}
				if !b.OutTransferUsed("tx1") {
					t.Fatalf("\t%s\tTest %d:\tShould see staged withdrawals inside the batch.", failed, testID)
				}
				return errStop
			})
			if !errors.Is(err, errStop) {
				t.Fatalf("\t%s\tTest %d:\tShould return the batch error, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould see staged changes inside the batch.", success, testID)

			if _, exists := ledger.Dapp("1"); exists || ledger.OutTransferUsed("tx1") {
				t.Fatalf("\t%s\tTest %d:\tShould discard staged changes of a failed batch.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould discard staged changes of a failed batch.", success, testID)
		}
	}
}

func TestRecord(t *testing.T) {
	t.Log("Given the need to persist accounts as rows.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen handling a delegate with votes.", testID)
		{
			acct := accounts.Account{
				Address:          delegateAddr,
				PublicKey:        delegateKey,
				Balance:          500,
				UBalance:         400,
				Delegates:        []string{delegateKey},
				Username:         "genesis_1",
				IsDelegate:       true,
				MultiMin:         2,
				TotalFrozeAmount: 100,
			}

			got, err := accounts.FromRow(acct.Record().Row())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read the row: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to read the row.", success, testID)

			if got.Balance != 500 || got.UBalance != 400 || len(got.Delegates) != 1 || !got.IsDelegate || got.MultiMin != 2 || got.TotalFrozeAmount != 100 {
				t.Fatalf("\t%s\tTest %d:\tShould get back the same account: %+v", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the same account.", success, testID)

			row := acct.Record().Row()
			row["balance"] = "NaN"
			if _, err := accounts.FromRow(row); !fault.IsEncoding(err) {
				t.Fatalf("\t%s\tTest %d:\tShould reject a malformed balance, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a malformed balance.", success, testID)
		}
	}
}

func TestRestore(t *testing.T) {
	t.Log("Given the need to restore the ledger after a restart.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the stored account holds pending unconfirmed changes.", testID)
		{
			stored := accounts.Account{
				Address:           delegateAddr,
				PublicKey:         delegateKey,
				Balance:           500,
				UBalance:          300,
				Delegates:         []string{delegateKey},
				UDelegates:        []string{delegateKey, "aa"},
				Username:          "genesis_1",
				IsDelegate:        true,
				MultiMin:          2,
				UMultiMin:         3,
				TotalFrozeAmount:  100,
				UTotalFrozeAmount: 200,
			}

			ledger := newLedger()
			ledger.Restore([]accounts.Account{stored.Settle()})

			got, _ := ledger.Account(delegateAddr)
			if got.UBalance != 500 || got.UTotalFrozeAmount != 100 || len(got.UDelegates) != 1 || got.UMultiMin != 2 || got.UUsername != "genesis_1" || !got.UIsDelegate {
				t.Fatalf("\t%s\tTest %d:\tShould settle the unconfirmed fields: %+v", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould settle the unconfirmed fields.", success, testID)

			if got.Balance != 500 || got.TotalFrozeAmount != 100 || got.MultiMin != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould keep the confirmed fields: %+v", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the confirmed fields.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the chain holds a dapp and a withdrawal.", testID)
		{
			ledger := newLedger()
			ledger.RestoreRegistry([]accounts.Dapp{{ID: "d1", Author: "DDK1", Name: "chess"}}, []string{"w1"})

			if dapp, exists := ledger.DappByName("chess"); !exists || dapp.ID != "d1" {
				t.Fatalf("\t%s\tTest %d:\tShould restore the dapp: %+v", failed, testID, dapp)
			}
			t.Logf("\t%s\tTest %d:\tShould restore the dapp.", success, testID)

			if !ledger.OutTransferUsed("w1") || ledger.OutTransferUsed("w2") {
				t.Fatalf("\t%s\tTest %d:\tShould restore only the withdrawn ids.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould restore only the withdrawn ids.", success, testID)
		}
	}
}
