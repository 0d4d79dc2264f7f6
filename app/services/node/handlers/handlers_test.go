package handlers_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ddknet/node/app/services/node/handlers"
	"github.com/ddknet/node/foundation/blockchain/genesis"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/blockchain/state"
	"github.com/ddknet/node/foundation/blockchain/storage/memory"
	"github.com/ddknet/node/foundation/blockchain/transaction"
	"github.com/ddknet/node/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	generatorSeed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	generatorKey  = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	generatorAddr = "DDK7035278622117199393"
	passphrase    = "seed sock milk update focus rotate barely fade car face mechanic mercy"
	senderAddr    = "DDK17531942737576964931"
	startBalance  = 10_000_000_000
)

func newNode(t *testing.T) (*state.State, http.Handler) {
	t.Helper()

	gen := genesis.Default()
	gen.Balances = map[string]uint64{senderAddr: startBalance}
	gen.Delegates = []genesis.Delegate{{Username: "genesis_1", PublicKey: generatorKey}}

	st, err := state.New(state.Config{
		Genesis:        gen,
		Storage:        memory.New(),
		SelectStrategy: "priority",
		Now:            func() time.Time { return gen.EpochTime.Add(1_000_000 * time.Second) },
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to start the node: %v", failed, err)
	}
	t.Cleanup(func() { st.Shutdown() })

	mux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Evts:     events.New(),
		Origins:  []string{"*"},
	})

	return st, mux
}

func call(t *testing.T, mux http.Handler, method string, target string, body any, resp any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("\t%s\tShould encode the request: %v", failed, err)
		}
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, target, &buf))

	if resp != nil {
		if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
			t.Fatalf("\t%s\tShould decode the response of %s: %v", failed, target, err)
		}
	}

	return w.Code
}

// =============================================================================

func TestTransactionRoutes(t *testing.T) {
	fee := genesis.Default().Fees.Send

	t.Log("Given the need to submit and inspect transactions over the api.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen submitting a signed transfer.", testID)
		{
			st, mux := newNode(t)

			eng := st.Transactions()
			trs, err := eng.Create(transaction.CreateArgs{
				Type:        transaction.TypeSend,
				KeyPair:     signature.NewKeyPair(passphrase),
				RecipientID: generatorAddr,
				Amount:      100_000_000,
				Timestamp:   eng.Timestamp(),
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould create the transaction: %v", failed, testID, err)
			}
			body := map[string]any{"transaction": trs}

			var submitted struct {
				Success       bool   `json:"success"`
				TransactionID string `json:"transactionId"`
			}
			if code := call(t, mux, http.MethodPut, "/api/transactions", body, &submitted); code != http.StatusOK || submitted.TransactionID != trs.ID {
				t.Fatalf("\t%s\tTest %d:\tShould accept the transaction: %d %+v", failed, testID, code, submitted)
			}
			t.Logf("\t%s\tTest %d:\tShould accept the transaction.", success, testID)

			var refused struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			if code := call(t, mux, http.MethodPut, "/api/transactions", body, &refused); code != http.StatusBadRequest || refused.Success || refused.Error == "" {
				t.Fatalf("\t%s\tTest %d:\tShould refuse the same transaction twice: %d %+v", failed, testID, code, refused)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse the same transaction twice.", success, testID)

			var list struct {
				Count int `json:"count"`
			}
			call(t, mux, http.MethodGet, "/api/transactions/unconfirmed?address="+senderAddr, nil, &list)
			if list.Count != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould list the pooled transaction: got %d", failed, testID, list.Count)
			}
			call(t, mux, http.MethodGet, "/api/transactions/unconfirmed?address=DDK1", nil, &list)
			if list.Count != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould filter the pool by address: got %d", failed, testID, list.Count)
			}
			t.Logf("\t%s\tTest %d:\tShould list and filter the pool.", success, testID)

			var one struct {
				Transaction struct {
					ID     string `json:"id"`
					Status string `json:"status"`
				} `json:"transaction"`
			}
			if code := call(t, mux, http.MethodGet, "/api/transactions/unconfirmed/get?id="+trs.ID, nil, &one); code != http.StatusOK || one.Transaction.Status != "PUT_IN_POOL" {
				t.Fatalf("\t%s\tTest %d:\tShould get the pooled transaction: %d %+v", failed, testID, code, one)
			}
			t.Logf("\t%s\tTest %d:\tShould get the pooled transaction.", success, testID)

			var bal struct {
				Balance            uint64 `json:"balance"`
				UnconfirmedBalance uint64 `json:"unconfirmedBalance"`
			}
			call(t, mux, http.MethodGet, "/api/accounts/getBalance?address="+senderAddr, nil, &bal)
			if bal.Balance != startBalance || bal.UnconfirmedBalance != startBalance-100_000_000-fee {
				t.Fatalf("\t%s\tTest %d:\tShould report both balances: %+v", failed, testID, bal)
			}
			t.Logf("\t%s\tTest %d:\tShould report both balances.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen requests are malformed.", testID)
		{
			_, mux := newNode(t)

			tt := []struct {
				method string
				target string
				body   any
				status int
			}{
				{http.MethodPut, "/api/transactions", map[string]any{}, http.StatusBadRequest},
				{http.MethodGet, "/api/transactions/unconfirmed/get", nil, http.StatusBadRequest},
				{http.MethodGet, "/api/transactions/unconfirmed/get?id=" + strings.Repeat("0", 64), nil, http.StatusNotFound},
				{http.MethodGet, "/api/accounts/getBalance", nil, http.StatusBadRequest},
				{http.MethodGet, "/api/accounts?address=DDK1", nil, http.StatusNotFound},
			}

			for _, tst := range tt {
				if code := call(t, mux, tst.method, tst.target, tst.body, nil); code != tst.status {
					t.Fatalf("\t%s\tTest %d:\tShould get %d for %s %s: got %d", failed, testID, tst.status, tst.method, tst.target, code)
				}
				t.Logf("\t%s\tTest %d:\tShould get %d for %s %s.", success, testID, tst.status, tst.method, tst.target)
			}
		}
	}
}

func TestBlockRoutes(t *testing.T) {
	ctx := context.Background()

	t.Log("Given the need to read the chain over the api.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a block has been forged.", testID)
		{
			st, mux := newNode(t)

			eng := st.Transactions()
			trs, err := eng.Create(transaction.CreateArgs{
				Type:        transaction.TypeSend,
				KeyPair:     signature.NewKeyPair(passphrase),
				RecipientID: generatorAddr,
				Amount:      100_000_000,
				Timestamp:   eng.Timestamp(),
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould create the transaction: %v", failed, testID, err)
			}
			if err := st.SubmitTransaction(ctx, trs); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould submit the transaction: %v", failed, testID, err)
			}

			seed, _ := hex.DecodeString(generatorSeed)
			blk, err := st.ForgeBlock(ctx, signature.FromSeed(seed))
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould forge a block: %v", failed, testID, err)
			}

			var height struct {
				Height uint64 `json:"height"`
			}
			call(t, mux, http.MethodGet, "/api/blocks/getHeight", nil, &height)
			if height.Height != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould report height 1: got %d", failed, testID, height.Height)
			}
			t.Logf("\t%s\tTest %d:\tShould report height 1.", success, testID)

			var one struct {
				Block struct {
					ID            string `json:"id"`
					Username      string `json:"username"`
					Confirmations uint64 `json:"confirmations"`
					Transactions  []struct {
						ID string `json:"id"`
					} `json:"transactions"`
				} `json:"block"`
			}
			if code := call(t, mux, http.MethodGet, "/api/blocks/get?id="+blk.ID, nil, &one); code != http.StatusOK || one.Block.Username != "genesis_1" || one.Block.Confirmations != 1 || len(one.Block.Transactions) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould get the block: %d %+v", failed, testID, code, one)
			}
			t.Logf("\t%s\tTest %d:\tShould get the block.", success, testID)

			var list struct {
				Count  int `json:"count"`
				Blocks []struct {
					ID string `json:"id"`
				} `json:"blocks"`
			}
			call(t, mux, http.MethodGet, "/api/blocks?generatorPublicKey="+generatorKey+"&orderBy=height:asc", nil, &list)
			if list.Count != 1 || len(list.Blocks) != 1 || list.Blocks[0].ID != blk.ID {
				t.Fatalf("\t%s\tTest %d:\tShould list the block: %+v", failed, testID, list)
			}
			t.Logf("\t%s\tTest %d:\tShould list the block.", success, testID)

			var status struct {
				Success bool   `json:"success"`
				Height  uint64 `json:"height"`
				Nethash string `json:"nethash"`
				Fee     uint64 `json:"fee"`
			}
			call(t, mux, http.MethodGet, "/api/blocks/getStatus", nil, &status)
			if !status.Success || status.Height != 1 || status.Nethash != "ddk-mainnet" || status.Fee != genesis.Default().Fees.Send {
				t.Fatalf("\t%s\tTest %d:\tShould report the chain status: %+v", failed, testID, status)
			}
			t.Logf("\t%s\tTest %d:\tShould report the chain status.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen block queries are malformed.", testID)
		{
			_, mux := newNode(t)

			tt := []struct {
				target string
				status int
			}{
				{"/api/blocks?limit=500", http.StatusBadRequest},
				{"/api/blocks?offset=-1", http.StatusBadRequest},
				{"/api/blocks?height=abc", http.StatusBadRequest},
				{"/api/blocks?orderBy=payloadHash:asc", http.StatusBadRequest},
				{"/api/blocks/get", http.StatusBadRequest},
				{"/api/blocks/get?id=" + strings.Repeat("0", 64), http.StatusNotFound},
			}

			for _, tst := range tt {
				if code := call(t, mux, http.MethodGet, tst.target, nil, nil); code != tst.status {
					t.Fatalf("\t%s\tTest %d:\tShould get %d for %s: got %d", failed, testID, tst.status, tst.target, code)
				}
				t.Logf("\t%s\tTest %d:\tShould get %d for %s.", success, testID, tst.status, tst.target)
			}
		}
	}
}
