package worker_test

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/ddknet/node/foundation/blockchain/genesis"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/blockchain/state"
	"github.com/ddknet/node/foundation/blockchain/storage/memory"
	"github.com/ddknet/node/foundation/blockchain/transaction"
	"github.com/ddknet/node/foundation/blockchain/worker"
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
)

func TestForging(t *testing.T) {
	t.Log("Given the need to forge pooled transactions in the background.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a transaction is submitted.", testID)
		{
			gen := genesis.Default()
			gen.Balances = map[string]uint64{signature.NewKeyPair(passphrase).Address(): 1_000_000_000}
			gen.Delegates = []genesis.Delegate{{Username: "genesis_1", PublicKey: generatorKey}}

			st, err := state.New(state.Config{
				Genesis:        gen,
				Storage:        memory.New(),
				SelectStrategy: "fee",
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the state: %v", failed, testID, err)
			}
			defer st.Shutdown()

			seed, _ := hex.DecodeString(generatorSeed)
			kp := signature.FromSeed(seed)
			worker.Run(st, &kp, func(v string, args ...any) { t.Logf(v, args...) })

			trs, err := st.Transactions().Create(transaction.CreateArgs{
				Type:        transaction.TypeSend,
				KeyPair:     signature.NewKeyPair(passphrase),
				RecipientID: generatorAddr,
				Amount:      100_000_000,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create a transfer: %v", failed, testID, err)
			}

			if err := st.SubmitTransaction(context.Background(), trs); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to submit the transfer: %v", failed, testID, err)
			}

			deadline := time.Now().Add(5 * time.Second)
			for st.RetrieveLatestBlock().Height == 0 {
				if time.Now().After(deadline) {
					t.Fatalf("\t%s\tTest %d:\tShould forge a block in time.", failed, testID)
				}
				time.Sleep(10 * time.Millisecond)
			}
			t.Logf("\t%s\tTest %d:\tShould forge a block in time.", success, testID)

			if st.QueryMempoolLength() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould empty the mempool.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould empty the mempool.", success, testID)
		}
	}
}
