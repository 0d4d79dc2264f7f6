package genesis_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ddknet/node/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestLoad(t *testing.T) {
	t.Log("Given the need to load the genesis file.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the file holds the main network values.", testID)
		{
			gen := genesis.Default()
			gen.Delegates = []genesis.Delegate{{Username: "forger1", PublicKey: "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"}}
			gen.Balances = map[string]uint64{"DDK7035278622117199393": 1_000}

			data, err := json.Marshal(gen)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould marshal the genesis: %v", failed, testID, err)
			}

			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, data, 0600); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould write the genesis file: %v", failed, testID, err)
			}

			got, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould load the genesis file: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould load the genesis file.", success, testID)

			if got.Nethash != "ddk-mainnet" || got.Fees.Send != 10_000_000 || len(got.Delegates) != 1 || got.Balances["DDK7035278622117199393"] != 1_000 {
				t.Fatalf("\t%s\tTest %d:\tShould get back the same values: got %+v", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the same values.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the file does not exist.", testID)
		{
			if _, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould fail to load.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould fail to load.", success, testID)
		}
	}
}

func TestValidate(t *testing.T) {
	tt := []struct {
		name   string
		modify func(g *genesis.Genesis)
	}{
		{"no payload", func(g *genesis.Genesis) { g.MaxPayloadLength = 0 }},
		{"no votes per transaction", func(g *genesis.Genesis) { g.MaxVotesPerTransaction = 0 }},
		{"votes below per transaction", func(g *genesis.Genesis) { g.MaxVotes = 1 }},
		{"level shares", func(g *genesis.Genesis) { g.Airdrop.LevelShares = []uint64{50, 40} }},
		{"padded reward pool", func(g *genesis.Genesis) { g.RewardPool = "DDK01" }},
		{"padded airdrop account", func(g *genesis.Genesis) { g.Airdrop.Account = "DDK001" }},
		{"padded balance", func(g *genesis.Genesis) { g.Balances = map[string]uint64{"DDK07035278622117199393": 1} }},
	}

	t.Log("Given the need to refuse unusable genesis values.")
	{
		if err := genesis.Default().Validate(); err != nil {
			t.Fatalf("\t%s\tShould accept the default values: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept the default values.", success)

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen the genesis has %s.", testID, tst.name)
			{
				gen := genesis.Default()
				tst.modify(&gen)

				if err := gen.Validate(); err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould refuse the genesis.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould refuse the genesis.", success, testID)
			}
		}
	}
}

func TestTimestamp(t *testing.T) {
	t.Log("Given the need to count seconds since the epoch.")
	{
		gen := genesis.Default()
		at := gen.EpochTime.Add(90*time.Second + 500*time.Millisecond)

		if got := gen.Timestamp(at); got != 90 {
			t.Fatalf("\t%s\tShould truncate to whole seconds: got %d", failed, got)
		}
		t.Logf("\t%s\tShould truncate to whole seconds.", success)
	}
}
