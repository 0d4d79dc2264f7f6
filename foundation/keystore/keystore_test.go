package keystore_test

import (
	"path/filepath"
	"testing"

	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/keystore"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestKeyStore(t *testing.T) {
	t.Log("Given the need to load key pairs from a folder.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the folder holds two key files.", testID)
		{
			root := t.TempDir()

			names := []string{"genesis_1", "wallet"}
			kps := make(map[string]signature.KeyPair)
			for _, name := range names {
				kp, err := signature.GenerateKeyPair()
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to generate a key pair: %v", failed, testID, err)
				}
				if err := keystore.Save(filepath.Join(root, name+keystore.Ext), kp); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to save the key file: %v", failed, testID, err)
				}
				kps[name] = kp
			}

			ks, err := keystore.New(root)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load the folder: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to load the folder.", success, testID)

			for _, name := range names {
				kp, err := ks.KeyPair(name)
				if err != nil || kp.Address() != kps[name].Address() {
					t.Fatalf("\t%s\tTest %d:\tShould get back the key pair for %s: %v", failed, testID, name, err)
				}
				if ks.Lookup(kp.Address()) != name {
					t.Fatalf("\t%s\tTest %d:\tShould find the name for %s.", failed, testID, kp.Address())
				}
			}
			t.Logf("\t%s\tTest %d:\tShould get back the key pairs by name and address.", success, testID)

			if _, err := ks.KeyPair("unknown"); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould report an unknown name.", failed, testID)
			}
			if got := ks.Lookup("DDK1"); got != "DDK1" {
				t.Fatalf("\t%s\tTest %d:\tShould fall back to the address: %s", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould handle unknown keys.", success, testID)
		}
	}
}
