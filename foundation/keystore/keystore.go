// Package keystore reads a folder of ed25519 seed files and provides the
// key pairs and a name lookup for their addresses.
package keystore

import (
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ddknet/node/foundation/blockchain/signature"
)

// Ext is the extension of a key file. A key file holds the hex encoded
// 32 byte seed of the key pair.
const Ext = ".ed25519"

// KeyStore maintains the key pairs found in a folder by name.
type KeyStore struct {
	keys  map[string]signature.KeyPair
	names map[string]string
}

// New constructs a KeyStore with the key files from the root folder.
func New(root string) (*KeyStore, error) {
	ks := KeyStore{
		keys:  make(map[string]signature.KeyPair),
		names: make(map[string]string),
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != Ext {
			return nil
		}

		kp, err := Load(fileName)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path.Base(fileName), Ext)
		ks.keys[name] = kp
		ks.names[kp.Address()] = name

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ks, nil
}

// Load reads the key pair from a key file.
func Load(fileName string) (signature.KeyPair, error) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		return signature.KeyPair{}, err
	}

	seed, err := hex.DecodeString(strings.TrimSpace(string(content)))
	if err != nil || len(seed) != 32 {
		return signature.KeyPair{}, fmt.Errorf("%s: invalid seed", fileName)
	}

	return signature.FromSeed(seed), nil
}

// Save writes the seed of the key pair into a key file.
func Save(fileName string, kp signature.KeyPair) error {
	seed := hex.EncodeToString(kp.PrivateKey.Seed())
	return os.WriteFile(fileName, []byte(seed), 0600)
}

// KeyPair returns the key pair stored under the name.
func (ks *KeyStore) KeyPair(name string) (signature.KeyPair, error) {
	kp, exists := ks.keys[name]
	if !exists {
		return signature.KeyPair{}, fmt.Errorf("key %q not found", name)
	}
	return kp, nil
}

// Lookup returns the name for the specified address.
func (ks *KeyStore) Lookup(address string) string {
	name, exists := ks.names[address]
	if !exists {
		return address
	}
	return name
}

// Copy returns a copy of the map of addresses and names.
func (ks *KeyStore) Copy() map[string]string {
	cpy := make(map[string]string, len(ks.names))
	for address, name := range ks.names {
		cpy[address] = name
	}
	return cpy
}
