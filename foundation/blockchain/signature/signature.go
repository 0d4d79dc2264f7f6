// Package signature provides helper functions for handling the blockchain
// signature needs.
package signature

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

// AddressPrefix is the network tag every DDK address starts with.
const AddressPrefix = "DDK"

// Set of key and signature lengths in raw bytes.
const (
	PublicKeyLength = ed25519.PublicKeySize
	SignatureLength = ed25519.SignatureSize
)

// ErrInvalidPublicKey is returned when a public key is not 32 bytes of hex.
var ErrInvalidPublicKey = errors.New("invalid public key")

// =============================================================================

// KeyPair represents the keys of an account capable of signing.
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// NewKeyPair derives the key pair for the specified secret. The secret is
// hashed into the 32 byte seed of the Ed25519 key, so the same passphrase
// always produces the same account.
func NewKeyPair(secret string) KeyPair {
	seed := sha256.Sum256([]byte(secret))
	return FromSeed(seed[:])
}

// FromSeed constructs the key pair for a 32 byte Ed25519 seed.
func FromSeed(seed []byte) KeyPair {
	privateKey := ed25519.NewKeyFromSeed(seed)

	return KeyPair{
		PublicKey:  privateKey.Public().(ed25519.PublicKey),
		PrivateKey: privateKey,
	}
}

// GenerateKeyPair constructs a new random key pair.
func GenerateKeyPair() (KeyPair, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}

	return KeyPair{PublicKey: publicKey, PrivateKey: privateKey}, nil
}

// PublicKeyHex returns the public key as lowercase hex.
func (kp KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(kp.PublicKey)
}

// Address returns the account address for the key pair.
func (kp KeyPair) Address() string {
	return addressFromKey(kp.PublicKey)
}

// =============================================================================

// Hash returns the sha256 digest of the data.
func Hash(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// HashHex returns the sha256 digest of the data as lowercase hex.
func HashHex(data []byte) string {
	return hex.EncodeToString(Hash(data))
}

// Sign produces a detached signature of the data, returned as hex.
func Sign(data []byte, privateKey ed25519.PrivateKey) string {
	return hex.EncodeToString(ed25519.Sign(privateKey, data))
}

// Verify checks the detached signature of the data against the public key.
// Malformed keys or signatures yield false.
func Verify(data []byte, publicKeyHex string, signatureHex string) bool {
	publicKey, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(publicKey) != PublicKeyLength {
		return false
	}

	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != SignatureLength {
		return false
	}

	return ed25519.Verify(publicKey, data, sig)
}

// =============================================================================

// Address derives the account address from a hex public key.
func Address(publicKeyHex string) (string, error) {
	publicKey, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(publicKey) != PublicKeyLength {
		return "", ErrInvalidPublicKey
	}

	return addressFromKey(publicKey), nil
}

// addressFromKey reverses the first 8 bytes of the public key hash and
// formats them as an unsigned decimal behind the network prefix.
func addressFromKey(publicKey []byte) string {
	hash := sha256.Sum256(publicKey)

	var temp [8]byte
	for i := 0; i < 8; i++ {
		temp[i] = hash[7-i]
	}

	return AddressPrefix + strconv.FormatUint(binary.BigEndian.Uint64(temp[:]), 10)
}

// AddressNumber returns the numeric part of an address.
func AddressNumber(address string) (uint64, error) {
	if !strings.HasPrefix(address, AddressPrefix) {
		return 0, errors.New("invalid address prefix")
	}

	digits := address[len(AddressPrefix):]
	if len(digits) == 0 || len(digits) > 20 {
		return 0, errors.New("invalid address length")
	}

	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, errors.New("invalid address number")
	}

	// Only the canonical form is an address: DDK07 and DDK7 encode alike.
	if strconv.FormatUint(n, 10) != digits {
		return 0, errors.New("invalid address number, non canonical form")
	}

	return n, nil
}

// IsAddress verifies the value is a properly formatted address.
func IsAddress(address string) bool {
	_, err := AddressNumber(address)
	return err == nil
}

// IsPublicKey verifies the value is a 32 byte lowercase hex public key.
func IsPublicKey(publicKeyHex string) bool {
	return isHexOfLength(publicKeyHex, PublicKeyLength)
}

// IsSignature verifies the value is a 64 byte lowercase hex signature.
func IsSignature(signatureHex string) bool {
	return isHexOfLength(signatureHex, SignatureLength)
}

// isHexOfLength checks the value is lowercase hex holding n raw bytes.
func isHexOfLength(value string, n int) bool {
	if len(value) != 2*n {
		return false
	}

	for _, c := range []byte(value) {
		if !('0' <= c && c <= '9') && !('a' <= c && c <= 'f') {
			return false
		}
	}

	return true
}
