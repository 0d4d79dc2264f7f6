package block

import (
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/signature"
)

// bytesLength is the size of the canonical block bytes. The previous block
// id is kept as text in a 64 byte slot.
const bytesLength = 2*codec.Int32Length + codec.DoubleHexLength + codec.Int32Length +
	2*codec.Uint64Length + codec.Int32Length + 2*codec.HexLength

// Bytes returns the canonical bytes of the block header.
func (e *Engine) Bytes(blk Block) ([]byte, error) {
	w := codec.NewWriter(bytesLength)
	w.Int32("version", blk.Version)
	w.Int32("timestamp", blk.Timestamp)
	w.Text("previousBlock", blk.PreviousBlock, codec.DoubleHexLength)
	w.Int32("numberOfTransactions", blk.NumberOfTransactions)
	w.Uint64("totalAmount", blk.TotalAmount)
	w.Uint64("totalFee", blk.TotalFee)
	w.Int32("payloadLength", blk.PayloadLength)
	w.Hex("payloadHash", blk.PayloadHash, codec.HexLength)
	w.Hex("generatorPublicKey", blk.GeneratorPublicKey, codec.HexLength)

	return w.Finish()
}

// ID returns the block id, the hex sha256 of the block bytes.
func (e *Engine) ID(blk Block) (string, error) {
	data, err := e.Bytes(blk)
	if err != nil {
		return "", err
	}

	return signature.HashHex(data), nil
}

// Hash returns the sha256 of the block bytes.
func (e *Engine) Hash(blk Block) ([]byte, error) {
	data, err := e.Bytes(blk)
	if err != nil {
		return nil, err
	}

	return signature.Hash(data), nil
}

// Sign signs the hash of the block bytes with the generator key.
func (e *Engine) Sign(kp signature.KeyPair, blk Block) (string, error) {
	hash, err := e.Hash(blk)
	if err != nil {
		return "", err
	}

	return signature.Sign(hash, kp.PrivateKey), nil
}

// VerifySignature checks the block signature against the generator key.
func (e *Engine) VerifySignature(blk Block) error {
	hash, err := e.Hash(blk)
	if err != nil {
		return err
	}

	if !signature.Verify(hash, blk.GeneratorPublicKey, blk.BlockSignature) {
		return fault.Verification("failed to verify block signature")
	}

	return nil
}
