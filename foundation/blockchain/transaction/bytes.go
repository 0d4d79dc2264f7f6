package transaction

import (
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/signature"
)

// headerLength is the size of the fixed part of the transaction bytes:
// type, timestamp, sender public key, recipient, amount and fee.
const headerLength = codec.Uint8Length + codec.Int32Length + codec.HexLength + 3*codec.Uint64Length

// Bytes returns the canonical bytes of the transaction. The skip flags
// leave out the signatures to produce the signed message.
func (e *Engine) Bytes(trs *Transaction, skipSignature bool, skipSecondSignature bool) ([]byte, error) {
	p, err := e.Processor(trs.Type)
	if err != nil {
		return nil, err
	}

	asset, err := p.Bytes(trs.Asset)
	if err != nil {
		return nil, err
	}

	withSignature := !skipSignature && trs.Signature != ""
	withSecondSignature := !skipSecondSignature && trs.SignSignature != ""

	size := headerLength + len(asset)
	if withSignature {
		size += codec.SignatureLength
	}
	if withSecondSignature {
		size += codec.SignatureLength
	}

	w := codec.NewWriter(size)
	w.Uint8("type", uint8(trs.Type))
	w.Int32("timestamp", trs.Timestamp)
	w.Hex("senderPublicKey", trs.SenderPublicKey, codec.HexLength)
	w.Address("recipientId", trs.RecipientID)
	w.Uint64("amount", trs.Amount)
	w.Uint64("fee", trs.Fee)
	w.Bytes("asset", asset)

	if withSignature {
		w.Hex("signature", trs.Signature, codec.SignatureLength)
	}
	if withSecondSignature {
		w.Hex("signSignature", trs.SignSignature, codec.SignatureLength)
	}

	return w.Finish()
}

// ID returns the transaction id, the hex sha256 of the complete bytes.
func (e *Engine) ID(trs *Transaction) (string, error) {
	data, err := e.Bytes(trs, false, false)
	if err != nil {
		return "", err
	}

	return signature.HashHex(data), nil
}

// Hash returns the sha256 of the complete bytes.
func (e *Engine) Hash(trs *Transaction) ([]byte, error) {
	data, err := e.Bytes(trs, false, false)
	if err != nil {
		return nil, err
	}

	return signature.Hash(data), nil
}

// Sign returns the signature of the transaction without any signatures.
func (e *Engine) Sign(kp signature.KeyPair, trs *Transaction) (string, error) {
	data, err := e.Bytes(trs, true, true)
	if err != nil {
		return "", err
	}

	return signature.Sign(data, kp.PrivateKey), nil
}

// SecondSign returns the second signature, made over the transaction
// including the first signature.
func (e *Engine) SecondSign(kp signature.KeyPair, trs *Transaction) (string, error) {
	data, err := e.Bytes(trs, false, true)
	if err != nil {
		return "", err
	}

	return signature.Sign(data, kp.PrivateKey), nil
}

// VerifySignature checks the signature against the transaction without
// any signatures.
func (e *Engine) VerifySignature(trs *Transaction, publicKey string, sig string) error {
	data, err := e.Bytes(trs, true, true)
	if err != nil {
		return err
	}

	if !e.VerifyBytes(data, publicKey, sig) {
		return fault.Verification("failed to verify signature")
	}

	return nil
}

// VerifySecondSignature checks the second signature against the
// transaction including the first signature.
func (e *Engine) VerifySecondSignature(trs *Transaction, publicKey string, sig string) error {
	data, err := e.Bytes(trs, false, true)
	if err != nil {
		return err
	}

	if !e.VerifyBytes(data, publicKey, sig) {
		return fault.Verification("failed to verify second signature")
	}

	return nil
}

// VerifyBytes checks a detached signature over the bytes.
func (e *Engine) VerifyBytes(data []byte, publicKey string, sig string) bool {
	return signature.Verify(data, publicKey, sig)
}
