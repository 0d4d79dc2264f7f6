package transaction

import (
	"encoding/json"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
)

// secondSignature registers a second public key whose signature is required
// on every later transaction of the sender.
type secondSignature struct {
	*env
}

func (p *secondSignature) Create(raw json.RawMessage) (Asset, error) {
	return decodeAsset(TypeSignature, raw)
}

func (p *secondSignature) Bytes(asset Asset) ([]byte, error) {
	a, err := assetAs[Signature](asset)
	if err != nil {
		return nil, err
	}

	return codec.PutHex(nil, "asset.publicKey", a.PublicKey, codec.HexLength)
}

func (p *secondSignature) CalculateFee(trs *Transaction, sender accounts.Account) uint64 {
	return p.genesis.Fees.Signature
}

func (p *secondSignature) Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	if _, err := assetAs[Signature](trs.Asset); err != nil {
		return err
	}

	var msgs []string

	if trs.RecipientID != "" {
		msgs = append(msgs, "invalid recipient")
	}

	if trs.Amount != 0 {
		msgs = append(msgs, "invalid transaction amount")
	}

	if sender.SecondSignature || sender.USecondSignature {
		msgs = append(msgs, "account already has a second signature")
	}

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}

func (p *secondSignature) ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		if acct.USecondSignature || acct.SecondSignature {
			return fault.Verification("failed second signature: account already has a second signature")
		}
		acct.USecondSignature = true
		return nil
	})
}

func (p *secondSignature) UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		acct.USecondSignature = false
		return nil
	})
}

func (p *secondSignature) Apply(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Signature](trs.Asset)
	if err != nil {
		return err
	}

	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		acct.SecondSignature = true
		acct.SecondPublicKey = a.PublicKey
		return nil
	})
}

func (p *secondSignature) Undo(trs *Transaction, b *accounts.Batch) error {
	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		acct.SecondSignature = false
		acct.SecondPublicKey = ""
		return nil
	})
}

func (p *secondSignature) Table() string {
	return storage.TableSignatures
}

func (p *secondSignature) DBRead(row storage.Row) (Asset, error) {
	return Signature{PublicKey: row["s_publicKey"]}, nil
}

func (p *secondSignature) DBSave(trs *Transaction) *storage.Record {
	a, _ := trs.Asset.(Signature)

	return &storage.Record{
		Table:  storage.TableSignatures,
		Fields: []string{"transactionId", "publicKey"},
		Values: map[string]any{
			"transactionId": trs.ID,
			"publicKey":     a.PublicKey,
		},
	}
}

func (p *secondSignature) Normalize(asset Asset) error {
	return p.normalize(asset)
}
