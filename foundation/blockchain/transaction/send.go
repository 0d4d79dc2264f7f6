package transaction

import (
	"encoding/json"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
)

// send moves an amount from the sender to the recipient. The recipient
// travels in the transaction header so the asset adds no bytes.
type send struct {
	*env
}

func (p *send) Create(raw json.RawMessage) (Asset, error) {
	return decodeAsset(TypeSend, raw)
}

func (p *send) Bytes(asset Asset) ([]byte, error) {
	return nil, nil
}

func (p *send) CalculateFee(trs *Transaction, sender accounts.Account) uint64 {
	return p.genesis.Fees.Send
}

func (p *send) Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a, err := assetAs[Transfer](trs.Asset)
	if err != nil {
		return err
	}

	var msgs []string

	if trs.RecipientID == "" {
		msgs = append(msgs, "missing recipient")
	}

	if a.RecipientID != trs.RecipientID {
		msgs = append(msgs, "asset recipient does not match the transaction recipient")
	}

	if trs.Amount == 0 {
		msgs = append(msgs, "invalid transaction amount")
	}

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}

func (p *send) ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *send) UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *send) Apply(trs *Transaction, b *accounts.Batch) error {
	if err := b.Credit(trs.RecipientID, trs.Amount); err != nil {
		return err
	}
	return b.UCredit(trs.RecipientID, trs.Amount)
}

func (p *send) Undo(trs *Transaction, b *accounts.Batch) error {
	if err := b.Debit(trs.RecipientID, trs.Amount); err != nil {
		return err
	}
	return b.UDebit(trs.RecipientID, trs.Amount)
}

func (p *send) Table() string {
	return ""
}

func (p *send) DBRead(row storage.Row) (Asset, error) {
	return Transfer{RecipientID: row["t_recipientId"]}, nil
}

func (p *send) DBSave(trs *Transaction) *storage.Record {
	return nil
}

func (p *send) Normalize(asset Asset) error {
	return p.normalize(asset)
}
