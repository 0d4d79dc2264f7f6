package transaction

import (
	"encoding/json"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
)

// outTransfer withdraws an amount from a dapp to the recipient. Only the
// dapp author may withdraw and every dapp transaction is withdrawn once.
type outTransfer struct {
	*env
}

func (p *outTransfer) Create(raw json.RawMessage) (Asset, error) {
	return decodeAsset(TypeOutTransfer, raw)
}

func (p *outTransfer) Bytes(asset Asset) ([]byte, error) {
	a, err := assetAs[OutTransfer](asset)
	if err != nil {
		return nil, err
	}

	dst, err := codec.PutHex(nil, "asset.dappId", a.DappID, codec.HexLength)
	if err != nil {
		return nil, err
	}

	return codec.PutHex(dst, "asset.transactionId", a.TransactionID, codec.HexLength)
}

func (p *outTransfer) CalculateFee(trs *Transaction, sender accounts.Account) uint64 {
	return p.genesis.Fees.OutTransfer
}

func (p *outTransfer) Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a, err := assetAs[OutTransfer](trs.Asset)
	if err != nil {
		return err
	}

	var msgs []string

	if trs.RecipientID == "" {
		msgs = append(msgs, "missing recipient")
	}

	if trs.Amount == 0 {
		msgs = append(msgs, "invalid transaction amount")
	}

	dapp, exists := r.Dapp(a.DappID)
	switch {
	case !exists:
		msgs = append(msgs, "application not found: "+a.DappID)
	case dapp.Author != trs.SenderID:
		msgs = append(msgs, "only the application author may withdraw")
	}

	if r.OutTransferUsed(a.TransactionID) {
		msgs = append(msgs, "transaction is already processed: "+a.TransactionID)
	}

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}

func (p *outTransfer) ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *outTransfer) UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *outTransfer) Apply(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[OutTransfer](trs.Asset)
	if err != nil {
		return err
	}

	if b.OutTransferUsed(a.TransactionID) {
		return fault.Verificationf("transaction is already processed: %s", a.TransactionID)
	}
	b.MarkOutTransfer(a.TransactionID)

	if err := b.Credit(trs.RecipientID, trs.Amount); err != nil {
		return err
	}
	return b.UCredit(trs.RecipientID, trs.Amount)
}

func (p *outTransfer) Undo(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[OutTransfer](trs.Asset)
	if err != nil {
		return err
	}

	b.UnmarkOutTransfer(a.TransactionID)

	if err := b.Debit(trs.RecipientID, trs.Amount); err != nil {
		return err
	}
	return b.UDebit(trs.RecipientID, trs.Amount)
}

func (p *outTransfer) Table() string {
	return storage.TableOutTransfers
}

func (p *outTransfer) DBRead(row storage.Row) (Asset, error) {
	return OutTransfer{DappID: row["ot_dappId"], TransactionID: row["ot_outTransactionId"]}, nil
}

func (p *outTransfer) DBSave(trs *Transaction) *storage.Record {
	a, _ := trs.Asset.(OutTransfer)

	return &storage.Record{
		Table:  storage.TableOutTransfers,
		Fields: []string{"transactionId", "dappId", "outTransactionId"},
		Values: map[string]any{
			"transactionId":    trs.ID,
			"dappId":           a.DappID,
			"outTransactionId": a.TransactionID,
		},
	}
}

func (p *outTransfer) Normalize(asset Asset) error {
	return p.normalize(asset)
}
