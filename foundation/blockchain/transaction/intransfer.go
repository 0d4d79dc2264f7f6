package transaction

import (
	"encoding/json"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
)

// inTransfer deposits an amount into a dapp. The dapp author holds the
// deposited funds.
type inTransfer struct {
	*env
}

func (p *inTransfer) Create(raw json.RawMessage) (Asset, error) {
	return decodeAsset(TypeInTransfer, raw)
}

func (p *inTransfer) Bytes(asset Asset) ([]byte, error) {
	a, err := assetAs[InTransfer](asset)
	if err != nil {
		return nil, err
	}

	return codec.PutHex(nil, "asset.dappId", a.DappID, codec.HexLength)
}

func (p *inTransfer) CalculateFee(trs *Transaction, sender accounts.Account) uint64 {
	return p.genesis.Fees.InTransfer
}

func (p *inTransfer) Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a, err := assetAs[InTransfer](trs.Asset)
	if err != nil {
		return err
	}

	var msgs []string

	if trs.RecipientID != "" {
		msgs = append(msgs, "invalid recipient")
	}

	if trs.Amount == 0 {
		msgs = append(msgs, "invalid transaction amount")
	}

	if _, exists := r.Dapp(a.DappID); !exists {
		msgs = append(msgs, "application not found: "+a.DappID)
	}

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}

func (p *inTransfer) ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *inTransfer) UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *inTransfer) Apply(trs *Transaction, b *accounts.Batch) error {
	author, err := p.author(trs, b)
	if err != nil {
		return err
	}

	if err := b.Credit(author, trs.Amount); err != nil {
		return err
	}
	return b.UCredit(author, trs.Amount)
}

func (p *inTransfer) Undo(trs *Transaction, b *accounts.Batch) error {
	author, err := p.author(trs, b)
	if err != nil {
		return err
	}

	if err := b.Debit(author, trs.Amount); err != nil {
		return err
	}
	return b.UDebit(author, trs.Amount)
}

func (p *inTransfer) author(trs *Transaction, b *accounts.Batch) (string, error) {
	a, err := assetAs[InTransfer](trs.Asset)
	if err != nil {
		return "", err
	}

	dapp, exists := b.Dapp(a.DappID)
	if !exists {
		return "", fault.Verificationf("application not found: %s", a.DappID)
	}

	return dapp.Author, nil
}

func (p *inTransfer) Table() string {
	return storage.TableInTransfers
}

func (p *inTransfer) DBRead(row storage.Row) (Asset, error) {
	return InTransfer{DappID: row["in_dappId"]}, nil
}

func (p *inTransfer) DBSave(trs *Transaction) *storage.Record {
	a, _ := trs.Asset.(InTransfer)

	return &storage.Record{
		Table:  storage.TableInTransfers,
		Fields: []string{"transactionId", "dappId"},
		Values: map[string]any{
			"transactionId": trs.ID,
			"dappId":        a.DappID,
		},
	}
}

func (p *inTransfer) Normalize(asset Asset) error {
	return p.normalize(asset)
}
