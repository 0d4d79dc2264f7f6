package transaction

import (
	"encoding/json"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
	"github.com/ethereum/go-ethereum/common/math"
)

// sendStake moves an amount to the recipient and freezes it there as stake.
type sendStake struct {
	*env
}

func (p *sendStake) Create(raw json.RawMessage) (Asset, error) {
	return decodeAsset(TypeSendStake, raw)
}

func (p *sendStake) Bytes(asset Asset) ([]byte, error) {
	return nil, nil
}

func (p *sendStake) CalculateFee(trs *Transaction, sender accounts.Account) uint64 {
	return p.genesis.Fees.SendStake
}

func (p *sendStake) Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a, err := assetAs[SendStake](trs.Asset)
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

	if trs.RecipientID == trs.SenderID {
		msgs = append(msgs, "cannot send stake to yourself")
	}

	if trs.Amount == 0 {
		msgs = append(msgs, "invalid transaction amount")
	}

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}

func (p *sendStake) ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *sendStake) UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *sendStake) Apply(trs *Transaction, b *accounts.Batch) error {
	if err := b.Credit(trs.RecipientID, trs.Amount); err != nil {
		return err
	}
	if err := b.UCredit(trs.RecipientID, trs.Amount); err != nil {
		return err
	}

	return b.Modify(trs.RecipientID, func(acct *accounts.Account) error {
		frozen, overflow := math.SafeAdd(acct.TotalFrozeAmount, trs.Amount)
		if overflow {
			return fault.Verification("frozen amount overflows")
		}
		uFrozen, overflow := math.SafeAdd(acct.UTotalFrozeAmount, trs.Amount)
		if overflow {
			return fault.Verification("unconfirmed frozen amount overflows")
		}
		acct.TotalFrozeAmount = frozen
		acct.UTotalFrozeAmount = uFrozen
		return nil
	})
}

func (p *sendStake) Undo(trs *Transaction, b *accounts.Batch) error {
	err := b.Modify(trs.RecipientID, func(acct *accounts.Account) error {
		frozen, underflow := math.SafeSub(acct.TotalFrozeAmount, trs.Amount)
		if underflow {
			return fault.Verification("frozen amount underflows")
		}
		uFrozen, underflow := math.SafeSub(acct.UTotalFrozeAmount, trs.Amount)
		if underflow {
			return fault.Verification("unconfirmed frozen amount underflows")
		}
		acct.TotalFrozeAmount = frozen
		acct.UTotalFrozeAmount = uFrozen
		return nil
	})
	if err != nil {
		return err
	}

	if err := b.Debit(trs.RecipientID, trs.Amount); err != nil {
		return err
	}
	return b.UDebit(trs.RecipientID, trs.Amount)
}

func (p *sendStake) Table() string {
	return ""
}

func (p *sendStake) DBRead(row storage.Row) (Asset, error) {
	return SendStake{RecipientID: row["t_recipientId"]}, nil
}

func (p *sendStake) DBSave(trs *Transaction) *storage.Record {
	return nil
}

func (p *sendStake) Normalize(asset Asset) error {
	return p.normalize(asset)
}
