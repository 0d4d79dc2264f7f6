package transaction

import (
	"encoding/json"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
)

// register links the sender to the account that referred it. The referral
// becomes the introducer used for airdrop rewards.
type register struct {
	*env
}

func (p *register) Create(raw json.RawMessage) (Asset, error) {
	return decodeAsset(TypeRegister, raw)
}

func (p *register) Bytes(asset Asset) ([]byte, error) {
	a, err := assetAs[Register](asset)
	if err != nil {
		return nil, err
	}

	return codec.PutAddress(nil, "asset.referral", a.Referral)
}

func (p *register) CalculateFee(trs *Transaction, sender accounts.Account) uint64 {
	return p.genesis.Fees.Register
}

func (p *register) Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a, err := assetAs[Register](trs.Asset)
	if err != nil {
		return err
	}

	var msgs []string

	if trs.Amount != 0 {
		msgs = append(msgs, "invalid transaction amount")
	}

	if sender.Introducer != "" {
		msgs = append(msgs, "account already has a referral")
	}

	if a.Referral != "" {
		switch {
		case a.Referral == trs.SenderID:
			msgs = append(msgs, "account cannot refer itself")
		default:
			if _, exists := r.Account(a.Referral); !exists {
				msgs = append(msgs, "referral account does not exist")
			}
		}
	}

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}

func (p *register) ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *register) UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *register) Apply(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Register](trs.Asset)
	if err != nil {
		return err
	}

	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		if acct.Introducer != "" {
			return fault.Verification("account already has a referral")
		}
		acct.Introducer = a.Referral
		return nil
	})
}

func (p *register) Undo(trs *Transaction, b *accounts.Batch) error {
	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		acct.Introducer = ""
		return nil
	})
}

func (p *register) Table() string {
	return storage.TableReferrals
}

func (p *register) DBRead(row storage.Row) (Asset, error) {
	return Register{Referral: row["r_referral"]}, nil
}

func (p *register) DBSave(trs *Transaction) *storage.Record {
	a, _ := trs.Asset.(Register)

	return &storage.Record{
		Table:  storage.TableReferrals,
		Fields: []string{"transactionId", "referral"},
		Values: map[string]any{
			"transactionId": trs.ID,
			"referral":      a.Referral,
		},
	}
}

func (p *register) Normalize(asset Asset) error {
	return p.normalize(asset)
}
