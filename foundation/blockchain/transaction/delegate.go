package transaction

import (
	"encoding/json"
	"strings"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
)

// delegate registers the sender as a delegate under a unique username.
type delegate struct {
	*env
}

func (p *delegate) Create(raw json.RawMessage) (Asset, error) {
	asset, err := decodeAsset(TypeDelegate, raw)
	if err != nil {
		return nil, err
	}

	a := asset.(Delegate)
	a.Username = strings.ToLower(strings.TrimSpace(a.Username))
	if a.Username == "" {
		return nil, fault.Validation("missing delegate username")
	}

	return a, nil
}

func (p *delegate) Bytes(asset Asset) ([]byte, error) {
	a, err := assetAs[Delegate](asset)
	if err != nil {
		return nil, err
	}

	dst, err := codec.PutString(nil, "asset.username", a.Username)
	if err != nil {
		return nil, err
	}

	return codec.PutString(dst, "asset.url", a.URL)
}

func (p *delegate) CalculateFee(trs *Transaction, sender accounts.Account) uint64 {
	return p.genesis.Fees.Delegate
}

func (p *delegate) Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a, err := assetAs[Delegate](trs.Asset)
	if err != nil {
		return err
	}

	var msgs []string

	if trs.RecipientID != "" {
		msgs = append(msgs, "invalid recipient")
	}

	if trs.Amount != 0 {
		msgs = append(msgs, "invalid transaction amount")
	}

	if sender.IsDelegate || sender.UIsDelegate {
		msgs = append(msgs, "account is already a delegate")
	}

	if a.Username != strings.ToLower(a.Username) {
		msgs = append(msgs, "username must be lowercase")
	}

	if _, exists := r.DelegateByUsername(a.Username); exists {
		msgs = append(msgs, "username already exists")
	}

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}

func (p *delegate) ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Delegate](trs.Asset)
	if err != nil {
		return err
	}

	if other, exists := b.DelegateByUsername(a.Username); exists && other.Address != trs.SenderID {
		return fault.Verification("username already exists")
	}

	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		if acct.UIsDelegate {
			return fault.Verification("account is already a delegate")
		}
		acct.UIsDelegate = true
		acct.UUsername = a.Username
		return nil
	})
}

func (p *delegate) UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		acct.UIsDelegate = false
		acct.UUsername = ""
		return nil
	})
}

func (p *delegate) Apply(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Delegate](trs.Asset)
	if err != nil {
		return err
	}

	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		if acct.IsDelegate {
			return fault.Verification("account is already a delegate")
		}
		acct.IsDelegate = true
		acct.Username = a.Username
		acct.URL = a.URL
		return nil
	})
}

func (p *delegate) Undo(trs *Transaction, b *accounts.Batch) error {
	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		acct.IsDelegate = false
		acct.Username = ""
		acct.URL = ""
		return nil
	})
}

func (p *delegate) Table() string {
	return storage.TableDelegates
}

func (p *delegate) DBRead(row storage.Row) (Asset, error) {
	if row["d_username"] == "" {
		return nil, fault.Encoding("d_username", fault.NotFound("delegate", row["t_id"]))
	}

	return Delegate{Username: row["d_username"], URL: row["d_url"]}, nil
}

func (p *delegate) DBSave(trs *Transaction) *storage.Record {
	a, _ := trs.Asset.(Delegate)

	return &storage.Record{
		Table:  storage.TableDelegates,
		Fields: []string{"transactionId", "username", "url"},
		Values: map[string]any{
			"transactionId": trs.ID,
			"username":      a.Username,
			"url":           a.URL,
		},
	}
}

func (p *delegate) Normalize(asset Asset) error {
	return p.normalize(asset)
}
