package transaction

import (
	"encoding/json"
	"slices"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/blockchain/storage"
)

// multisignature configures the group of keys and the number of them that
// must co-sign the sender's transactions.
type multisignature struct {
	*env
}

func (p *multisignature) Create(raw json.RawMessage) (Asset, error) {
	return decodeAsset(TypeMulti, raw)
}

func (p *multisignature) Bytes(asset Asset) ([]byte, error) {
	a, err := assetAs[Multisignature](asset)
	if err != nil {
		return nil, err
	}

	dst := []byte{a.Min, a.Lifetime}
	for _, key := range a.Keysgroup {
		if len(key) == 0 {
			return nil, fault.Encoding("asset.keysgroup", fault.Validation("empty key"))
		}

		dst = append(dst, key[0])
		if dst, err = codec.PutHex(dst, "asset.keysgroup", key[1:], codec.HexLength); err != nil {
			return nil, err
		}
	}

	return dst, nil
}

func (p *multisignature) CalculateFee(trs *Transaction, sender accounts.Account) uint64 {
	a, _ := trs.Asset.(Multisignature)
	return p.genesis.Fees.Multisignature * uint64(len(a.Keysgroup)+1)
}

func (p *multisignature) Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a, err := assetAs[Multisignature](trs.Asset)
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

	if len(a.Keysgroup) == 0 || len(a.Keysgroup) > 15 {
		msgs = append(msgs, "invalid multisignature keysgroup size")
	}

	if a.Min < 1 || a.Min > 15 || int(a.Min) > len(a.Keysgroup) {
		msgs = append(msgs, "invalid multisignature min")
	}

	if a.Lifetime < 1 || a.Lifetime > 72 {
		msgs = append(msgs, "invalid multisignature lifetime")
	}

	if sender.MultiMin != 0 || sender.UMultiMin != 0 {
		msgs = append(msgs, "account already has multisignatures enabled")
	}

	seen := make(map[string]bool, len(a.Keysgroup))
	for _, key := range a.Keysgroup {
		if len(key) == 0 || key[0] != '+' || !signature.IsPublicKey(key[1:]) {
			msgs = append(msgs, "invalid member in keysgroup")
			continue
		}

		switch {
		case key[1:] == trs.SenderPublicKey:
			msgs = append(msgs, "invalid multisignature keysgroup, cannot contain the sender")
		case seen[key]:
			msgs = append(msgs, "encountered duplicate public key in multisignature keysgroup")
		}
		seen[key] = true
	}

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}

func (p *multisignature) ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Multisignature](trs.Asset)
	if err != nil {
		return err
	}

	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		if acct.UMultiMin != 0 {
			return fault.Verification("account already has multisignatures enabled")
		}
		acct.UMultiMin = a.Min
		acct.UMultiLifetime = a.Lifetime
		acct.UMultisignatures = keys(a.Keysgroup)
		return nil
	})
}

func (p *multisignature) UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		acct.UMultiMin = 0
		acct.UMultiLifetime = 0
		acct.UMultisignatures = nil
		return nil
	})
}

func (p *multisignature) Apply(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Multisignature](trs.Asset)
	if err != nil {
		return err
	}

	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		if acct.MultiMin != 0 {
			return fault.Verification("account already has multisignatures enabled")
		}
		acct.MultiMin = a.Min
		acct.MultiLifetime = a.Lifetime
		acct.Multisignatures = keys(a.Keysgroup)
		return nil
	})
}

func (p *multisignature) Undo(trs *Transaction, b *accounts.Batch) error {
	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		acct.MultiMin = 0
		acct.MultiLifetime = 0
		acct.Multisignatures = nil
		return nil
	})
}

// keys strips the sign of every keysgroup member.
func keys(keysgroup []string) []string {
	out := make([]string, len(keysgroup))
	for i, key := range keysgroup {
		out[i] = key[1:]
	}
	slices.Sort(out)
	return out
}

func (p *multisignature) Table() string {
	return storage.TableMultisignatures
}

func (p *multisignature) DBRead(row storage.Row) (Asset, error) {
	r := storage.NewRowReader(row)

	a := Multisignature{
		Min:       r.Uint8("m_min"),
		Lifetime:  r.Uint8("m_lifetime"),
		Keysgroup: r.List("m_keysgroup"),
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	return a, nil
}

func (p *multisignature) DBSave(trs *Transaction) *storage.Record {
	a, _ := trs.Asset.(Multisignature)

	return &storage.Record{
		Table:  storage.TableMultisignatures,
		Fields: []string{"transactionId", "min", "lifetime", "keysgroup"},
		Values: map[string]any{
			"transactionId": trs.ID,
			"min":           a.Min,
			"lifetime":      a.Lifetime,
			"keysgroup":     a.Keysgroup,
		},
	}
}

func (p *multisignature) Normalize(asset Asset) error {
	return p.normalize(asset)
}
