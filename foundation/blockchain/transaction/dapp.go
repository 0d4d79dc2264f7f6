package transaction

import (
	"encoding/json"
	"strings"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
)

// dapp registers a decentralized application. The id of the transaction
// becomes the id of the dapp.
type dapp struct {
	*env
}

func (p *dapp) Create(raw json.RawMessage) (Asset, error) {
	asset, err := decodeAsset(TypeDapp, raw)
	if err != nil {
		return nil, err
	}

	a := asset.(Dapp)
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return nil, fault.Validation("missing dapp name")
	}

	return a, nil
}

func (p *dapp) Bytes(asset Asset) ([]byte, error) {
	a, err := assetAs[Dapp](asset)
	if err != nil {
		return nil, err
	}

	var dst []byte
	for _, f := range []struct{ field, value string }{
		{"asset.name", a.Name},
		{"asset.description", a.Description},
		{"asset.tags", a.Tags},
		{"asset.link", a.Link},
		{"asset.icon", a.Icon},
	} {
		if dst, err = codec.PutString(dst, f.field, f.value); err != nil {
			return nil, err
		}
	}

	return append(dst, a.Type, a.Category), nil
}

func (p *dapp) CalculateFee(trs *Transaction, sender accounts.Account) uint64 {
	return p.genesis.Fees.Dapp
}

func (p *dapp) Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a, err := assetAs[Dapp](trs.Asset)
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

	if a.Name == "" || len(a.Name) > 32 {
		msgs = append(msgs, "invalid dapp name length")
	}

	// Every byte of these fields is signed behind a single length byte.
	if len(a.Link) > 255 || len(a.Icon) > 255 {
		msgs = append(msgs, "invalid dapp link or icon length, max 255 bytes")
	}

	if !strings.HasSuffix(a.Link, ".zip") {
		msgs = append(msgs, "invalid dapp link, must be a zip file")
	}

	if _, exists := r.DappByName(a.Name); exists {
		msgs = append(msgs, "application name already exists: "+a.Name)
	}

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}

func (p *dapp) ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *dapp) UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	return nil
}

func (p *dapp) Apply(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Dapp](trs.Asset)
	if err != nil {
		return err
	}

	if _, exists := b.DappByName(a.Name); exists {
		return fault.Verificationf("application name already exists: %s", a.Name)
	}

	reg, err := Registration(trs)
	if err != nil {
		return err
	}

	return b.RegisterDapp(reg)
}

// Registration returns the dapp registered by a DAPP transaction.
func Registration(trs *Transaction) (accounts.Dapp, error) {
	a, err := assetAs[Dapp](trs.Asset)
	if err != nil {
		return accounts.Dapp{}, err
	}

	reg := accounts.Dapp{
		ID:          trs.ID,
		Author:      trs.SenderID,
		Name:        a.Name,
		Description: a.Description,
		Tags:        a.Tags,
		Type:        a.Type,
		Category:    a.Category,
		Link:        a.Link,
		Icon:        a.Icon,
	}

	return reg, nil
}

func (p *dapp) Undo(trs *Transaction, b *accounts.Batch) error {
	b.RemoveDapp(trs.ID)
	return nil
}

func (p *dapp) Table() string {
	return storage.TableDapps
}

func (p *dapp) DBRead(row storage.Row) (Asset, error) {
	r := storage.NewRowReader(row)

	a := Dapp{
		Name:        r.String("dapp_name"),
		Description: r.String("dapp_description"),
		Tags:        r.String("dapp_tags"),
		Type:        r.Uint8("dapp_type"),
		Category:    r.Uint8("dapp_category"),
		Link:        r.String("dapp_link"),
		Icon:        r.String("dapp_icon"),
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	return a, nil
}

func (p *dapp) DBSave(trs *Transaction) *storage.Record {
	a, _ := trs.Asset.(Dapp)

	return &storage.Record{
		Table:  storage.TableDapps,
		Fields: []string{"transactionId", "name", "description", "tags", "type", "category", "link", "icon"},
		Values: map[string]any{
			"transactionId": trs.ID,
			"name":          a.Name,
			"description":   a.Description,
			"tags":          a.Tags,
			"type":          a.Type,
			"category":      a.Category,
			"link":          a.Link,
			"icon":          a.Icon,
		},
	}
}

func (p *dapp) Normalize(asset Asset) error {
	return p.normalize(asset)
}
