package transaction

import (
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
)

var trsFields = []string{
	"id", "blockId", "type", "timestamp", "senderPublicKey", "senderId",
	"recipientId", "amount", "fee", "signature", "signSignature",
}

// DBSave maps the transaction to the records of the trs table and of the
// asset table of its type. The mapping is pure, nothing is written.
func (e *Engine) DBSave(trs *Transaction) ([]storage.Record, error) {
	p, err := e.Processor(trs.Type)
	if err != nil {
		return nil, err
	}

	records := []storage.Record{
		{
			Table:  storage.TableTransactions,
			Fields: trsFields,
			Values: map[string]any{
				"id":              trs.ID,
				"blockId":         trs.BlockID,
				"type":            uint8(trs.Type),
				"timestamp":       trs.Timestamp,
				"senderPublicKey": trs.SenderPublicKey,
				"senderId":        trs.SenderID,
				"recipientId":     trs.RecipientID,
				"amount":          trs.Amount,
				"fee":             trs.Fee,
				"signature":       trs.Signature,
				"signSignature":   trs.SignSignature,
			},
		},
	}

	if rec := p.DBSave(trs); rec != nil {
		records = append(records, *rec)
	}

	return records, nil
}

// DBRead reconstructs a transaction from a trs row joined with the row of
// its asset table. A row without a transaction id yields nil.
func (e *Engine) DBRead(row storage.Row) (*Transaction, error) {
	if row["t_id"] == "" {
		return nil, nil
	}

	r := storage.NewRowReader(row)

	trs := Transaction{
		ID:              r.String("t_id"),
		BlockID:         r.String("t_blockId"),
		Type:            Type(r.Uint8("t_type")),
		Timestamp:       r.Int32("t_timestamp"),
		SenderPublicKey: r.String("t_senderPublicKey"),
		SenderID:        r.String("t_senderId"),
		RecipientID:     r.String("t_recipientId"),
		Amount:          r.Uint64("t_amount"),
		Fee:             r.Uint64("t_fee"),
		Signature:       r.String("t_signature"),
		SignSignature:   r.String("t_signSignature"),
		Status:          StatusApplied,
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	p, err := e.Processor(trs.Type)
	if err != nil {
		return nil, fault.Encoding("t_type", err)
	}

	asset, err := p.DBRead(row)
	if err != nil {
		return nil, err
	}
	trs.Asset = asset

	return &trs, nil
}

// AssetTable returns the table holding the asset of the transaction type,
// or an empty string when the type keeps no asset row.
func (e *Engine) AssetTable(t Type) string {
	p, err := e.Processor(t)
	if err != nil {
		return ""
	}
	return p.Table()
}
