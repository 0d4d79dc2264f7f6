package block

import (
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/blockchain/storage"
	"github.com/holiman/uint256"
)

var dbFields = []string{
	"id", "version", "timestamp", "height", "previousBlock",
	"numberOfTransactions", "totalAmount", "totalFee", "reward",
	"payloadLength", "payloadHash", "generatorPublicKey", "blockSignature",
}

// DBSave maps the block to its record in the blocks table. The mapping is
// pure, nothing is written.
func (e *Engine) DBSave(blk Block) storage.Record {
	var previousBlock any
	if blk.PreviousBlock != "" {
		previousBlock = blk.PreviousBlock
	}

	return storage.Record{
		Table:  storage.TableBlocks,
		Fields: dbFields,
		Values: map[string]any{
			"id":                   blk.ID,
			"version":              blk.Version,
			"timestamp":            blk.Timestamp,
			"height":               blk.Height,
			"previousBlock":        previousBlock,
			"numberOfTransactions": blk.NumberOfTransactions,
			"totalAmount":          blk.TotalAmount,
			"totalFee":             blk.TotalFee,
			"reward":               blk.Reward,
			"payloadLength":        blk.PayloadLength,
			"payloadHash":          blk.PayloadHash,
			"generatorPublicKey":   blk.GeneratorPublicKey,
			"blockSignature":       blk.BlockSignature,
		},
	}
}

// DBRead reconstructs a block from a row of the blocks table. A row without
// a block id yields nil. Numeric columns that do not parse fail the read.
func (e *Engine) DBRead(row storage.Row) (*Block, error) {
	if row["b_id"] == "" {
		return nil, nil
	}

	r := storage.NewRowReader(row)

	blk := Block{
		ID:                   r.String("b_id"),
		Version:              r.Int32("b_version"),
		Timestamp:            r.Int32("b_timestamp"),
		Height:               r.Uint64("b_height"),
		PreviousBlock:        r.String("b_previousBlock"),
		NumberOfTransactions: r.Int32("b_numberOfTransactions"),
		TotalAmount:          r.Uint64("b_totalAmount"),
		TotalFee:             r.Uint64("b_totalFee"),
		Reward:               r.Uint64("b_reward"),
		PayloadLength:        r.Int32("b_payloadLength"),
		PayloadHash:          r.String("b_payloadHash"),
		GeneratorPublicKey:   r.String("b_generatorPublicKey"),
		BlockSignature:       r.String("b_blockSignature"),
		Confirmations:        r.Uint64("b_confirmations"),
		Username:             r.String("m_username"),
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	generatorID, err := signature.Address(blk.GeneratorPublicKey)
	if err != nil {
		return nil, fault.Encoding("b_generatorPublicKey", err)
	}
	blk.GeneratorID = generatorID

	forged := uint256.NewInt(blk.TotalFee)
	forged.Add(forged, uint256.NewInt(blk.Reward))
	blk.TotalForged = forged.Dec()

	return &blk, nil
}
