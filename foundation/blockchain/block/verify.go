package block

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ddknet/node/foundation/blockchain/fault"
)

// Verify checks the block is the valid successor of the previous block.
// The zero previous block precedes the first block of the chain. Every
// failed check is reported.
func (e *Engine) Verify(blk Block, previous Block) error {
	var msgs []string
	add := func(format string, args ...any) {
		msgs = append(msgs, fmt.Sprintf(format, args...))
	}

	e.evHandler("block: Verify: blk[%d]: check: block version", blk.Height)

	if blk.Version != e.genesis.BlockVersion {
		add("invalid block version, got %d, exp %d", blk.Version, e.genesis.BlockVersion)
	}

	e.evHandler("block: Verify: blk[%d]: check: block follows the previous block", blk.Height)

	if blk.PreviousBlock != previous.ID {
		add("invalid previous block, got %s, exp %s", blk.PreviousBlock, previous.ID)
	}

	if blk.Height != previous.Height+1 {
		add("invalid block height, got %d, exp %d", blk.Height, previous.Height+1)
	}

	if previous.ID != "" && blk.Timestamp <= previous.Timestamp {
		add("block timestamp is not after the previous block, previous %d, block %d", previous.Timestamp, blk.Timestamp)
	}

	e.evHandler("block: Verify: blk[%d]: check: block reward", blk.Height)

	if exp := e.schedule.CalcReward(blk.Height); blk.Reward != exp {
		add("invalid block reward, got %d, exp %d", blk.Reward, exp)
	}

	e.evHandler("block: Verify: blk[%d]: check: payload matches the transactions", blk.Height)

	if int(blk.NumberOfTransactions) != len(blk.Transactions) {
		add("invalid number of transactions, got %d, exp %d", blk.NumberOfTransactions, len(blk.Transactions))
	}

	if blk.PayloadLength > e.genesis.MaxPayloadLength {
		add("payload length %d exceeds the maximum %d", blk.PayloadLength, e.genesis.MaxPayloadLength)
	}

	payloadHash := sha256.New()
	seen := make(map[string]bool, len(blk.Transactions))

	var (
		size        int
		totalAmount uint64
		totalFee    uint64
	)

	for _, trs := range blk.Transactions {
		if seen[trs.ID] {
			add("duplicate transaction %s", trs.ID)
		}
		seen[trs.ID] = true

		data, err := e.trs.Bytes(trs, false, false)
		if err != nil {
			msgs = append(msgs, fault.Messages(err)...)
			continue
		}

		if totalAmount, totalFee, err = addTotals(totalAmount, totalFee, trs); err != nil {
			msgs = append(msgs, fault.Messages(err)...)
			continue
		}

		size += len(data)
		payloadHash.Write(data)
	}

	if int(blk.PayloadLength) != size {
		add("invalid payload length, got %d, exp %d", blk.PayloadLength, size)
	}

	if ph := hex.EncodeToString(payloadHash.Sum(nil)); blk.PayloadHash != ph {
		add("invalid payload hash, got %s, exp %s", blk.PayloadHash, ph)
	}

	if blk.TotalAmount != totalAmount {
		add("invalid total amount, got %d, exp %d", blk.TotalAmount, totalAmount)
	}

	if blk.TotalFee != totalFee {
		add("invalid total fee, got %d, exp %d", blk.TotalFee, totalFee)
	}

	e.evHandler("block: Verify: blk[%d]: check: block signature and id", blk.Height)

	if err := e.VerifySignature(blk); err != nil {
		msgs = append(msgs, fault.Messages(err)...)
	}

	id, err := e.ID(blk)
	switch {
	case err != nil:
		msgs = append(msgs, fault.Messages(err)...)
	case blk.ID != id:
		add("invalid block id, got %s, exp %s", blk.ID, id)
	}

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}
