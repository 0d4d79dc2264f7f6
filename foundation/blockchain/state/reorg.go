package state

import (
	"context"
	"fmt"
	"time"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/block"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/metrics"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/math"
)

// UndoLastBlock removes the latest block from the chain to correct an
// identified fork. Every transaction of the block is reverted from the
// confirmed and unconfirmed state in reverse order, together with the
// generator's earnings. The removed block is returned.
func (s *State) UndoLastBlock(ctx context.Context) (blk block.Block, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveBlock(metrics.OpUndo, err, len(blk.Transactions), started)
	}()

	err = s.sequence.Add(ctx, func(ctx context.Context) error {
		blk = s.RetrieveLatestBlock()
		if blk.ID == "" {
			return fault.NotFound("block", "")
		}

		s.evHandler("state: UndoLastBlock: started: blk[%d] id[%s]", blk.Height, blk.ID)
		defer s.evHandler("state: UndoLastBlock: completed: blk[%d]", blk.Height)

		var previous block.Block
		if blk.PreviousBlock != "" {
			var err error
			if previous, err = s.loadBlock(ctx, blk.PreviousBlock); err != nil {
				return fmt.Errorf("load previous block: %w", err)
			}
		}

		generatorID, err := signature.Address(blk.GeneratorPublicKey)
		if err != nil {
			return fault.Verification("invalid generator public key")
		}

		earned, overflow := math.SafeAdd(blk.TotalFee, blk.Reward)
		if overflow {
			return fault.Verification("block earnings overflow")
		}

		updated, err := s.ledger.Update(func(b *accounts.Batch) error {
			if err := s.debitGenerator(b, generatorID, blk, earned); err != nil {
				return err
			}

			for i := len(blk.Transactions) - 1; i >= 0; i-- {
				trs := blk.Transactions[i]

				if err := s.trs.UndoIn(b, trs); err != nil {
					return fmt.Errorf("transaction %s: %w", trs.ID, err)
				}

				if err := s.trs.UndoUnconfirmedIn(b, trs); err != nil {
					return fmt.Errorf("transaction %s: %w", trs.ID, err)
				}
			}

			return s.deleteBlock(ctx, blk)
		})
		if err != nil {
			s.evHandler("state: UndoLastBlock: blk[%d]: ERROR: %s", blk.Height, err)
			return err
		}

		if err := s.saveAccounts(ctx, updated); err != nil {
			return err
		}

		s.mu.Lock()
		{
			s.latestBlock = previous
		}
		s.mu.Unlock()

		s.metrics.SetHeight(previous.Height)
		s.evHandler("viewer: undo: {\"id\":%q,\"height\":%d}", blk.ID, blk.Height)

		return nil
	})
	if err != nil {
		return block.Block{}, err
	}

	return blk, nil
}
