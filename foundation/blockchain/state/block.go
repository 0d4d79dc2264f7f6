package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/block"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/metrics"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/blockchain/transaction"
	"github.com/ethereum/go-ethereum/common/math"
)

// ForgeBlock assembles a block from the mempool, signs it with the key pair
// and applies it as the next block of the chain. Only one block can be
// forged at a time.
func (s *State) ForgeBlock(ctx context.Context, kp signature.KeyPair) (blk block.Block, err error) {
	if !s.forging.TryLock() {
		return block.Block{}, ErrForgeInProgress
	}
	defer s.forging.Unlock()

	started := time.Now()
	defer func() {
		s.metrics.ObserveBlock(metrics.OpForge, err, len(blk.Transactions), started)
	}()

	s.evHandler("state: ForgeBlock: FORGING: check mempool count")

	if s.mempool.Count() == 0 {
		return block.Block{}, ErrNoTransactions
	}

	err = s.sequence.Add(ctx, func(ctx context.Context) error {
		s.evHandler("state: ForgeBlock: FORGING: remove conflicting transactions")

		trss, err := s.dropConflicts(s.mempool.PickBest(-1))
		if err != nil {
			return err
		}

		if trss, err = s.dropUnappliable(trss); err != nil {
			return err
		}
		if len(trss) == 0 {
			return ErrNoTransactions
		}

		previous := s.RetrieveLatestBlock()

		timestamp := s.trs.Timestamp()
		if previous.ID != "" && timestamp <= previous.Timestamp {
			timestamp = previous.Timestamp + 1
		}

		s.evHandler("state: ForgeBlock: FORGING: create block: height[%d] trs[%d]", previous.Height+1, len(trss))

		var deferred []*transaction.Transaction
		blk, deferred, err = s.blocks.Create(block.CreateArgs{
			Transactions:  trss,
			PreviousBlock: previous,
			KeyPair:       kp,
			Timestamp:     timestamp,
		})
		if err != nil {
			return err
		}

		if len(deferred) > 0 {
			s.evHandler("state: ForgeBlock: FORGING: %d transactions wait for the next block", len(deferred))
		}

		return s.applyBlock(ctx, blk)
	})
	if err != nil {
		return block.Block{}, err
	}

	return s.RetrieveLatestBlock(), nil
}

// ApplyBlock validates a block received from another delegate and if it
// passes, adds the block to the local chain.
func (s *State) ApplyBlock(ctx context.Context, blk block.Block) (err error) {
	s.evHandler("state: ApplyBlock: started: prevBlk[%s]: newBlk[%s]: numTrans[%d]", blk.PreviousBlock, blk.ID, len(blk.Transactions))
	defer s.evHandler("state: ApplyBlock: completed: newBlk[%s]", blk.ID)

	started := time.Now()
	defer func() {
		s.metrics.ObserveBlock(metrics.OpApply, err, len(blk.Transactions), started)
	}()

	return s.sequence.Add(ctx, func(ctx context.Context) error {
		return s.applyBlock(ctx, blk)
	})
}

// =============================================================================

// dropConflicts removes the pooled transactions that can no longer be
// included together. They are reverted from the unconfirmed state, declined
// and taken out of the mempool.
func (s *State) dropConflicts(trss []*transaction.Transaction) ([]*transaction.Transaction, error) {
	verified := make(transaction.VerifiedSet, len(trss))
	senders := make(map[string]bool)
	for _, trs := range trss {
		verified[trs.ID] = trs
		senders[trs.SenderID] = true
	}

	for senderID := range senders {
		for _, trs := range s.trs.CheckSenderTransactions(senderID, verified, nil) {
			if err := s.trs.UndoUnconfirmed(trs); err != nil {
				return nil, err
			}

			trs.Status = transaction.StatusDeclined
			s.mempool.Delete(trs.ID)
			s.evHandler("state: dropConflicts: id[%s]: DECLINED", trs.ID)
		}
	}

	out := make([]*transaction.Transaction, 0, len(verified))
	for _, trs := range verified {
		out = append(out, trs)
	}
	transaction.Sort(out)

	return out, nil
}

// errTrial rolls back the trial application of the forged transactions.
var errTrial = errors.New("trial apply")

// dropUnappliable applies the transactions to a staged copy of the
// confirmed state in block order and declines the first one that fails,
// until the rest apply together. The ledger itself is left untouched.
func (s *State) dropUnappliable(trss []*transaction.Transaction) ([]*transaction.Transaction, error) {
	for {
		failed := -1
		var cause error

		_, err := s.ledger.Update(func(b *accounts.Batch) error {
			for i, trs := range trss {
				if err := s.trs.ApplyIn(b, trs.Clone()); err != nil {
					failed, cause = i, err
					return err
				}
			}
			return errTrial
		})

		if failed < 0 {
			if errors.Is(err, errTrial) {
				return trss, nil
			}
			return nil, err
		}

		trs := trss[failed]
		if err := s.trs.UndoUnconfirmed(trs); err != nil {
			s.evHandler("state: dropUnappliable: id[%s]: undo unconfirmed: ERROR: %s", trs.ID, err)
		}

		trs.Status = transaction.StatusDeclined
		s.mempool.Delete(trs.ID)
		s.evHandler("state: dropUnappliable: id[%s]: DECLINED: %s", trs.ID, cause)

		trss = slices.Delete(trss, failed, failed+1)
	}
}

// applyBlock takes the block and validates it against the latest block. If
// the block passes, every transaction is applied to the ledger together
// with the generator's earnings and the block is written to storage.
func (s *State) applyBlock(ctx context.Context, blk block.Block) error {
	previous := s.RetrieveLatestBlock()

	s.evHandler("state: applyBlock: validate block")

	blk, err := s.blocks.ObjectNormalize(blk)
	if err != nil {
		return err
	}

	if err := s.blocks.Verify(blk, previous); err != nil {
		return err
	}

	generatorID, err := signature.Address(blk.GeneratorPublicKey)
	if err != nil {
		return fault.Verification("invalid generator public key")
	}

	earned, overflow := math.SafeAdd(blk.TotalFee, blk.Reward)
	if overflow {
		return fault.Verification("block earnings overflow")
	}

	// Each stored transaction carries the block id and the applied status.
	trss := make([]*transaction.Transaction, len(blk.Transactions))
	for i, trs := range blk.Transactions {
		trss[i] = trs.Clone()
		trss[i].BlockID = blk.ID
	}

	s.evHandler("state: applyBlock: update accounts and write to storage")

	updated, err := s.ledger.Update(func(b *accounts.Batch) error {
		for _, trs := range trss {
			if _, err := s.mempool.Get(trs.ID); err != nil {
				senderID, err := signature.Address(trs.SenderPublicKey)
				if err != nil {
					return fault.Verificationf("transaction %s: invalid sender public key", trs.ID)
				}

				sender, _ := b.Account(senderID)
				if err := s.trs.VerifyWith(trs, sender, b).Err(); err != nil {
					return fmt.Errorf("transaction %s: %w", trs.ID, err)
				}

				if err := s.trs.ApplyUnconfirmedIn(b, trs); err != nil {
					return fmt.Errorf("transaction %s: %w", trs.ID, err)
				}
			}

			if err := s.trs.ApplyIn(b, trs); err != nil {
				return fmt.Errorf("transaction %s: %w", trs.ID, err)
			}
			trs.Status = transaction.StatusApplied
		}

		if err := s.creditGenerator(b, generatorID, blk, earned); err != nil {
			return err
		}

		blk.Transactions = trss
		records, err := s.blockRecords(blk)
		if err != nil {
			return err
		}

		return s.storage.Save(ctx, records...)
	})
	if err != nil {
		s.evHandler("state: applyBlock: blk[%d]: ERROR: %s", blk.Height, err)
		return err
	}

	if err := s.saveAccounts(ctx, updated); err != nil {
		s.evHandler("state: applyBlock: blk[%d]: save accounts: ERROR: %s", blk.Height, err)
		return err
	}

	for _, trs := range trss {
		s.mempool.Delete(trs.ID)
	}

	s.mu.Lock()
	{
		s.latestBlock = blk
	}
	s.mu.Unlock()

	s.metrics.SetHeight(blk.Height)
	s.metrics.SetMempool(s.mempool.Count())

	// Send an event about this new block.
	s.blockEvent(blk)

	return nil
}

// creditGenerator pays the fees and the reward of the block to the
// delegate that forged it.
func (s *State) creditGenerator(b *accounts.Batch, generatorID string, blk block.Block, earned uint64) error {
	b.SetPublicKey(generatorID, blk.GeneratorPublicKey)

	if err := b.Credit(generatorID, earned); err != nil {
		return err
	}
	if err := b.UCredit(generatorID, earned); err != nil {
		return err
	}

	return b.Modify(generatorID, func(a *accounts.Account) error {
		a.Fees += blk.TotalFee
		a.Rewards += blk.Reward
		a.ProducedBlocks++
		return nil
	})
}

// debitGenerator takes back what creditGenerator paid.
func (s *State) debitGenerator(b *accounts.Batch, generatorID string, blk block.Block, earned uint64) error {
	if err := b.Debit(generatorID, earned); err != nil {
		return err
	}
	if err := b.UDebit(generatorID, earned); err != nil {
		return err
	}

	return b.Modify(generatorID, func(a *accounts.Account) error {
		a.Fees -= min(a.Fees, blk.TotalFee)
		a.Rewards -= min(a.Rewards, blk.Reward)
		if a.ProducedBlocks > 0 {
			a.ProducedBlocks--
		}
		return nil
	})
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(blk block.Block) {
	trss := blk.Transactions
	blk.Transactions = nil

	blockJSON, err := json.Marshal(blk)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	blockTransJSON, err := json.Marshal(trss)
	if err != nil {
		blockTransJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"id":%q,"height":%d,"block":%s,"trans":%s}`, blk.ID, blk.Height, string(blockJSON), string(blockTransJSON))
}
