package state

import (
	"context"
	"time"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
	"github.com/ddknet/node/foundation/blockchain/transaction"
)

// SubmitTransaction accepts a signed transaction from a wallet. The
// transaction is verified, applied to the unconfirmed state and placed in
// the mempool to wait for the next block.
func (s *State) SubmitTransaction(ctx context.Context, trs *transaction.Transaction) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveTransaction(trs.Type.String(), err, started)
		s.metrics.SetMempool(s.mempool.Count())
	}()

	if err := s.trs.ObjectNormalize(trs); err != nil {
		return err
	}

	id, err := s.trs.ID(trs)
	if err != nil {
		return err
	}
	if trs.ID != id {
		return fault.Validationf("invalid transaction id, got %s, exp %s", trs.ID, id)
	}

	if _, err := s.mempool.Get(trs.ID); err == nil {
		return fault.Validationf("transaction %s is already in the pool", trs.ID)
	}

	switch _, err := s.storage.Get(ctx, storage.TableTransactions, trs.ID); {
	case err == nil:
		return fault.Validationf("transaction %s is already confirmed", trs.ID)
	case !fault.IsNotFound(err):
		return err
	}

	// Whatever status the caller sent, processing starts over.
	trs.Status = transaction.StatusCreated
	trs.BlockID = ""

	err = s.sequence.Add(ctx, func(ctx context.Context) error {
		if err := s.trs.Process(trs); err != nil {
			return err
		}

		if _, err := s.mempool.Upsert(trs); err != nil {
			return err
		}

		return s.mempool.SetStatus(trs.ID, transaction.StatusPutInPool)
	})
	if err != nil {
		s.evHandler("state: SubmitTransaction: id[%s]: ERROR: %s", trs.ID, err)
		return err
	}

	s.evHandler(`viewer: transaction: {"id":%q,"type":%d,"senderId":%q,"amount":%d,"fee":%d}`, trs.ID, trs.Type, trs.SenderID, trs.Amount, trs.Fee)

	if s.Worker != nil {
		s.Worker.SignalShareTx(trs.ID)
		s.Worker.SignalStartForging()
	}

	return nil
}

// MarkBroadcasted records that the pooled transaction was shared.
func (s *State) MarkBroadcasted(id string) error {
	return s.mempool.SetStatus(id, transaction.StatusBroadcasted)
}
