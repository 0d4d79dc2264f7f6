package worker

import (
	"context"
	"errors"

	"github.com/ddknet/node/foundation/blockchain/state"
)

// forgingOperations handles forging. A block is attempted when signaled
// and at every slot.
func (w *Worker) forgingOperations() {
	w.evHandler("worker: forgingOperations: G started")
	defer w.evHandler("worker: forgingOperations: G completed")

	for {
		select {
		case <-w.startForging:
			if !w.isShutdown() {
				w.runForgingOperation()
			}
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runForgingOperation()
			}
		case <-w.shut:
			w.evHandler("worker: forgingOperations: received shut signal")
			return
		}
	}
}

// runForgingOperation takes the transactions from the mempool and writes
// a new block to the chain.
func (w *Worker) runForgingOperation() {
	if w.keyPair == nil {
		return
	}

	w.evHandler("worker: runForgingOperation: FORGING: started")
	defer w.evHandler("worker: runForgingOperation: FORGING: completed")

	// Make sure there are transactions in the mempool.
	length := w.state.QueryMempoolLength()
	if length == 0 {
		w.evHandler("worker: runForgingOperation: FORGING: no transactions to forge: Txs[%d]", length)
		return
	}

	// Stop the forging operation when the worker shuts down.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-w.shut:
			cancel()
		case <-ctx.Done():
		}
	}()

	blk, err := w.state.ForgeBlock(ctx, *w.keyPair)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrNoTransactions):
			w.evHandler("worker: runForgingOperation: FORGING: WARNING: no transactions in mempool")
		case errors.Is(err, state.ErrForgeInProgress):
			w.evHandler("worker: runForgingOperation: FORGING: WARNING: forge in progress")
		case ctx.Err() != nil:
			w.evHandler("worker: runForgingOperation: FORGING: CANCELLED: by shutdown")
		default:
			w.evHandler("worker: runForgingOperation: FORGING: ERROR: %s", err)
		}
		return
	}

	w.evHandler("worker: runForgingOperation: FORGING: blk[%d] id[%s] trs[%d]", blk.Height, blk.ID, len(blk.Transactions))

	// Transactions that did not fit wait for the next signal.
	if length := w.state.QueryMempoolLength(); length > 0 {
		w.evHandler("worker: runForgingOperation: FORGING: signal new forging operation: Txs[%d]", length)
		w.SignalStartForging()
	}
}
