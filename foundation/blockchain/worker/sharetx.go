package worker

// maxTxShareRequests represents the max number of pending tx share
// requests that can be outstanding before share requests are dropped. To keep
// this simple, a buffered channel of this arbitrary number is being used. If
// the channel does become full, requests for new transactions to be shared
// will not be accepted.
const maxTxShareRequests = 100

// =============================================================================

// shareTxOperations handles sharing new pooled transactions.
func (w *Worker) shareTxOperations() {
	w.evHandler("worker: shareTxOperations: G started")
	defer w.evHandler("worker: shareTxOperations: G completed")

	for {
		select {
		case id := <-w.txSharing:
			if !w.isShutdown() {
				w.runShareTxOperation(id)
			}
		case <-w.shut:
			w.evHandler("worker: shareTxOperations: received shut signal")
			return
		}
	}
}

// runShareTxOperation announces the pooled transaction to the event
// subscribers and records it as broadcasted. A transaction that was forged
// in the meantime is no longer in the pool and is skipped.
func (w *Worker) runShareTxOperation(id string) {
	w.evHandler("worker: runShareTxOperation: started")
	defer w.evHandler("worker: runShareTxOperation: completed")

	if err := w.state.MarkBroadcasted(id); err != nil {
		w.evHandler("worker: runShareTxOperation: id[%s]: WARNING: %s", id, err)
		return
	}

	w.evHandler(`viewer: broadcast: {"id":%q}`, id)
}
