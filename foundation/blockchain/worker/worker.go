// Package worker implements forging and transaction sharing for the
// blockchain.
package worker

import (
	"sync"
	"time"

	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/blockchain/state"
)

// slotInterval represents the interval a delegate may forge a block in.
const slotInterval = 10 * time.Second

// =============================================================================

// Worker manages the forging workflows for the blockchain.
type Worker struct {
	state        *state.State
	keyPair      *signature.KeyPair
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	startForging chan bool
	txSharing    chan string
	evHandler    state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes. A nil key pair runs the node
// without forging.
func Run(st *state.State, keyPair *signature.KeyPair, evHandler state.EventHandler) *Worker {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	w := Worker{
		state:        st,
		keyPair:      keyPair,
		ticker:       time.NewTicker(slotInterval),
		shut:         make(chan struct{}),
		startForging: make(chan bool, 1),
		txSharing:    make(chan string, maxTxShareRequests),
		evHandler:    ev,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.forgingOperations,
		w.shareTxOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartForging starts a forging operation. If there is already a signal
// pending in the channel, just return since a forging operation will start.
func (w *Worker) SignalStartForging() {
	if w.keyPair == nil {
		return
	}

	select {
	case w.startForging <- true:
	default:
	}
	w.evHandler("worker: SignalStartForging: forging signaled")
}

// SignalShareTx signals a share transaction operation. If
// maxTxShareRequests signals exist in the channel, we won't send these.
func (w *Worker) SignalShareTx(id string) {
	select {
	case w.txSharing <- id:
		w.evHandler("worker: SignalShareTx: share Tx signaled")
	default:
		w.evHandler("worker: SignalShareTx: queue full, transactions won't be shared.")
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
