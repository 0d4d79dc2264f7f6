// Package mempool maintains the pool of unconfirmed transactions waiting to
// be forged into a block.
package mempool

import (
	"sync"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/mempool/selector"
	"github.com/ddknet/node/foundation/blockchain/transaction"
)

// Mempool represents a cache of unconfirmed transactions keyed by
// transaction id.
type Mempool struct {
	pool     map[string]*transaction.Transaction
	mu       sync.RWMutex
	selectFn selector.Func
}

// New constructs a new mempool using the default select strategy.
func New() (*Mempool, error) {
	return NewWithStrategy(selector.StrategyPriority)
}

// NewWithStrategy constructs a new mempool with specified select strategy.
func NewWithStrategy(strategy string) (*Mempool, error) {
	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		pool:     make(map[string]*transaction.Transaction),
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the mempool.
func (mp *Mempool) Upsert(trs *transaction.Transaction) (int, error) {
	if trs.ID == "" {
		return 0, fault.Validation("transaction id is required")
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[trs.ID] = trs.Clone()

	return len(mp.pool), nil
}

// Get returns a copy of the transaction with the specified id.
func (mp *Mempool) Get(id string) (*transaction.Transaction, error) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trs, exists := mp.pool[id]
	if !exists {
		return nil, fault.NotFound("transaction", id)
	}

	return trs.Clone(), nil
}

// Delete removes a transaction from the mempool.
func (mp *Mempool) Delete(id string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, id)
}

// SetStatus moves the pooled transaction to the next status.
func (mp *Mempool) SetStatus(id string, status transaction.Status) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	trs, exists := mp.pool[id]
	if !exists {
		return fault.NotFound("transaction", id)
	}

	return trs.SetStatus(status)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]*transaction.Transaction)
}

// Copy returns a copy of every pooled transaction in block order.
func (mp *Mempool) Copy() []*transaction.Transaction {
	mp.mu.RLock()
	trss := make([]*transaction.Transaction, 0, len(mp.pool))
	for _, trs := range mp.pool {
		trss = append(trss, trs.Clone())
	}
	mp.mu.RUnlock()

	transaction.Sort(trss)
	return trss
}

// PickBest uses the configured select strategy to return the next set of
// transactions for the next block. Pass -1 for all the transactions.
func (mp *Mempool) PickBest(howMany int) []*transaction.Transaction {

	// Group the transactions by sender.
	m := make(map[string][]*transaction.Transaction)
	mp.mu.RLock()
	{
		if howMany == -1 {
			howMany = len(mp.pool)
		}

		for _, trs := range mp.pool {
			m[trs.SenderID] = append(m[trs.SenderID], trs.Clone())
		}
	}
	mp.mu.RUnlock()

	return mp.selectFn(m, howMany)
}
