// Package selector provides different transaction selecting algorithms.
package selector

import (
	"fmt"

	"github.com/ddknet/node/foundation/blockchain/transaction"
)

// List of different select strategies.
const (
	StrategyPriority = "priority"
	StrategyFee      = "fee"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyPriority: prioritySelect,
	StrategyFee:      feeSelect,
}

// Func defines a function that takes a pool of transactions grouped by
// sender address and selects howMany of them in an order based on the
// functions strategy. Receiving -1 for howMany must return all the
// transactions in the strategies ordering.
type Func func(transactions map[string][]*transaction.Transaction, howMany int) []*transaction.Transaction

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}

	return fn, nil
}

// =============================================================================

// byTimestamp provides sorting support by the transaction timestamp value.
type byTimestamp []*transaction.Transaction

// Len returns the number of transactions in the list.
func (bt byTimestamp) Len() int {
	return len(bt)
}

// Less helps to sort the list by timestamp in ascending order to keep the
// transactions in the order the sender created them.
func (bt byTimestamp) Less(i, j int) bool {
	if bt[i].Timestamp == bt[j].Timestamp {
		return bt[i].ID < bt[j].ID
	}
	return bt[i].Timestamp < bt[j].Timestamp
}

// Swap moves transactions in the order of the timestamp value.
func (bt byTimestamp) Swap(i, j int) {
	bt[i], bt[j] = bt[j], bt[i]
}

// =============================================================================

// byFee provides sorting support by the transaction fee value.
type byFee []*transaction.Transaction

// Len returns the number of transactions in the list.
func (bf byFee) Len() int {
	return len(bf)
}

// Less helps to sort the list by fee in decending order to pick the
// transactions that provide the best reward to the forger.
func (bf byFee) Less(i, j int) bool {
	if bf[i].Fee == bf[j].Fee {
		return bf[i].ID < bf[j].ID
	}
	return bf[i].Fee > bf[j].Fee
}

// Swap moves transactions in the order of the fee value.
func (bf byFee) Swap(i, j int) {
	bf[i], bf[j] = bf[j], bf[i]
}
