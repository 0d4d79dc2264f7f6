package selector

import (
	"github.com/ddknet/node/foundation/blockchain/transaction"
)

// prioritySelect returns transactions in block order. Registrations come
// before the transactions that depend on them.
var prioritySelect = func(m map[string][]*transaction.Transaction, howMany int) []*transaction.Transaction {
	var all []*transaction.Transaction
	for _, trss := range m {
		all = append(all, trss...)
	}
	transaction.Sort(all)

	if howMany == -1 || howMany > len(all) {
		howMany = len(all)
	}

	return all[:howMany]
}
