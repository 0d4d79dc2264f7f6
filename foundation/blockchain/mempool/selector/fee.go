package selector

import (
	"sort"

	"github.com/ddknet/node/foundation/blockchain/transaction"
)

// feeSelect returns transactions with the best fee while respecting the
// timestamp order of each sender.
var feeSelect = func(m map[string][]*transaction.Transaction, howMany int) []*transaction.Transaction {
	total := 0
	senders := make([]string, 0, len(m))
	for sender, trss := range m {
		senders = append(senders, sender)
		total += len(trss)

		// Sort the transactions per sender by timestamp.
		if len(trss) > 1 {
			sort.Sort(byTimestamp(trss))
		}
	}
	sort.Strings(senders)

	if howMany == -1 {
		howMany = total
	}

	/*
		Ann: {Timestamp: 1, Fee: 150}, {Timestamp: 2, Fee: 250},
		Bob: {Timestamp: 1, Fee: 75},  {Timestamp: 2, Fee: 200},
	*/

	// Pick the first transaction in the slice for each sender. Each iteration
	// represents a new row of selections. Keep doing that until all the
	// transactions have been selected.
	var rows [][]*transaction.Transaction
	for {
		var row []*transaction.Transaction
		for _, sender := range senders {
			if len(m[sender]) > 0 {
				row = append(row, m[sender][0])
				m[sender] = m[sender][1:]
			}
		}

		if row == nil {
			break
		}
		rows = append(rows, row)
	}

	/*
		0: Ann: {Timestamp: 1, Fee: 150}, Bob: {Timestamp: 1, Fee: 75}
		1: Ann: {Timestamp: 2, Fee: 250}, Bob: {Timestamp: 2, Fee: 200}
	*/

	// Sort each row by fee unless we will take all transactions from that
	// row anyway. Keep pulling transactions from each row until the amount
	// is fulfilled or there are no more transactions.
	final := []*transaction.Transaction{}
	for _, row := range rows {
		need := howMany - len(final)
		if len(row) > need {
			sort.Sort(byFee(row))
			final = append(final, row[:need]...)
			break
		}
		final = append(final, row...)
	}

	return final
}
