package transaction

import "sort"

// Sort orders the transactions for block inclusion. Every node must select
// and execute transactions in the same order, so the order is total: type
// code ascending, fee descending, timestamp ascending and id ascending.
// Registrations therefore precede the votes that depend on them.
func Sort(trss []*Transaction) {
	sort.Sort(byPriority(trss))
}

// byPriority provides sorting support by block inclusion priority.
type byPriority []*Transaction

// Len returns the number of transactions in the list.
func (bp byPriority) Len() int {
	return len(bp)
}

// Less helps to sort the list by type, then by the best fee, then by the
// oldest timestamp and finally by id.
func (bp byPriority) Less(i, j int) bool {
	a, b := bp[i], bp[j]

	switch {
	case a.Type != b.Type:
		return a.Type < b.Type
	case a.Fee != b.Fee:
		return a.Fee > b.Fee
	case a.Timestamp != b.Timestamp:
		return a.Timestamp < b.Timestamp
	}

	return a.ID < b.ID
}

// Swap moves transactions in the order of priority.
func (bp byPriority) Swap(i, j int) {
	bp[i], bp[j] = bp[j], bp[i]
}
