package transaction

import "github.com/ddknet/node/foundation/blockchain/fault"

// Status represents the lifecycle state of a transaction.
type Status uint8

// Set of statuses in lifecycle order.
const (
	StatusCreated Status = iota
	StatusQueued
	StatusProcessed
	StatusQueuedAsConflicted
	StatusVerified
	StatusUnconfirmApplied
	StatusPutInPool
	StatusBroadcasted
	StatusApplied
	StatusDeclined
)

var statusNames = [...]string{
	"CREATED",
	"QUEUED",
	"PROCESSED",
	"QUEUED_AS_CONFLICTED",
	"VERIFIED",
	"UNCONFIRM_APPLIED",
	"PUT_IN_POOL",
	"BROADCASTED",
	"APPLIED",
	"DECLINED",
}

// String implements the fmt.Stringer interface.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "UNKNOWN"
}

// Terminal reports if no transition leaves the status.
func (s Status) Terminal() bool {
	return s == StatusApplied || s == StatusDeclined || s == StatusQueuedAsConflicted
}

// transitions lists the forward moves allowed from each status. DECLINED
// is reachable from every status that is not terminal.
var transitions = map[Status][]Status{
	StatusCreated:          {StatusQueued},
	StatusQueued:           {StatusProcessed, StatusQueuedAsConflicted},
	StatusProcessed:        {StatusVerified},
	StatusVerified:         {StatusUnconfirmApplied},
	StatusUnconfirmApplied: {StatusPutInPool, StatusApplied},
	StatusPutInPool:        {StatusBroadcasted, StatusApplied},
	StatusBroadcasted:      {StatusApplied},
}

// CanTransition reports if the status may move to next.
func (s Status) CanTransition(next Status) bool {
	if s.Terminal() {
		return false
	}

	if next == StatusDeclined {
		return true
	}

	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}

	return false
}

// SetStatus moves the transaction to the next status.
func (trs *Transaction) SetStatus(next Status) error {
	if !trs.Status.CanTransition(next) {
		return fault.Validationf("transaction %s cannot move from %s to %s", trs.ID, trs.Status, next)
	}

	trs.Status = next
	return nil
}
