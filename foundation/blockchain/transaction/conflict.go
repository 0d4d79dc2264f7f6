package transaction

import (
	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ethereum/go-ethereum/common/math"
)

// VerifiedSet represents verified transactions keyed by id that are
// candidates for the same block.
type VerifiedSet map[string]*Transaction

// onePerSender lists the types a sender may only have once in a block.
var onePerSender = map[Type]bool{
	TypeRegister:  true,
	TypeSignature: true,
	TypeDelegate:  true,
	TypeMulti:     true,
}

// CheckSenderTransactions removes from the set the transactions of the
// sender that conflict with an earlier one, in block order, and returns
// them. A transaction conflicts when the sender's confirmed spendable
// balance cannot cover it together with the earlier ones, or when it is a
// second registration of a kind the sender may only make once.
func (e *Engine) CheckSenderTransactions(senderID string, verified VerifiedSet, accountsMap map[string]accounts.Account) []*Transaction {
	var own []*Transaction
	for _, trs := range verified {
		if trs.SenderID == senderID {
			own = append(own, trs)
		}
	}
	Sort(own)

	sender, exists := accountsMap[senderID]
	if !exists {
		sender, _ = e.ledger.Account(senderID)
	}

	available := sender.Spendable()
	seen := make(map[Type]bool)

	var conflicts []*Transaction
	for _, trs := range own {
		spend, overflow := math.SafeAdd(trs.Amount, trs.Fee)
		if stk, ok := trs.Asset.(Stake); ok && !overflow {
			spend, overflow = math.SafeAdd(spend, stk.StakeOrder.StakedAmount)
		}

		if overflow || spend > available || (onePerSender[trs.Type] && seen[trs.Type]) {
			conflicts = append(conflicts, trs)
			delete(verified, trs.ID)
			continue
		}

		available -= spend
		seen[trs.Type] = true
	}

	if len(conflicts) > 0 {
		e.evHandler("transaction: CheckSenderTransactions: sender[%s]: removed %d conflicting", senderID, len(conflicts))
	}

	return conflicts
}
