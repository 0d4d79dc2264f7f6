package transaction

import (
	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/math"
)

// Process verifies the transaction and applies it to the unconfirmed state
// in one atomic step. A transaction that fails is declined and the ledger is
// left untouched.
func (e *Engine) Process(trs *Transaction) error {
	if trs.Status == StatusCreated {
		if err := trs.SetStatus(StatusQueued); err != nil {
			return err
		}
	}

	if err := trs.SetStatus(StatusProcessed); err != nil {
		return err
	}

	_, err := e.ledger.Update(func(b *accounts.Batch) error {
		senderID, err := signature.Address(trs.SenderPublicKey)
		if err != nil {
			return fault.Verification("invalid sender public key")
		}
		sender, _ := b.Account(senderID)

		if err := e.VerifyWith(trs, sender, b).Err(); err != nil {
			return err
		}
		if err := trs.SetStatus(StatusVerified); err != nil {
			return err
		}

		return e.ApplyUnconfirmedIn(b, trs)
	})

	if err != nil {
		trs.Status = StatusDeclined
		e.evHandler("transaction: Process: DECLINED: id[%s]: %s", trs.ID, err)
		return err
	}

	return trs.SetStatus(StatusUnconfirmApplied)
}

// ApplyUnconfirmed applies the transaction to the unconfirmed state.
func (e *Engine) ApplyUnconfirmed(trs *Transaction) error {
	_, err := e.ledger.Update(func(b *accounts.Batch) error {
		return e.ApplyUnconfirmedIn(b, trs)
	})
	return err
}

// UndoUnconfirmed reverts the transaction from the unconfirmed state.
func (e *Engine) UndoUnconfirmed(trs *Transaction) error {
	_, err := e.ledger.Update(func(b *accounts.Batch) error {
		return e.UndoUnconfirmedIn(b, trs)
	})
	return err
}

// Apply applies the transaction to the confirmed state.
func (e *Engine) Apply(trs *Transaction) error {
	_, err := e.ledger.Update(func(b *accounts.Batch) error {
		return e.ApplyIn(b, trs)
	})
	return err
}

// Undo reverts the transaction from the confirmed state.
func (e *Engine) Undo(trs *Transaction) error {
	_, err := e.ledger.Update(func(b *accounts.Batch) error {
		return e.UndoIn(b, trs)
	})
	return err
}

// =============================================================================

// ApplyUnconfirmedIn deducts the amount and fee from the sender's
// unconfirmed balance and applies the asset to the unconfirmed state.
func (e *Engine) ApplyUnconfirmedIn(b *accounts.Batch, trs *Transaction) error {
	p, senderID, amount, err := e.prepareApply(trs)
	if err != nil {
		return err
	}

	b.SetPublicKey(senderID, trs.SenderPublicKey)

	sender, _ := b.Account(senderID)
	if err := e.CheckBalance(amount, sender.USpendable(), trs); err != nil {
		return err
	}

	if err := b.UDebit(senderID, amount); err != nil {
		return err
	}

	return p.ApplyUnconfirmed(trs, b)
}

// UndoUnconfirmedIn reverts the asset from the unconfirmed state and
// returns the amount and fee to the sender's unconfirmed balance.
func (e *Engine) UndoUnconfirmedIn(b *accounts.Batch, trs *Transaction) error {
	p, senderID, amount, err := e.prepareApply(trs)
	if err != nil {
		return err
	}

	if err := p.UndoUnconfirmed(trs, b); err != nil {
		return err
	}

	return b.UCredit(senderID, amount)
}

// ApplyIn deducts the amount and fee from the sender's confirmed balance
// and applies the asset to the confirmed state.
func (e *Engine) ApplyIn(b *accounts.Batch, trs *Transaction) error {
	p, senderID, amount, err := e.prepareApply(trs)
	if err != nil {
		return err
	}

	sender, _ := b.Account(senderID)
	if err := e.CheckBalance(amount, sender.Spendable(), trs); err != nil {
		return err
	}

	if err := b.Debit(senderID, amount); err != nil {
		return err
	}

	return p.Apply(trs, b)
}

// UndoIn reverts the asset from the confirmed state and returns the amount
// and fee to the sender's confirmed balance.
func (e *Engine) UndoIn(b *accounts.Batch, trs *Transaction) error {
	p, senderID, amount, err := e.prepareApply(trs)
	if err != nil {
		return err
	}

	if err := p.Undo(trs, b); err != nil {
		return err
	}

	return b.Credit(senderID, amount)
}

// prepareApply resolves the processor, the sender and the total the
// sender pays. The sender id is set on the transaction when missing.
func (e *Engine) prepareApply(trs *Transaction) (Processor, string, uint64, error) {
	p, err := e.Processor(trs.Type)
	if err != nil {
		return nil, "", 0, err
	}

	senderID, err := signature.Address(trs.SenderPublicKey)
	if err != nil {
		return nil, "", 0, fault.Verification("invalid sender public key")
	}

	if trs.SenderID == "" {
		trs.SenderID = senderID
	}

	amount, overflow := math.SafeAdd(trs.Amount, trs.Fee)
	if overflow {
		return nil, "", 0, fault.Verification("invalid transaction amount")
	}

	return p, senderID, amount, nil
}
