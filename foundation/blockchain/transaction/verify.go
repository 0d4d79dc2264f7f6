package transaction

import (
	"context"
	"runtime"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/math"
	"golang.org/x/sync/errgroup"
)

// slotInterval is the number of seconds in a forging slot. Transactions
// stamped in a future slot are rejected.
const slotInterval = 10

// Result represents the outcome of verifying a transaction. Every failed
// check adds a message.
type Result struct {
	Verified bool     `json:"verified"`
	Errors   []string `json:"errors,omitempty"`
}

// Err returns the failures as a VerificationError, or nil.
func (r Result) Err() error {
	if r.Verified {
		return nil
	}
	return fault.Verification(r.Errors...)
}

// Verify checks the transaction against the sender and the current state
// of the ledger.
func (e *Engine) Verify(trs *Transaction, sender accounts.Account) Result {
	return e.VerifyWith(trs, sender, e.ledger)
}

// VerifyWith checks the transaction against the sender using the provided
// view of the ledger. Verification has no side effects.
func (e *Engine) VerifyWith(trs *Transaction, sender accounts.Account, r accounts.Reader) Result {
	var msgs []string
	add := func(err error) {
		if err != nil {
			msgs = append(msgs, fault.Messages(err)...)
		}
	}

	p, err := e.Processor(trs.Type)
	if err != nil {
		return Result{Errors: fault.Messages(err)}
	}

	senderID, err := signature.Address(trs.SenderPublicKey)
	if err != nil {
		return Result{Errors: []string{"invalid sender public key"}}
	}

	// Processors rely on the sender id being set.
	trs = trs.Clone()
	if trs.SenderID == "" {
		trs.SenderID = senderID
	}

	if trs.SenderID != senderID {
		msgs = append(msgs, "invalid sender address")
	}

	if sender.Address == "" {
		sender.Address = senderID
	}

	if sender.Address != senderID {
		msgs = append(msgs, "invalid sender, account does not match the public key")
	}

	if sender.PublicKey != "" && sender.PublicKey != trs.SenderPublicKey {
		msgs = append(msgs, "invalid sender public key")
	}

	if trs.Asset == nil || trs.Asset.assetType() != trs.Type {
		return Result{Errors: append(msgs, "invalid transaction asset")}
	}

	add(e.VerifySignature(trs, trs.SenderPublicKey, trs.Signature))

	switch {
	case sender.SecondSignature:
		if trs.SignSignature == "" {
			msgs = append(msgs, "missing sender second signature")
			break
		}
		add(e.VerifySecondSignature(trs, sender.SecondPublicKey, trs.SignSignature))

	case trs.SignSignature != "":
		msgs = append(msgs, "sender does not have a second signature")
	}

	if fee := p.CalculateFee(trs, sender); trs.Fee < fee {
		msgs = append(msgs, "invalid transaction fee")
	}

	if trs.Amount > e.genesis.TotalSupply {
		msgs = append(msgs, "invalid transaction amount")
	}

	if trs.Timestamp/slotInterval > e.Timestamp()/slotInterval {
		msgs = append(msgs, "invalid transaction timestamp, timestamp is in the future")
	}

	if trs.ID != "" {
		id, err := e.ID(trs)
		switch {
		case err != nil:
			add(err)
		case id != trs.ID:
			msgs = append(msgs, "invalid transaction id")
		}
	}

	amount, overflow := math.SafeAdd(trs.Amount, trs.Fee)
	switch {
	case overflow:
		msgs = append(msgs, "invalid transaction amount")
	default:
		add(e.CheckBalance(amount, sender.USpendable(), trs))
	}

	add(p.Verify(trs, sender, r))

	if len(msgs) > 0 {
		return Result{Errors: msgs}
	}

	return Result{Verified: true}
}

// CheckBalance checks the balance covers the amount.
func (e *Engine) CheckBalance(amount uint64, balance uint64, trs *Transaction) error {
	if balance < amount {
		return fault.Verificationf("account does not have enough DDK: %s balance: %d", trs.SenderID, balance)
	}

	return nil
}

// VerifyAll verifies the transactions concurrently against the ledger.
// The results are in the order of the transactions.
func (e *Engine) VerifyAll(ctx context.Context, trss []*Transaction) ([]Result, error) {
	results := make([]Result, len(trss))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, trs := range trss {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			senderID, _ := signature.Address(trs.SenderPublicKey)
			sender, _ := e.ledger.Account(senderID)

			results[i] = e.Verify(trs, sender)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
