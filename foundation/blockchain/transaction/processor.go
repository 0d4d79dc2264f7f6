package transaction

import (
	"encoding/json"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/genesis"
	"github.com/ddknet/node/foundation/blockchain/schema"
	"github.com/ddknet/node/foundation/blockchain/storage"
)

// Processor represents the behavior of a single transaction type. The
// engine handles the sender's amount and fee, processors handle everything
// the asset adds on top of it.
type Processor interface {
	Create(raw json.RawMessage) (Asset, error)
	Bytes(asset Asset) ([]byte, error)
	CalculateFee(trs *Transaction, sender accounts.Account) uint64
	Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error
	ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error
	UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error
	Apply(trs *Transaction, b *accounts.Batch) error
	Undo(trs *Transaction, b *accounts.Batch) error
	Table() string
	DBRead(row storage.Row) (Asset, error)
	DBSave(trs *Transaction) *storage.Record
	Normalize(asset Asset) error
}

// preparer is implemented by processors whose asset carries values the
// node computes from the ledger at creation time.
type preparer interface {
	prepare(trs *Transaction, sender accounts.Account, r accounts.Reader) error
}

// env holds the values every processor depends on.
type env struct {
	genesis   genesis.Genesis
	validator *schema.Validator
}

// normalize validates the asset against its schema.
func (e *env) normalize(asset Asset) error {
	return e.validator.Check(asset)
}

// newProcessors constructs the processor for every transaction type.
func newProcessors(e *env) map[Type]Processor {
	return map[Type]Processor{
		TypeRegister:    &register{e},
		TypeSend:        &send{e},
		TypeSignature:   &secondSignature{e},
		TypeDelegate:    &delegate{e},
		TypeStake:       &stake{e},
		TypeSendStake:   &sendStake{e},
		TypeVote:        &vote{e},
		TypeMulti:       &multisignature{e},
		TypeDapp:        &dapp{e},
		TypeInTransfer:  &inTransfer{e},
		TypeOutTransfer: &outTransfer{e},
	}
}
