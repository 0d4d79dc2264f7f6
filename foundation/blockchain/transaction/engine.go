package transaction

import (
	"encoding/json"
	"time"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/genesis"
	"github.com/ddknet/node/foundation/blockchain/schema"
	"github.com/ddknet/node/foundation/blockchain/signature"
)

// EventHandler defines a function that is called when events
// occur in the processing of transactions.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to construct the engine.
type Config struct {
	Genesis   genesis.Genesis
	Ledger    *accounts.Ledger
	Validator *schema.Validator
	Now       func() time.Time
	EvHandler EventHandler
}

// Engine manages the creation, verification and application of
// transactions against the account ledger.
type Engine struct {
	genesis    genesis.Genesis
	ledger     *accounts.Ledger
	validator  *schema.Validator
	now        func() time.Time
	evHandler  EventHandler
	processors map[Type]Processor
}

// New constructs a transaction engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Ledger == nil {
		return nil, fault.Validation("transaction engine requires a ledger")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	validator := cfg.Validator
	if validator == nil {
		var err error
		if validator, err = schema.New(); err != nil {
			return nil, err
		}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	e := Engine{
		genesis:   cfg.Genesis,
		ledger:    cfg.Ledger,
		validator: validator,
		now:       now,
		evHandler: ev,
	}
	e.processors = newProcessors(&env{genesis: cfg.Genesis, validator: validator})

	return &e, nil
}

// Processor returns the processor for the transaction type.
func (e *Engine) Processor(t Type) (Processor, error) {
	p, exists := e.processors[t]
	if !exists {
		return nil, fault.Validationf("unknown transaction type %d", uint8(t))
	}
	return p, nil
}

// Timestamp returns the current time in seconds since the epoch.
func (e *Engine) Timestamp() int32 {
	return e.genesis.Timestamp(e.now())
}

// =============================================================================

// CreateArgs represents the values needed to create a transaction.
type CreateArgs struct {
	Type          Type
	KeyPair       signature.KeyPair
	SecondKeyPair *signature.KeyPair
	RecipientID   string
	Amount        uint64
	Fee           uint64 // Zero selects the calculated fee.
	Timestamp     int32  // Zero selects the current time.
	Asset         json.RawMessage
}

// Create builds, signs and identifies a new transaction.
func (e *Engine) Create(args CreateArgs) (*Transaction, error) {
	p, err := e.Processor(args.Type)
	if err != nil {
		return nil, err
	}

	asset, err := p.Create(args.Asset)
	if err != nil {
		return nil, err
	}

	recipientID := args.RecipientID
	asset, recipientID = bindRecipient(asset, recipientID)

	timestamp := args.Timestamp
	if timestamp == 0 {
		timestamp = e.Timestamp()
	}

	senderID := args.KeyPair.Address()
	sender, exists := e.ledger.Account(senderID)
	if !exists {
		sender = accounts.Account{Address: senderID}
	}

	trs := Transaction{
		Type:            args.Type,
		Timestamp:       timestamp,
		SenderPublicKey: args.KeyPair.PublicKeyHex(),
		SenderID:        senderID,
		RecipientID:     recipientID,
		Amount:          args.Amount,
		Status:          StatusCreated,
		Asset:           asset,
	}

	if pr, ok := p.(preparer); ok {
		if err := pr.prepare(&trs, sender, e.ledger); err != nil {
			return nil, err
		}
	}

	trs.Fee = args.Fee
	if trs.Fee == 0 {
		trs.Fee = p.CalculateFee(&trs, sender)
	}

	if trs.Signature, err = e.Sign(args.KeyPair, &trs); err != nil {
		return nil, err
	}

	if args.SecondKeyPair != nil {
		if trs.SignSignature, err = e.SecondSign(*args.SecondKeyPair, &trs); err != nil {
			return nil, err
		}
	}

	if trs.ID, err = e.ID(&trs); err != nil {
		return nil, err
	}

	e.evHandler("transaction: Create: type[%s] id[%s] sender[%s]", trs.Type, trs.ID, trs.SenderID)

	return &trs, nil
}

// bindRecipient keeps the header recipient and the asset recipient of the
// transfer types in agreement, filling whichever one is missing.
func bindRecipient(asset Asset, recipientID string) (Asset, string) {
	switch a := asset.(type) {
	case Transfer:
		switch {
		case a.RecipientID == "":
			a.RecipientID = recipientID
		case recipientID == "":
			recipientID = a.RecipientID
		}
		return a, recipientID

	case SendStake:
		switch {
		case a.RecipientID == "":
			a.RecipientID = recipientID
		case recipientID == "":
			recipientID = a.RecipientID
		}
		return a, recipientID
	}

	return asset, recipientID
}

// CalculateFee returns the fee the transaction must at least carry.
func (e *Engine) CalculateFee(trs *Transaction, sender accounts.Account) (uint64, error) {
	p, err := e.Processor(trs.Type)
	if err != nil {
		return 0, err
	}

	return p.CalculateFee(trs, sender), nil
}

// ObjectNormalize validates the transaction and its asset against their
// schemas.
func (e *Engine) ObjectNormalize(trs *Transaction) error {
	p, err := e.Processor(trs.Type)
	if err != nil {
		return err
	}

	if trs.Asset == nil {
		return fault.Validation("missing transaction asset")
	}

	if trs.Asset.assetType() != trs.Type {
		return fault.Validationf("asset of type %s does not match transaction type %s", trs.Asset.assetType(), trs.Type)
	}

	var msgs []string
	if err := e.validator.Check(trs); err != nil {
		msgs = append(msgs, fault.Messages(err)...)
	}
	if err := p.Normalize(trs.Asset); err != nil {
		msgs = append(msgs, fault.Messages(err)...)
	}

	if len(msgs) > 0 {
		return fault.Validation(msgs...)
	}

	return nil
}
