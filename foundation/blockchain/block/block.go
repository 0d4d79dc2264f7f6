// Package block implements the block engine: assembling a candidate block
// from pending transactions, the canonical block bytes, signing and the
// mapping between blocks and stored rows.
package block

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/genesis"
	"github.com/ddknet/node/foundation/blockchain/reward"
	"github.com/ddknet/node/foundation/blockchain/schema"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/blockchain/transaction"
	"github.com/ethereum/go-ethereum/common/math"
)

// Block represents a signed group of transactions. The fields after
// Transactions are read only values filled when a block is loaded from
// storage.
type Block struct {
	ID                   string                     `json:"id" validate:"omitempty,hex,max=64"`
	Version              int32                      `json:"version" validate:"min=0"`
	Timestamp            int32                      `json:"timestamp" validate:"min=0"`
	Height               uint64                     `json:"height"`
	PreviousBlock        string                     `json:"previousBlock,omitempty" validate:"omitempty,hex,max=64"`
	NumberOfTransactions int32                      `json:"numberOfTransactions" validate:"min=0"`
	TotalAmount          uint64                     `json:"totalAmount"`
	TotalFee             uint64                     `json:"totalFee"`
	Reward               uint64                     `json:"reward"`
	PayloadLength        int32                      `json:"payloadLength" validate:"min=0"`
	PayloadHash          string                     `json:"payloadHash" validate:"required,hex,len=64"`
	GeneratorPublicKey   string                     `json:"generatorPublicKey" validate:"required,publickey"`
	BlockSignature       string                     `json:"blockSignature" validate:"required,signature"`
	Transactions         []*transaction.Transaction `json:"transactions" validate:"-"`

	GeneratorID   string `json:"generatorId,omitempty" validate:"-"`
	Confirmations uint64 `json:"confirmations,omitempty" validate:"-"`
	Username      string `json:"username,omitempty" validate:"-"`
	TotalForged   string `json:"totalForged,omitempty" validate:"-"`
}

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to construct the engine.
type Config struct {
	Genesis      genesis.Genesis
	Transactions *transaction.Engine
	Validator    *schema.Validator
	EvHandler    EventHandler
}

// Engine assembles, signs and verifies blocks.
type Engine struct {
	genesis   genesis.Genesis
	trs       *transaction.Engine
	validator *schema.Validator
	schedule  *reward.Schedule
	evHandler EventHandler
}

// New constructs a block engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Transactions == nil {
		return nil, fault.Validation("block engine requires a transaction engine")
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

	schedule, err := reward.New(cfg.Genesis.TotalSupply, cfg.Genesis.Milestones)
	if err != nil {
		return nil, err
	}

	e := Engine{
		genesis:   cfg.Genesis,
		trs:       cfg.Transactions,
		validator: validator,
		schedule:  schedule,
		evHandler: ev,
	}

	return &e, nil
}

// Schedule returns the reward schedule blocks are created with.
func (e *Engine) Schedule() *reward.Schedule {
	return e.schedule
}

// CalculateFee returns the fee of a plain transfer.
func (e *Engine) CalculateFee() uint64 {
	return e.genesis.Fees.Send
}

// =============================================================================

// CreateArgs represents the values needed to create a block.
type CreateArgs struct {
	Transactions  []*transaction.Transaction
	PreviousBlock Block
	KeyPair       signature.KeyPair
	Timestamp     int32
}

// Create assembles a signed block from the pending transactions. The
// transactions are taken in block order until the next one no longer fits
// the payload, the ones left out are returned so they can be offered to
// the next block.
func (e *Engine) Create(args CreateArgs) (Block, []*transaction.Transaction, error) {
	trss := make([]*transaction.Transaction, len(args.Transactions))
	copy(trss, args.Transactions)
	transaction.Sort(trss)

	payloadHash := sha256.New()
	maxPayload := int(e.genesis.MaxPayloadLength)

	var (
		err         error
		size        int
		totalAmount uint64
		totalFee    uint64
		included    []*transaction.Transaction
		deferred    []*transaction.Transaction
	)

	for i, trs := range trss {
		data, err := e.trs.Bytes(trs, false, false)
		if err != nil {
			return Block{}, nil, err
		}

		if size+len(data) > maxPayload {
			deferred = append(deferred, trss[i:]...)
			break
		}

		if totalAmount, totalFee, err = addTotals(totalAmount, totalFee, trs); err != nil {
			return Block{}, nil, err
		}

		size += len(data)
		payloadHash.Write(data)
		included = append(included, trs)
	}

	height := args.PreviousBlock.Height + 1

	blk := Block{
		Version:              e.genesis.BlockVersion,
		Timestamp:            args.Timestamp,
		Height:               height,
		PreviousBlock:        args.PreviousBlock.ID,
		NumberOfTransactions: int32(len(included)),
		TotalAmount:          totalAmount,
		TotalFee:             totalFee,
		Reward:               e.schedule.CalcReward(height),
		PayloadLength:        int32(size),
		PayloadHash:          hex.EncodeToString(payloadHash.Sum(nil)),
		GeneratorPublicKey:   args.KeyPair.PublicKeyHex(),
		Transactions:         included,
	}

	if blk.BlockSignature, err = e.Sign(args.KeyPair, blk); err != nil {
		return Block{}, nil, err
	}

	if blk.ID, err = e.ID(blk); err != nil {
		return Block{}, nil, err
	}

	if blk, err = e.ObjectNormalize(blk); err != nil {
		return Block{}, nil, err
	}

	e.evHandler("block: Create: height[%d] id[%s] trs[%d] deferred[%d] at %s", blk.Height, blk.ID, len(included), len(deferred), e.genesis.EpochTime.Add(time.Duration(blk.Timestamp)*time.Second).Format(time.RFC3339))

	return blk, deferred, nil
}

// ObjectNormalize validates the block against its schema and normalizes
// every transaction it carries. All violations are reported together.
func (e *Engine) ObjectNormalize(blk Block) (Block, error) {
	var msgs []string
	if err := e.validator.Check(blk); err != nil {
		msgs = append(msgs, fault.Messages(err)...)
	}

	seen := make(map[string]bool, len(blk.Transactions))
	for _, trs := range blk.Transactions {
		if trs == nil {
			msgs = append(msgs, "transactions: missing transaction")
			continue
		}

		if seen[trs.ID] {
			msgs = append(msgs, "transactions: duplicate transaction "+trs.ID)
		}
		seen[trs.ID] = true

		if err := e.trs.ObjectNormalize(trs); err != nil {
			msgs = append(msgs, fault.Messages(err)...)
		}
	}

	if len(msgs) > 0 {
		return Block{}, fault.Validation(msgs...)
	}

	return blk, nil
}

// addTotals adds the amount and fee of the transaction to the block totals.
func addTotals(totalAmount uint64, totalFee uint64, trs *transaction.Transaction) (uint64, uint64, error) {
	totalAmount, o1 := math.SafeAdd(totalAmount, trs.Amount)
	totalFee, o2 := math.SafeAdd(totalFee, trs.Fee)
	if o1 || o2 {
		return 0, 0, fault.Verification("block totals overflow")
	}

	return totalAmount, totalFee, nil
}
