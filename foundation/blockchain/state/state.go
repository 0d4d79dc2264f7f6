// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/block"
	"github.com/ddknet/node/foundation/blockchain/genesis"
	"github.com/ddknet/node/foundation/blockchain/mempool"
	"github.com/ddknet/node/foundation/blockchain/metrics"
	"github.com/ddknet/node/foundation/blockchain/schema"
	"github.com/ddknet/node/foundation/blockchain/sequence"
	"github.com/ddknet/node/foundation/blockchain/storage"
	"github.com/ddknet/node/foundation/blockchain/transaction"
)

// Set of errors the node core reports for expected conditions.
var (
	ErrNoTransactions  = errors.New("no transactions in mempool")
	ErrForgeInProgress = errors.New("a block is already being forged")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for forging and transaction sharing.
type Worker interface {
	Shutdown()
	SignalStartForging()
	SignalShareTx(id string)
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Genesis        genesis.Genesis
	Storage        storage.Store
	SelectStrategy string
	Now            func() time.Time
	EvHandler      EventHandler
}

// State manages the blockchain database.
type State struct {
	genesis     genesis.Genesis
	evHandler   EventHandler
	latestBlock block.Block
	mu          sync.RWMutex
	forging     sync.Mutex

	ledger   *accounts.Ledger
	trs      *transaction.Engine
	blocks   *block.Engine
	mempool  *mempool.Mempool
	storage  storage.Store
	sequence *sequence.Sequence
	metrics  *metrics.Ledger

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {
	if cfg.Storage == nil {
		return nil, errors.New("state requires a storage")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	validator, err := schema.New()
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	// Create a new ledger to manage accounts who transact on the
	// blockchain, starting from the genesis information.
	ledger := accounts.New(cfg.Genesis)

	trs, err := transaction.New(transaction.Config{
		Genesis:   cfg.Genesis,
		Ledger:    ledger,
		Validator: validator,
		Now:       cfg.Now,
		EvHandler: transaction.EventHandler(ev),
	})
	if err != nil {
		return nil, fmt.Errorf("transaction engine: %w", err)
	}

	blocks, err := block.New(block.Config{
		Genesis:      cfg.Genesis,
		Transactions: trs,
		Validator:    validator,
		EvHandler:    block.EventHandler(ev),
	})
	if err != nil {
		return nil, fmt.Errorf("block engine: %w", err)
	}

	// Construct a mempool with the specified select strategy.
	mempool, err := mempool.NewWithStrategy(cfg.SelectStrategy)
	if err != nil {
		return nil, err
	}

	state := State{
		genesis:   cfg.Genesis,
		evHandler: ev,

		ledger:   ledger,
		trs:      trs,
		blocks:   blocks,
		mempool:  mempool,
		storage:  cfg.Storage,
		sequence: sequence.New(sequence.EventHandler(ev)),
		metrics:  metrics.New(),
	}

	// Load the persisted accounts and the last block so the node picks
	// up where it stopped.
	if err := state.load(context.Background()); err != nil {
		state.sequence.Shutdown()
		return nil, err
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}
	s.sequence.Shutdown()

	// Make sure the database is properly closed.
	return s.storage.Close()
}

// Transactions returns the transaction engine of the node.
func (s *State) Transactions() *transaction.Engine {
	return s.trs
}

// Blocks returns the block engine of the node.
func (s *State) Blocks() *block.Engine {
	return s.blocks
}

// =============================================================================

// load restores the ledger from the mem_accounts table and finds the
// block with the greatest height. The mempool starts empty, so every
// unconfirmed field is settled to its confirmed value.
func (s *State) load(ctx context.Context) error {
	rows, err := s.storage.List(ctx, storage.TableAccounts)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	accts := make([]accounts.Account, 0, len(rows))
	for _, row := range rows {
		acct, err := accounts.FromRow(row)
		if err != nil {
			return fmt.Errorf("read account: %w", err)
		}
		accts = append(accts, acct.Settle())
	}
	s.ledger.Restore(accts)

	if err := s.loadRegistry(ctx); err != nil {
		return err
	}

	rows, err = s.storage.List(ctx, storage.TableBlocks)
	if err != nil {
		return fmt.Errorf("list blocks: %w", err)
	}

	var latest *block.Block
	for _, row := range rows {
		blk, err := s.blocks.DBRead(row)
		if err != nil {
			return fmt.Errorf("read block: %w", err)
		}
		if blk != nil && (latest == nil || blk.Height > latest.Height) {
			latest = blk
		}
	}

	if latest == nil {
		s.evHandler("state: load: accounts[%d]: empty chain", len(accts))
		return nil
	}

	blk, err := s.loadBlock(ctx, latest.ID)
	if err != nil {
		return err
	}
	s.latestBlock = blk
	s.metrics.SetHeight(blk.Height)

	s.evHandler("state: load: accounts[%d]: height[%d] id[%s]", len(accts), blk.Height, blk.ID)

	return nil
}
