// Package badger implements the ability to read and write records to disk
// using a badger key/value database. Rows are kept as JSON under the key
// "<table>/<id>".
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
	"github.com/dgraph-io/badger/v4"
)

// Badger represents the implementation for storing records in a badger
// database. This implements the storage.Store interface.
type Badger struct {
	db *badger.DB
}

// New opens the badger database at the specified path. An empty path opens
// an in-memory database.
func New(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)

	switch path {
	case "":
		opts = opts.WithInMemory(true)
	default:
		if err := os.MkdirAll(path, 0700); err != nil {
			return nil, fmt.Errorf("create %q: %w", path, err)
		}
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &Badger{db: db}, nil
}

// Close releases the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// Save stores the specified records in a single transaction.
func (b *Badger) Save(ctx context.Context, records ...storage.Record) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, record := range records {
			data, err := json.Marshal(record.Row())
			if err != nil {
				return fmt.Errorf("marshal %s/%s: %w", record.Table, record.ID(), err)
			}

			if err := txn.Set(key(record.Table, record.ID()), data); err != nil {
				return fmt.Errorf("set %s/%s: %w", record.Table, record.ID(), err)
			}
		}

		return nil
	})
}

// Get returns the row stored under the specified primary key.
func (b *Badger) Get(ctx context.Context, table string, id string) (storage.Row, error) {
	var row storage.Row

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(table, id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fault.NotFound(table, id)
			}
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &row)
		})
	})
	if err != nil {
		return nil, err
	}

	return row, nil
}

// List returns every row of the table ordered by primary key.
func (b *Badger) List(ctx context.Context, table string) ([]storage.Row, error) {
	var rows []storage.Row

	err := b.db.View(func(txn *badger.Txn) error {
		prefix := []byte(table + "/")

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var row storage.Row
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &row)
			})
			if err != nil {
				return fmt.Errorf("read %s: %w", strings.TrimPrefix(string(it.Item().Key()), table+"/"), err)
			}

			rows = append(rows, row)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Delete removes the rows with the specified primary keys. Missing keys
// are ignored.
func (b *Badger) Delete(ctx context.Context, table string, ids ...string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			if err := txn.Delete(key(table, id)); err != nil {
				return fmt.Errorf("delete %s/%s: %w", table, id, err)
			}
		}

		return nil
	})
}

func key(table string, id string) []byte {
	return []byte(table + "/" + id)
}
