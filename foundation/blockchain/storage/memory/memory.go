// Package memory implements the ability to read and write records to memory
// using maps.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
)

// Memory represents the implementation for storing records in memory. This
// implements the storage.Store interface.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]map[string]storage.Row
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{
		tables: make(map[string]map[string]storage.Row),
	}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Save stores the specified records. A record with an existing primary key
// replaces the stored row.
func (m *Memory) Save(ctx context.Context, records ...storage.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, record := range records {
		table, exists := m.tables[record.Table]
		if !exists {
			table = make(map[string]storage.Row)
			m.tables[record.Table] = table
		}
		table[record.ID()] = record.Row()
	}

	return nil
}

// Get returns the row stored under the specified primary key.
func (m *Memory) Get(ctx context.Context, table string, id string) (storage.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, exists := m.tables[table][id]
	if !exists {
		return nil, fault.NotFound(table, id)
	}

	return row.Merge(nil), nil
}

// List returns every row of the table ordered by primary key.
func (m *Memory) List(ctx context.Context, table string) ([]storage.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.tables[table]))
	for id := range m.tables[table] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]storage.Row, len(ids))
	for i, id := range ids {
		rows[i] = m.tables[table][id].Merge(nil)
	}

	return rows, nil
}

// Delete removes the rows with the specified primary keys. Missing keys
// are ignored.
func (m *Memory) Delete(ctx context.Context, table string, ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		delete(m.tables[table], id)
	}

	return nil
}

// Reset will clear out all the tables.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables = make(map[string]map[string]storage.Row)
}
