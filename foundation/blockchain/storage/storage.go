// Package storage defines the row based persistence contract used by the
// block and transaction engines. Engines produce records, stores keep them
// and hand them back as rows with prefixed column names.
package storage

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Set of tables known to the node.
const (
	TableBlocks          = "blocks"
	TableTransactions    = "trs"
	TableDelegates       = "delegates"
	TableSignatures      = "signatures"
	TableVotes           = "votes"
	TableStakeOrders     = "stake_orders"
	TableMultisignatures = "multisignatures"
	TableDapps           = "dapps"
	TableInTransfers     = "intransfer"
	TableOutTransfers    = "outtransfer"
	TableReferrals       = "referals"
	TableAccounts        = "mem_accounts"
)

// prefixes maps a table to the prefix its columns carry in a row.
var prefixes = map[string]string{
	TableBlocks:          "b_",
	TableTransactions:    "t_",
	TableDelegates:       "d_",
	TableSignatures:      "s_",
	TableVotes:           "v_",
	TableStakeOrders:     "so_",
	TableMultisignatures: "m_",
	TableDapps:           "dapp_",
	TableInTransfers:     "in_",
	TableOutTransfers:    "ot_",
	TableReferrals:       "r_",
	TableAccounts:        "",
}

// Prefix returns the column prefix for the specified table.
func Prefix(table string) string {
	return prefixes[table]
}

// =============================================================================

// Record represents the values to be written to a table. The first field
// is the primary key of the record.
type Record struct {
	Table  string
	Fields []string
	Values map[string]any
}

// ID returns the primary key value of the record.
func (r Record) ID() string {
	if len(r.Fields) == 0 {
		return ""
	}

	return format(r.Values[r.Fields[0]])
}

// Row converts the record into a row with the column prefix of its table.
// Nil values are left out of the row.
func (r Record) Row() Row {
	prefix := Prefix(r.Table)

	row := make(Row, len(r.Fields))
	for _, field := range r.Fields {
		v, exists := r.Values[field]
		if !exists || v == nil {
			continue
		}
		row[prefix+field] = format(v)
	}

	return row
}

// format renders a value the way a SQL driver hands it back as text.
func format(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	case []byte:
		return hex.EncodeToString(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case fmt.Stringer:
		return v.String()
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// =============================================================================

// Row represents a stored record as column name to text value.
type Row map[string]string

// Merge returns a new row holding the columns of both rows.
func (r Row) Merge(other Row) Row {
	row := make(Row, len(r)+len(other))
	for k, v := range r {
		row[k] = v
	}
	for k, v := range other {
		row[k] = v
	}

	return row
}

// SortRows orders the rows by the value of the specified column. Numeric
// columns are compared as numbers.
func SortRows(rows []Row, column string) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, aErr := strconv.ParseUint(rows[i][column], 10, 64)
		b, bErr := strconv.ParseUint(rows[j][column], 10, 64)
		if aErr == nil && bErr == nil {
			return a < b
		}
		return rows[i][column] < rows[j][column]
	})
}

// =============================================================================

// Store interface represents the behavior required to be implemented by any
// package providing support for persisting records.
type Store interface {
	Save(ctx context.Context, records ...Record) error
	Get(ctx context.Context, table string, id string) (Row, error)
	List(ctx context.Context, table string) ([]Row, error)
	Delete(ctx context.Context, table string, ids ...string) error
	Close() error
}
