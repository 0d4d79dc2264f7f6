package storage

import (
	"strconv"
	"strings"

	"github.com/ddknet/node/foundation/blockchain/fault"
)

// RowReader reads typed values out of a row. The first malformed column is
// kept as an EncodingError and every later read returns the zero value.
// Missing or empty columns read as the zero value.
type RowReader struct {
	Row Row
	err error
}

// NewRowReader constructs a reader for the row.
func NewRowReader(row Row) *RowReader {
	return &RowReader{Row: row}
}

// Err returns the first parse failure.
func (r *RowReader) Err() error {
	return r.err
}

// String returns the column as is.
func (r *RowReader) String(column string) string {
	return r.Row[column]
}

// List returns the comma separated values of the column.
func (r *RowReader) List(column string) []string {
	v := r.Row[column]
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// Uint64 parses the column as an unsigned 64 bit value.
func (r *RowReader) Uint64(column string) uint64 {
	return r.parseUint(column, 64)
}

// Uint32 parses the column as an unsigned 32 bit value.
func (r *RowReader) Uint32(column string) uint32 {
	return uint32(r.parseUint(column, 32))
}

// Uint8 parses the column as an unsigned 8 bit value.
func (r *RowReader) Uint8(column string) uint8 {
	return uint8(r.parseUint(column, 8))
}

// Int32 parses the column as a signed 32 bit value.
func (r *RowReader) Int32(column string) int32 {
	v, ok := r.value(column)
	if !ok {
		return 0
	}

	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		r.err = fault.Encoding(column, err)
		return 0
	}
	return int32(n)
}

// Bool parses the column as a boolean. Both true/false and 1/0 are accepted.
func (r *RowReader) Bool(column string) bool {
	v, ok := r.value(column)
	if !ok {
		return false
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		r.err = fault.Encoding(column, err)
		return false
	}
	return b
}

func (r *RowReader) parseUint(column string, bitSize int) uint64 {
	v, ok := r.value(column)
	if !ok {
		return 0
	}

	n, err := strconv.ParseUint(v, 10, bitSize)
	if err != nil {
		r.err = fault.Encoding(column, err)
		return 0
	}
	return n
}

func (r *RowReader) value(column string) (string, bool) {
	if r.err != nil {
		return "", false
	}

	v, exists := r.Row[column]
	if !exists || v == "" {
		return "", false
	}
	return v, true
}
