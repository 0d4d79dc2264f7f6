// Package codec provides the fixed layout little-endian writer used to
// produce the canonical bytes of blocks and transactions. The same bytes are
// used for hashing and for signing, so every node must produce them bit for
// bit the same way.
package codec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/signature"
)

// Set of field widths used by the canonical layouts.
const (
	Uint8Length     = 1
	Int32Length     = 4
	Uint64Length    = 8
	HexLength       = 32 // raw bytes of a 64 character hex value
	DoubleHexLength = 64 // a 64 character hex value kept as text
	SignatureLength = 64
)

// Writer writes values into a buffer allocated with the exact size of the
// layout being produced. The first failure is kept and reported by Finish.
type Writer struct {
	buf []byte
	off int
	err error
}

// NewWriter constructs a writer for a layout of the specified size.
func NewWriter(size int) *Writer {
	return &Writer{
		buf: make([]byte, size),
	}
}

// Uint8 writes a single byte.
func (w *Writer) Uint8(field string, v uint8) {
	if !w.reserve(field, Uint8Length) {
		return
	}

	w.buf[w.off] = v
	w.off += Uint8Length
}

// Int32 writes a signed 32 bit value in little-endian order.
func (w *Writer) Int32(field string, v int32) {
	if !w.reserve(field, Int32Length) {
		return
	}

	binary.LittleEndian.PutUint32(w.buf[w.off:], uint32(v))
	w.off += Int32Length
}

// Uint64 writes an unsigned 64 bit value in little-endian order.
func (w *Writer) Uint64(field string, v uint64) {
	if !w.reserve(field, Uint64Length) {
		return
	}

	binary.LittleEndian.PutUint64(w.buf[w.off:], v)
	w.off += Uint64Length
}

// Bytes writes the raw bytes as is.
func (w *Writer) Bytes(field string, b []byte) {
	if !w.reserve(field, len(b)) {
		return
	}

	copy(w.buf[w.off:], b)
	w.off += len(b)
}

// Hex decodes the hex value and writes exactly width raw bytes.
func (w *Writer) Hex(field string, value string, width int) {
	if w.err != nil {
		return
	}

	b, err := hex.DecodeString(value)
	if err != nil {
		w.err = fault.Encoding(field, err)
		return
	}

	if len(b) != width {
		w.err = fault.Encoding(field, fmt.Errorf("got %d bytes, exp %d", len(b), width))
		return
	}

	w.Bytes(field, b)
}

// Text writes the value as text into a slot of the specified width. Unused
// bytes of the slot stay zero, so an empty value yields a zero slot.
func (w *Writer) Text(field string, value string, width int) {
	if w.err != nil {
		return
	}

	if len(value) > width {
		w.err = fault.Encoding(field, fmt.Errorf("got %d bytes, max %d", len(value), width))
		return
	}

	if !w.reserve(field, width) {
		return
	}

	copy(w.buf[w.off:], value)
	w.off += width
}

// Address writes the numeric part of the address as an unsigned 64 bit
// value. An empty address writes zero.
func (w *Writer) Address(field string, address string) {
	if w.err != nil {
		return
	}

	n, err := addressNumber(address)
	if err != nil {
		w.err = fault.Encoding(field, err)
		return
	}

	w.Uint64(field, n)
}

// Finish returns the written bytes. The layout must be completely filled.
func (w *Writer) Finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}

	if w.off != len(w.buf) {
		return nil, fault.Encoding("layout", fmt.Errorf("wrote %d bytes, allocated %d", w.off, len(w.buf)))
	}

	return w.buf, nil
}

// reserve checks the buffer can hold n more bytes.
func (w *Writer) reserve(field string, n int) bool {
	if w.err != nil {
		return false
	}

	if w.off+n > len(w.buf) {
		w.err = fault.Encoding(field, fmt.Errorf("overflows layout by %d bytes", w.off+n-len(w.buf)))
		return false
	}

	return true
}

// =============================================================================

// PutString appends a length prefixed UTF-8 string. The length is a single
// byte so strings are limited to 255 bytes.
func PutString(dst []byte, field string, s string) ([]byte, error) {
	if len(s) > 255 {
		return nil, fault.Encoding(field, fmt.Errorf("got %d bytes, max 255", len(s)))
	}

	dst = append(dst, byte(len(s)))
	return append(dst, s...), nil
}

// PutUint64 appends an unsigned 64 bit value in little-endian order.
func PutUint64(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}

// PutUint32 appends an unsigned 32 bit value in little-endian order.
func PutUint32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

// PutInt32 appends a signed 32 bit value in little-endian order.
func PutInt32(dst []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(v))
}

// PutAddress appends the numeric part of the address as an unsigned 64 bit
// value. An empty address appends zero.
func PutAddress(dst []byte, field string, address string) ([]byte, error) {
	n, err := addressNumber(address)
	if err != nil {
		return nil, fault.Encoding(field, err)
	}

	return binary.LittleEndian.AppendUint64(dst, n), nil
}

// PutHex appends the raw bytes of the hex value, which must hold exactly
// width bytes.
func PutHex(dst []byte, field string, value string, width int) ([]byte, error) {
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, fault.Encoding(field, err)
	}

	if len(b) != width {
		return nil, fault.Encoding(field, fmt.Errorf("got %d bytes, exp %d", len(b), width))
	}

	return append(dst, b...), nil
}

func addressNumber(address string) (uint64, error) {
	if address == "" {
		return 0, nil
	}

	return signature.AddressNumber(address)
}
