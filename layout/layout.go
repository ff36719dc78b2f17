// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package layout encodes records as fixed-width little-endian fields in
// declaration order, with no padding and no type tag.
package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/number"
)

// Writer appends fields to a buffer of a known final size.
type Writer struct {
	buf []byte
}

func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

func (w *Writer) Uint16(v uint16) *Writer {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
	return w
}

func (w *Writer) Uint64(v uint64) *Writer {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	return w
}

func (w *Writer) ID(id ident.ID) *Writer {
	w.buf = append(w.buf, id[:]...)
	return w
}

func (w *Writer) Number(n number.Number) *Writer {
	b := n.Bytes32()
	w.buf = append(w.buf, b[:]...)
	return w
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reader consumes fields from an encoded record. Reads past the end yield
// zero values.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a reader over buf, which must be exactly size bytes.
func NewReader(buf []byte, size int) (*Reader, error) {
	if len(buf) != size {
		return nil, fmt.Errorf("layout: want %d bytes, got %d", size, len(buf))
	}
	return &Reader{buf: buf}, nil
}

func (r *Reader) next(n int) []byte {
	if r.off+n > len(r.buf) {
		r.off = len(r.buf)
		return make([]byte, n)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Uint16() uint16 {
	return binary.LittleEndian.Uint16(r.next(2))
}

func (r *Reader) Uint64() uint64 {
	return binary.LittleEndian.Uint64(r.next(8))
}

func (r *Reader) ID() (id ident.ID) {
	copy(id[:], r.next(ident.Size))
	return
}

func (r *Reader) Number() number.Number {
	var b [number.Size]byte
	copy(b[:], r.next(number.Size))
	return number.FromBytes32(b)
}
