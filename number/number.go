// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package number implements an unsigned 256-bit fixed-point decimal with
// twelve fractional digits. Every operation is checked; an out-of-range
// result is reported as an error and never wraps.
package number

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// Decimals is the count of fractional decimal digits.
	Decimals = 12
	// Size is the encoded width of a Number in bytes.
	Size = 32
)

var (
	ErrOverflow       = errors.New("number: overflow")
	ErrUnderflow      = errors.New("number: underflow")
	ErrDivisionByZero = errors.New("number: division by zero")
	ErrInvalid        = errors.New("number: invalid literal")
)

var scale = uint256.NewInt(1_000_000_000_000)

// Number is a raw 256-bit unsigned integer read as raw / 10^12.
// The zero value is 0 and ready to use.
type Number struct {
	raw uint256.Int
}

// Zero returns 0.
func Zero() Number { return Number{} }

// One returns 1.
func One() Number {
	var n Number
	n.raw.Set(scale)
	return n
}

// FromNatural returns v as a Number. It never overflows since v < 2^64.
func FromNatural(v uint64) Number {
	var n Number
	n.raw.Mul(uint256.NewInt(v), scale)
	return n
}

// FromRatio returns num/den, rounded toward zero.
func FromRatio(num, den uint64) (Number, error) {
	if den == 0 {
		return Number{}, ErrDivisionByZero
	}
	var n Number
	n.raw.Mul(uint256.NewInt(num), scale)
	n.raw.Div(&n.raw, uint256.NewInt(den))
	return n, nil
}

// FromBps returns bps/10000.
func FromBps(bps uint16) Number {
	n, _ := FromRatio(uint64(bps), 10_000)
	return n
}

// FromWords builds a Number from its raw little-endian 64-bit words.
func FromWords(w [4]uint64) Number {
	return Number{raw: uint256.Int(w)}
}

// FromBytes32 decodes the little-endian raw representation.
func FromBytes32(b [Size]byte) Number {
	var w [4]uint64
	for i := range w {
		w[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
	return FromWords(w)
}

// Words returns the raw little-endian 64-bit words.
func (n Number) Words() [4]uint64 { return [4]uint64(n.raw) }

// Bytes32 encodes the raw value as 32 little-endian bytes.
func (n Number) Bytes32() (b [Size]byte) {
	for i, w := range n.raw {
		binary.LittleEndian.PutUint64(b[i*8:], w)
	}
	return
}

func (n Number) Add(o Number) (Number, error) {
	var z Number
	if _, overflow := z.raw.AddOverflow(&n.raw, &o.raw); overflow {
		return Number{}, ErrOverflow
	}
	return z, nil
}

func (n Number) Sub(o Number) (Number, error) {
	var z Number
	if _, underflow := z.raw.SubOverflow(&n.raw, &o.raw); underflow {
		return Number{}, ErrUnderflow
	}
	return z, nil
}

// Mul returns n*o rounded toward zero.
func (n Number) Mul(o Number) (Number, error) {
	var z Number
	if _, overflow := z.raw.MulDivOverflow(&n.raw, &o.raw, scale); overflow {
		return Number{}, ErrOverflow
	}
	return z, nil
}

// Div returns n/o rounded toward zero.
func (n Number) Div(o Number) (Number, error) {
	if o.raw.IsZero() {
		return Number{}, ErrDivisionByZero
	}
	var z Number
	if _, overflow := z.raw.MulDivOverflow(&n.raw, scale, &o.raw); overflow {
		return Number{}, ErrOverflow
	}
	return z, nil
}

// Floor drops the fractional part.
func (n Number) Floor() Number {
	var rem, z Number
	rem.raw.Mod(&n.raw, scale)
	z.raw.Sub(&n.raw, &rem.raw)
	return z
}

// Ceil rounds up to the next whole value when a fractional part exists.
func (n Number) Ceil() (Number, error) {
	var rem uint256.Int
	rem.Mod(&n.raw, scale)
	if rem.IsZero() {
		return n, nil
	}
	return n.Floor().Add(One())
}

// FloorUint64 returns the whole part as a uint64.
func (n Number) FloorUint64() (uint64, error) {
	var whole uint256.Int
	whole.Div(&n.raw, scale)
	if !whole.IsUint64() {
		return 0, ErrOverflow
	}
	return whole.Uint64(), nil
}

func (n Number) Cmp(o Number) int  { return n.raw.Cmp(&o.raw) }
func (n Number) Eq(o Number) bool  { return n.raw.Eq(&o.raw) }
func (n Number) Lt(o Number) bool  { return n.raw.Lt(&o.raw) }
func (n Number) Lte(o Number) bool { return !n.raw.Gt(&o.raw) }
func (n Number) Gt(o Number) bool  { return n.raw.Gt(&o.raw) }
func (n Number) Gte(o Number) bool { return !n.raw.Lt(&o.raw) }
func (n Number) IsZero() bool      { return n.raw.IsZero() }

// Min returns the smaller of n and o.
func (n Number) Min(o Number) Number {
	if n.Lte(o) {
		return n
	}
	return o
}

// Decimal converts n to an arbitrary precision decimal.
func (n Number) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(n.raw.ToBig(), -Decimals)
}

// String renders n as a plain decimal literal.
func (n Number) String() string {
	return n.Decimal().String()
}

// Parse reads a decimal literal. Digits past the twelfth fractional place are dropped.
func Parse(s string) (Number, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, errors.Wrap(ErrInvalid, err.Error())
	}
	if d.IsNegative() {
		return Number{}, ErrUnderflow
	}
	raw, overflow := uint256.FromBig(d.Shift(Decimals).Truncate(0).BigInt())
	if overflow {
		return Number{}, ErrOverflow
	}
	return Number{raw: *raw}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Number {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n Number) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Number) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}
