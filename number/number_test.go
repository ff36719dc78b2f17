// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package number

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var maxNumber = FromWords([4]uint64{math.MaxUint64, math.MaxUint64, math.MaxUint64, math.MaxUint64})

func TestArithmetic(t *testing.T) {
	a := FromNatural(6)
	b := FromNatural(4)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, FromNatural(10), sum)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, FromNatural(2), diff)

	prod, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, FromNatural(24), prod)

	quo, err := a.Div(b)
	require.NoError(t, err)
	assert.Equal(t, "1.5", quo.String())
}

func TestCheckedFailures(t *testing.T) {
	_, err := maxNumber.Add(FromWords([4]uint64{1}))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = FromNatural(1).Sub(FromNatural(2))
	assert.ErrorIs(t, err, ErrUnderflow)

	_, err = maxNumber.Mul(FromNatural(2))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = FromNatural(1).Div(Zero())
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = FromRatio(1, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = maxNumber.Ceil()
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = maxNumber.FloorUint64()
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestRatio(t *testing.T) {
	tests := []struct {
		num, den uint64
		want     string
	}{
		{50, 100, "0.5"},
		{90, 360, "0.25"},
		{1, 3, "0.333333333333"},
		{2, 3, "0.666666666666"},
		{0, 7, "0"},
		{21600, 86400, "0.25"},
	}
	for _, tt := range tests {
		got, err := FromRatio(tt.num, tt.den)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String(), "%d/%d", tt.num, tt.den)
	}
}

func TestMulDivRoundTowardZero(t *testing.T) {
	third, err := FromRatio(1, 3)
	require.NoError(t, err)

	got, err := third.Mul(FromNatural(3))
	require.NoError(t, err)
	assert.Equal(t, "0.999999999999", got.String())

	got, err = FromNatural(2).Div(FromNatural(3))
	require.NoError(t, err)
	assert.Equal(t, "0.666666666666", got.String())
}

func TestFloorCeil(t *testing.T) {
	n := MustParse("89.999999999999")
	assert.Equal(t, FromNatural(89), n.Floor())

	c, err := n.Ceil()
	require.NoError(t, err)
	assert.Equal(t, FromNatural(90), c)

	c, err = FromNatural(5).Ceil()
	require.NoError(t, err)
	assert.Equal(t, FromNatural(5), c)

	v, err := n.FloorUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(89), v)

	v, err = FromNatural(math.MaxUint64).FloorUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)
}

func TestBps(t *testing.T) {
	assert.Equal(t, "0.5", FromBps(5000).String())
	assert.Equal(t, "0.0001", FromBps(1).String())
	assert.Equal(t, "6.5535", FromBps(math.MaxUint16).String())
}

func TestOrdering(t *testing.T) {
	a, b := FromNatural(1), FromNatural(2)
	assert.True(t, a.Lt(b))
	assert.True(t, a.Lte(a))
	assert.True(t, b.Gt(a))
	assert.True(t, b.Gte(b))
	assert.True(t, a.Eq(FromNatural(1)))
	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, a, b.Min(a))
	assert.True(t, Zero().IsZero())
	assert.False(t, One().IsZero())
}

func TestEncoding(t *testing.T) {
	n := FromNatural(1_000_000_000)
	w := n.Words()
	// 10^21 split over two words
	assert.Equal(t, [4]uint64{3875820019684212736, 54, 0, 0}, w)

	b := n.Bytes32()
	assert.Equal(t, n, FromBytes32(b))
	assert.Equal(t, maxNumber, FromBytes32(maxNumber.Bytes32()))
}

func TestParse(t *testing.T) {
	n, err := Parse("0.1234567890129")
	require.NoError(t, err)
	assert.Equal(t, "0.123456789012", n.String())

	_, err = Parse("-1")
	assert.ErrorIs(t, err, ErrUnderflow)

	_, err = Parse("abc")
	assert.ErrorIs(t, err, ErrInvalid)

	var u Number
	require.NoError(t, u.UnmarshalText([]byte("42.5")))
	text, err := u.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "42.5", string(text))
}
