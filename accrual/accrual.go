// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual holds the index-based accounting shared by every account
// kind: a global step advancing one or more per-share indices through time,
// and a personal catch-up step crediting a holder with their share of the
// index growth since they last looked.
package accrual

import (
	gmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/number"
)

const (
	SecondsPerDay  = 86_400
	SecondsPerYear = 365 * SecondsPerDay
)

var (
	ErrTimestampRegression = errors.New("cannot update with an older timestamp")
	ErrIndexRegression     = errors.New("index moved backwards")
	ErrOverflow            = errors.New("integer overflow")
	ErrUnderflow           = errors.New("integer underflow")
)

// Rate yields the per-share growth of an index over elapsed seconds.
type Rate func(elapsed uint64) (number.Number, error)

// Step binds an index to the rate that grows it.
type Step struct {
	Index *number.Number
	Rate  Rate
}

// Advance grows every step's index over the interval [*clock, now] and moves
// the clock to now. All indices sharing a clock must be advanced together.
// On error neither the clock nor any index is changed.
func Advance(clock *uint64, now uint64, steps ...Step) error {
	if now < *clock {
		return errors.Wrapf(ErrTimestampRegression, "now %d, last %d", now, *clock)
	}
	elapsed := now - *clock
	if elapsed == 0 {
		return nil
	}

	next := make([]number.Number, len(steps))
	for i, s := range steps {
		growth, err := s.Rate(elapsed)
		if err != nil {
			return err
		}
		if next[i], err = s.Index.Add(growth); err != nil {
			return errors.Wrap(err, "advance index")
		}
	}
	for i, s := range steps {
		*s.Index = next[i]
	}
	*clock = now
	return nil
}

// PerShare spreads the amount produced by emit over total shares. With no
// shares outstanding nothing grows.
func PerShare(total uint64, emit Rate) Rate {
	return func(elapsed uint64) (number.Number, error) {
		if total == 0 {
			return number.Zero(), nil
		}
		amount, err := emit(elapsed)
		if err != nil {
			return number.Number{}, err
		}
		return amount.Div(number.FromNatural(total))
	}
}

// Elapsed emits one unit per second.
func Elapsed(elapsed uint64) (number.Number, error) {
	return number.FromNatural(elapsed), nil
}

// Daily emits perDay units per day, pro rata to the second.
func Daily(perDay uint64) Rate {
	return func(elapsed uint64) (number.Number, error) {
		days, err := number.FromRatio(elapsed, SecondsPerDay)
		if err != nil {
			return number.Number{}, err
		}
		return number.FromNatural(perDay).Mul(days)
	}
}

// Catchup credits shares with the index growth since *lastSeen and moves
// *lastSeen to current. When the index has not moved nothing happens.
func Catchup(lastSeen *number.Number, current number.Number, shares uint64) (number.Number, error) {
	if current.Lt(*lastSeen) {
		return number.Number{}, errors.Wrapf(ErrIndexRegression, "current %v, last seen %v", current, *lastSeen)
	}
	delta, err := current.Sub(*lastSeen)
	if err != nil {
		return number.Number{}, err
	}
	if delta.IsZero() {
		return number.Zero(), nil
	}
	earned, err := number.FromNatural(shares).Mul(delta)
	if err != nil {
		return number.Number{}, errors.Wrap(err, "catch up")
	}
	*lastSeen = current
	return earned, nil
}

// CatchupWhole is Catchup with the credit rounded down to whole units.
func CatchupWhole(lastSeen *number.Number, current number.Number, shares uint64) (uint64, error) {
	prev := *lastSeen
	earned, err := Catchup(lastSeen, current, shares)
	if err != nil {
		return 0, err
	}
	whole, err := earned.FloorUint64()
	if err != nil {
		*lastSeen = prev
		return 0, errors.Wrap(err, "catch up")
	}
	return whole, nil
}

// Add64 is checked uint64 addition.
func Add64(a, b uint64) (uint64, error) {
	sum, overflow := gmath.SafeAdd(a, b)
	if overflow {
		return 0, errors.Wrapf(ErrOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

// Sub64 is checked uint64 subtraction.
func Sub64(a, b uint64) (uint64, error) {
	diff, underflow := gmath.SafeSub(a, b)
	if underflow {
		return 0, errors.Wrapf(ErrUnderflow, "%d - %d", a, b)
	}
	return diff, nil
}
