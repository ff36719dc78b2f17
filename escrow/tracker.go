// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/accrual"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/layout"
	"github.com/rayforge/accrual/number"
)

// TimeTrackerSize is the encoded size of a TimeTracker.
const TimeTrackerSize = ident.Size*2 + number.Size + 8 + 8

// TimeTracker accounts LP held over time for one pool. Its index is the
// cumulative seconds credited per deposited LP token.
type TimeTracker struct {
	PoolID           ident.ID      `json:"poolId"`
	Escrow           ident.ID      `json:"escrow"` // account holding the deposited LP
	Index            number.Number `json:"index"`
	TotalLPDeposited uint64        `json:"totalLpDeposited"`
	LastSeenTS       uint64        `json:"lastSeenTs"`
}

func NewTimeTracker(poolID ident.ID, now uint64) *TimeTracker {
	return &TimeTracker{
		PoolID:     poolID,
		Escrow:     EscrowID(poolID),
		LastSeenTS: now,
	}
}

// Update advances the index to now over the current deposited total.
func (t *TimeTracker) Update(now uint64) error {
	return accrual.Advance(&t.LastSeenTS, now, accrual.Step{
		Index: &t.Index,
		Rate:  accrual.PerShare(t.TotalLPDeposited, accrual.Elapsed),
	})
}

// DepositLP advances the index, then grows the deposited total by amount.
func (t *TimeTracker) DepositLP(now, amount uint64) error {
	if err := t.Update(now); err != nil {
		return err
	}
	total, err := accrual.Add64(t.TotalLPDeposited, amount)
	if err != nil {
		return errors.Wrap(err, "deposit lp")
	}
	t.TotalLPDeposited = total
	return nil
}

// WithdrawLP advances the index, then shrinks the deposited total by amount.
func (t *TimeTracker) WithdrawLP(now, amount uint64) error {
	if err := t.Update(now); err != nil {
		return err
	}
	total, err := accrual.Sub64(t.TotalLPDeposited, amount)
	if err != nil {
		return errors.Wrap(err, "withdraw lp")
	}
	t.TotalLPDeposited = total
	return nil
}

func (t *TimeTracker) MarshalBinary() ([]byte, error) {
	return layout.NewWriter(TimeTrackerSize).
		ID(t.PoolID).
		ID(t.Escrow).
		Number(t.Index).
		Uint64(t.TotalLPDeposited).
		Uint64(t.LastSeenTS).
		Bytes(), nil
}

func (t *TimeTracker) UnmarshalBinary(data []byte) error {
	r, err := layout.NewReader(data, TimeTrackerSize)
	if err != nil {
		return errors.Wrap(err, "time tracker")
	}
	t.PoolID = r.ID()
	t.Escrow = r.ID()
	t.Index = r.Number()
	t.TotalLPDeposited = r.Uint64()
	t.LastSeenTS = r.Uint64()
	return nil
}
