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

// PersonalPositionSize is the encoded size of a PersonalPosition.
const PersonalPositionSize = ident.Size + 8 + ident.Size + number.Size*2

// PersonalPosition is one owner's LP deposit in a pool's escrow.
type PersonalPosition struct {
	Owner           ident.ID      `json:"owner"`
	Amount          uint64        `json:"amount"`
	TimeTracker     ident.ID      `json:"timeTracker"`
	LastSeenIndex   number.Number `json:"lastSeenIndex"`
	EarnedTimeUnits number.Number `json:"earnedTimeUnits"` // LP × seconds, unrounded
}

func NewPersonalPosition(owner, tracker ident.ID, index number.Number) *PersonalPosition {
	return &PersonalPosition{
		Owner:         owner,
		TimeTracker:   tracker,
		LastSeenIndex: index,
	}
}

// Update credits the time units earned since the last seen tracker index.
func (p *PersonalPosition) Update(index number.Number) error {
	lastSeen := p.LastSeenIndex
	earned, err := accrual.Catchup(&lastSeen, index, p.Amount)
	if err != nil {
		return errors.Wrap(err, "personal position")
	}
	total, err := p.EarnedTimeUnits.Add(earned)
	if err != nil {
		return errors.Wrap(err, "personal position")
	}
	p.LastSeenIndex = lastSeen
	p.EarnedTimeUnits = total
	return nil
}

// IncAmount catches up to index, then grows the position by amount.
func (p *PersonalPosition) IncAmount(index number.Number, amount uint64) error {
	if err := p.Update(index); err != nil {
		return err
	}
	next, err := accrual.Add64(p.Amount, amount)
	if err != nil {
		return errors.Wrap(err, "increase position")
	}
	p.Amount = next
	return nil
}

// DecAmount catches up to index, then shrinks the position by amount.
func (p *PersonalPosition) DecAmount(index number.Number, amount uint64) error {
	if err := p.Update(index); err != nil {
		return err
	}
	next, err := accrual.Sub64(p.Amount, amount)
	if err != nil {
		return errors.Wrap(err, "decrease position")
	}
	p.Amount = next
	return nil
}

func (p *PersonalPosition) MarshalBinary() ([]byte, error) {
	return layout.NewWriter(PersonalPositionSize).
		ID(p.Owner).
		Uint64(p.Amount).
		ID(p.TimeTracker).
		Number(p.LastSeenIndex).
		Number(p.EarnedTimeUnits).
		Bytes(), nil
}

func (p *PersonalPosition) UnmarshalBinary(data []byte) error {
	r, err := layout.NewReader(data, PersonalPositionSize)
	if err != nil {
		return errors.Wrap(err, "personal position")
	}
	p.Owner = r.ID()
	p.Amount = r.Uint64()
	p.TimeTracker = r.ID()
	p.LastSeenIndex = r.Number()
	p.EarnedTimeUnits = r.Number()
	return nil
}
