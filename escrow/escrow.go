// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package escrow implements LP time accounting: a per-pool tracker whose
// index grows by elapsed seconds over total LP deposited, and personal
// positions earning time units in proportion to the LP they hold.
package escrow

import (
	"github.com/rayforge/accrual/ident"
)

// TimeTrackerID returns the address of the tracker for pool.
func TimeTrackerID(pool ident.ID) ident.ID {
	return ident.Derive("time-tracker", pool)
}

// EscrowID returns the address of the LP escrow account for pool.
func EscrowID(pool ident.ID) ident.ID {
	return ident.Derive("escrow", pool)
}

// PersonalPositionID returns the address of owner's position in tracker.
func PersonalPositionID(tracker, owner ident.ID) ident.ID {
	return ident.Derive("personal-position", tracker, owner)
}

// InitPersonalPosition advances the tracker and opens an empty position
// starting at its current index.
func InitPersonalPosition(t *TimeTracker, trackerID, owner ident.ID, now uint64) (*PersonalPosition, error) {
	if err := t.Update(now); err != nil {
		return nil, err
	}
	return NewPersonalPosition(owner, trackerID, t.Index), nil
}

// Deposit advances the tracker, grows the deposited total and credits the
// position. It returns the new position amount.
func Deposit(t *TimeTracker, p *PersonalPosition, now, amount uint64) (uint64, error) {
	if err := t.DepositLP(now, amount); err != nil {
		return 0, err
	}
	if err := p.IncAmount(t.Index, amount); err != nil {
		return 0, err
	}
	return p.Amount, nil
}

// Withdraw advances the tracker, shrinks the deposited total and debits the position.
func Withdraw(t *TimeTracker, p *PersonalPosition, now, amount uint64) error {
	if err := t.WithdrawLP(now, amount); err != nil {
		return err
	}
	return p.DecAmount(t.Index, amount)
}

// UpdatePersonal advances the tracker and brings the position's earned time units up to date.
func UpdatePersonal(t *TimeTracker, p *PersonalPosition, now uint64) error {
	if err := t.Update(now); err != nil {
		return err
	}
	return p.Update(t.Index)
}
