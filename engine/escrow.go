// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/rayforge/accrual/escrow"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/store"
)

// positionRecords are the records every personal escrow operation touches.
type positionRecords struct {
	trackerID  ident.ID
	positionID ident.ID
	tracker    *escrow.TimeTracker
	position   *escrow.PersonalPosition
}

func loadPosition(tx *store.Tx, pool, owner ident.ID) (*positionRecords, error) {
	r := &positionRecords{trackerID: escrow.TimeTrackerID(pool)}
	r.positionID = escrow.PersonalPositionID(r.trackerID, owner)

	var err error
	if r.tracker, err = load[escrow.TimeTracker](tx, TimeTrackerBucket, r.trackerID); err != nil {
		return nil, err
	}
	if r.position, err = load[escrow.PersonalPosition](tx, PositionBucket, r.positionID); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *positionRecords) save(tx *store.Tx) error {
	if err := tx.Put(TimeTrackerBucket, r.trackerID, r.tracker); err != nil {
		return err
	}
	return tx.Put(PositionBucket, r.positionID, r.position)
}

// InitEscrow opens the time tracker of pool.
func (e *Engine) InitEscrow(now uint64, pool ident.ID) error {
	return e.run("escrow.init", nil, func(tx *store.Tx) error {
		return tx.Create(TimeTrackerBucket, escrow.TimeTrackerID(pool), escrow.NewTimeTracker(pool, now))
	})
}

// InitPersonalPosition opens owner's empty position in pool.
func (e *Engine) InitPersonalPosition(now uint64, pool, owner ident.ID) error {
	return e.run("escrow.init_personal_position", nil, func(tx *store.Tx) error {
		trackerID := escrow.TimeTrackerID(pool)
		t, err := load[escrow.TimeTracker](tx, TimeTrackerBucket, trackerID)
		if err != nil {
			return err
		}
		p, err := escrow.InitPersonalPosition(t, trackerID, owner, now)
		if err != nil {
			return err
		}
		if err := tx.Create(PositionBucket, escrow.PersonalPositionID(trackerID, owner), p); err != nil {
			return err
		}
		return tx.Put(TimeTrackerBucket, trackerID, t)
	})
}

// EscrowDeposit credits owner with amount LP and returns the new position amount.
func (e *Engine) EscrowDeposit(now uint64, pool, owner ident.ID, amount uint64) (uint64, error) {
	var balance uint64
	err := e.run("escrow.deposit", &balance, func(tx *store.Tx) error {
		r, err := loadPosition(tx, pool, owner)
		if err != nil {
			return err
		}
		if balance, err = escrow.Deposit(r.tracker, r.position, now, amount); err != nil {
			return err
		}
		return r.save(tx)
	})
	return balance, err
}

// EscrowWithdraw debits amount LP from owner.
func (e *Engine) EscrowWithdraw(now uint64, pool, owner ident.ID, amount uint64) error {
	return e.run("escrow.withdraw", nil, func(tx *store.Tx) error {
		r, err := loadPosition(tx, pool, owner)
		if err != nil {
			return err
		}
		if err := escrow.Withdraw(r.tracker, r.position, now, amount); err != nil {
			return err
		}
		return r.save(tx)
	})
}

// EscrowUpdatePersonal brings owner's earned time units up to now.
func (e *Engine) EscrowUpdatePersonal(now uint64, pool, owner ident.ID) error {
	return e.run("escrow.update_personal", nil, func(tx *store.Tx) error {
		r, err := loadPosition(tx, pool, owner)
		if err != nil {
			return err
		}
		if err := escrow.UpdatePersonal(r.tracker, r.position, now); err != nil {
			return err
		}
		return r.save(tx)
	})
}
