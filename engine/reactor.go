// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/reactor"
	"github.com/rayforge/accrual/store"
)

type reactorRecords struct {
	reactorID ident.ID
	config    *reactor.Config
	reactor   *reactor.Reactor
}

func loadReactor(tx *store.Tx, owner ident.ID) (*reactorRecords, error) {
	r := &reactorRecords{reactorID: reactor.ID(owner)}

	var err error
	if r.config, err = load[reactor.Config](tx, ReactorConfigBucket, reactor.ConfigID); err != nil {
		return nil, err
	}
	if r.reactor, err = load[reactor.Reactor](tx, ReactorBucket, r.reactorID); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *reactorRecords) save(tx *store.Tx) error {
	if err := tx.Put(ReactorConfigBucket, reactor.ConfigID, r.config); err != nil {
		return err
	}
	return tx.Put(ReactorBucket, r.reactorID, r.reactor)
}

// reactorOp loads owner's reactor, applies fn and saves both records.
func (e *Engine) reactorOp(op string, result any, owner ident.ID, fn func(r *reactorRecords) error) error {
	return e.run(op, result, func(tx *store.Tx) error {
		r, err := loadReactor(tx, owner)
		if err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
		return r.save(tx)
	})
}

// InitReactorConfig creates the global reactor state.
func (e *Engine) InitReactorConfig(now, rayRewardDailyEmission uint64, isoRayAprBps uint16) error {
	return e.run("reactor.init_config", nil, func(tx *store.Tx) error {
		return tx.Create(ReactorConfigBucket, reactor.ConfigID, reactor.NewConfig(now, rayRewardDailyEmission, isoRayAprBps))
	})
}

// SyncReactorConfig accrues both reactor indices to now.
func (e *Engine) SyncReactorConfig(now uint64) error {
	return e.run("reactor.sync_config", nil, func(tx *store.Tx) error {
		return syncReactorConfig(tx, now)
	})
}

func syncReactorConfig(tx *store.Tx, now uint64) error {
	cfg, err := load[reactor.Config](tx, ReactorConfigBucket, reactor.ConfigID)
	if err != nil {
		return err
	}
	if err := cfg.Accrue(now); err != nil {
		return err
	}
	return tx.Put(ReactorConfigBucket, reactor.ConfigID, cfg)
}

// InitReactor opens owner's empty stake account.
func (e *Engine) InitReactor(owner ident.ID) error {
	return e.run("reactor.init", nil, func(tx *store.Tx) error {
		return tx.Create(ReactorBucket, reactor.ID(owner), reactor.New(owner))
	})
}

// ReactorDeposit stakes amount RAY for owner.
func (e *Engine) ReactorDeposit(now uint64, owner ident.ID, amount uint64) (reactor.RayDeposited, error) {
	var res reactor.RayDeposited
	err := e.reactorOp("reactor.deposit_ray", &res, owner, func(r *reactorRecords) (err error) {
		res, err = reactor.DepositRay(now, r.config, r.reactor, amount)
		return
	})
	return res, err
}

// ReactorWithdraw unstakes amount RAY for owner, slashing isoRAY in proportion.
func (e *Engine) ReactorWithdraw(now uint64, owner ident.ID, amount uint64) (reactor.RayWithdrawn, error) {
	var res reactor.RayWithdrawn
	err := e.reactorOp("reactor.withdraw_ray", &res, owner, func(r *reactorRecords) (err error) {
		res, err = reactor.WithdrawRay(now, r.config, r.reactor, amount)
		return
	})
	return res, err
}

// LockVotes locks amount of owner's vote power. The reactor must have been
// synced to the current isoRAY index.
func (e *Engine) LockVotes(owner ident.ID, amount uint64) (uint64, error) {
	var locked uint64
	err := e.reactorOp("reactor.lock_votes", &locked, owner, func(r *reactorRecords) (err error) {
		locked, err = reactor.NewLocker(r.reactor, r.config).LockVotes(amount)
		return
	})
	return locked, err
}

// UnlockVotes releases amount of owner's locked votes.
func (e *Engine) UnlockVotes(owner ident.ID, amount uint64) (uint64, error) {
	var locked uint64
	err := e.reactorOp("reactor.unlock_votes", &locked, owner, func(r *reactorRecords) (err error) {
		locked, err = r.reactor.UnlockVotes(amount)
		return
	})
	return locked, err
}

// SyncReactor accrues the reactor indices and owner's account to now.
func (e *Engine) SyncReactor(now uint64, owner ident.ID) error {
	return e.reactorOp("reactor.sync", nil, owner, func(r *reactorRecords) error {
		return reactor.Sync(now, r.config, r.reactor)
	})
}

// SyncAndCollect syncs owner's account and collects its RAY reward.
func (e *Engine) SyncAndCollect(now uint64, owner ident.ID) (uint64, error) {
	var res reactor.RayCollected
	err := e.reactorOp("reactor.sync_and_collect", &res, owner, func(r *reactorRecords) (err error) {
		res.Amount, err = reactor.SyncAndCollect(now, r.config, r.reactor)
		return
	})
	return res.Amount, err
}

// CollectRayRewards zeroes and returns owner's accrued RAY reward without syncing.
func (e *Engine) CollectRayRewards(owner ident.ID) (uint64, error) {
	var res reactor.RayCollected
	err := e.reactorOp("reactor.collect_ray_rewards", &res, owner, func(r *reactorRecords) error {
		res.Amount = r.reactor.CollectRayRewards()
		return nil
	})
	return res.Amount, err
}
