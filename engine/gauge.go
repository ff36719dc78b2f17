// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/rayforge/accrual/gauge"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/reactor"
	"github.com/rayforge/accrual/store"
)

// StagedRay is the outcome of a rewarder accrual.
type StagedRay struct {
	Staged uint64 `json:"staged"`
	Total  uint64 `json:"total"`
}

type gaugeRecords struct {
	gaugeID ident.ID
	config  *gauge.Config
	gauge   *gauge.Gauge
}

func loadGauge(tx *store.Tx, pool ident.ID) (*gaugeRecords, error) {
	r := &gaugeRecords{gaugeID: gauge.GaugeID(pool)}

	var err error
	if r.config, err = load[gauge.Config](tx, GaugeConfigBucket, gauge.ConfigID); err != nil {
		return nil, err
	}
	if r.gauge, err = load[gauge.Gauge](tx, PoolGaugeBucket, r.gaugeID); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *gaugeRecords) save(tx *store.Tx) error {
	if err := tx.Put(GaugeConfigBucket, gauge.ConfigID, r.config); err != nil {
		return err
	}
	return tx.Put(PoolGaugeBucket, r.gaugeID, r.gauge)
}

// InitGaugeConfig creates the global emission state.
func (e *Engine) InitGaugeConfig(now, rayEmissionPerDay uint64) error {
	return e.run("gauge.init_config", nil, func(tx *store.Tx) error {
		return tx.Create(GaugeConfigBucket, gauge.ConfigID, gauge.NewConfig(now, rayEmissionPerDay))
	})
}

// SyncGaugeConfig advances the global emission index to now.
func (e *Engine) SyncGaugeConfig(now uint64) error {
	return e.run("gauge.sync_config", nil, func(tx *store.Tx) error {
		return syncGaugeConfig(tx, now)
	})
}

func syncGaugeConfig(tx *store.Tx, now uint64) error {
	cfg, err := load[gauge.Config](tx, GaugeConfigBucket, gauge.ConfigID)
	if err != nil {
		return err
	}
	if err := cfg.UpdateIndex(now); err != nil {
		return err
	}
	return tx.Put(GaugeConfigBucket, gauge.ConfigID, cfg)
}

// InitPoolGauge opens the gauge of pool at the current global index.
func (e *Engine) InitPoolGauge(now uint64, pool ident.ID) error {
	return e.run("gauge.init_pool_gauge", nil, func(tx *store.Tx) error {
		cfg, err := load[gauge.Config](tx, GaugeConfigBucket, gauge.ConfigID)
		if err != nil {
			return err
		}
		if err := cfg.UpdateIndex(now); err != nil {
			return err
		}
		if err := tx.Create(PoolGaugeBucket, gauge.GaugeID(pool), gauge.NewGauge(pool, cfg.Index)); err != nil {
			return err
		}
		return tx.Put(GaugeConfigBucket, gauge.ConfigID, cfg)
	})
}

// InitPersonalGauge opens owner's vote record on pool.
func (e *Engine) InitPersonalGauge(pool, owner ident.ID) error {
	return e.run("gauge.init_personal_gauge", nil, func(tx *store.Tx) error {
		gaugeID := gauge.GaugeID(pool)
		if _, err := load[gauge.Gauge](tx, PoolGaugeBucket, gaugeID); err != nil {
			return err
		}
		return tx.Create(PersonalGaugeBucket, gauge.PersonalGaugeID(gaugeID, owner), gauge.NewPersonalGauge(gaugeID, owner))
	})
}

// SyncPoolIndex advances the global index, then the gauge of pool.
func (e *Engine) SyncPoolIndex(now uint64, pool ident.ID) error {
	return e.run("gauge.sync_pool_index", nil, func(tx *store.Tx) error {
		return syncPoolIndex(tx, now, pool)
	})
}

func syncPoolIndex(tx *store.Tx, now uint64, pool ident.ID) error {
	r, err := loadGauge(tx, pool)
	if err != nil {
		return err
	}
	if err := gauge.Sync(now, r.config, r.gauge); err != nil {
		return err
	}
	return r.save(tx)
}

// ChangeVotes pledges (amount > 0) or unpledges (amount < 0) owner's votes on
// pool. The votes are drawn from owner's reactor, which is synced first.
func (e *Engine) ChangeVotes(now uint64, pool, owner ident.ID, amount int64) (gauge.VotesChanged, error) {
	var res gauge.VotesChanged
	err := e.run("gauge.change_votes", &res, func(tx *store.Tx) error {
		g, err := loadGauge(tx, pool)
		if err != nil {
			return err
		}
		personalID := gauge.PersonalGaugeID(g.gaugeID, owner)
		personal, err := load[gauge.PersonalGauge](tx, PersonalGaugeBucket, personalID)
		if err != nil {
			return err
		}
		rr, err := loadReactor(tx, owner)
		if err != nil {
			return err
		}

		if err := reactor.Sync(now, rr.config, rr.reactor); err != nil {
			return err
		}
		locker := reactor.NewLocker(rr.reactor, rr.config)
		if res, err = gauge.ChangeVotes(now, g.config, g.gauge, personal, locker, amount); err != nil {
			return err
		}

		if err := g.save(tx); err != nil {
			return err
		}
		if err := tx.Put(PersonalGaugeBucket, personalID, personal); err != nil {
			return err
		}
		return rr.save(tx)
	})
	return res, err
}

// InitRewarderCP opens owner's constant product rewarder on pool. The owner
// must hold an escrow position in the same pool.
func (e *Engine) InitRewarderCP(now uint64, pool, owner ident.ID) error {
	return e.run("rewarder.init_cp", nil, func(tx *store.Tx) error {
		g, err := loadGauge(tx, pool)
		if err != nil {
			return err
		}
		p, err := loadPosition(tx, pool, owner)
		if err != nil {
			return err
		}
		rw, err := gauge.InitRewarderCP(now, g.config, g.gauge, g.gaugeID, p.tracker, p.position)
		if err != nil {
			return err
		}
		if err := tx.Create(RewarderCPBucket, gauge.RewarderCPID(g.gaugeID, owner), rw); err != nil {
			return err
		}
		if err := g.save(tx); err != nil {
			return err
		}
		return p.save(tx)
	})
}

// AccrueCP stages the RAY owner's escrow position earned on pool.
func (e *Engine) AccrueCP(now uint64, pool, owner ident.ID) (StagedRay, error) {
	var res StagedRay
	err := e.run("rewarder.accrue_cp", &res, func(tx *store.Tx) error {
		g, err := loadGauge(tx, pool)
		if err != nil {
			return err
		}
		p, err := loadPosition(tx, pool, owner)
		if err != nil {
			return err
		}
		id := gauge.RewarderCPID(g.gaugeID, owner)
		rw, err := load[gauge.RewarderCP](tx, RewarderCPBucket, id)
		if err != nil {
			return err
		}
		if res.Staged, err = rw.Accrue(now, g.config, g.gauge, p.tracker, p.position); err != nil {
			return err
		}
		res.Total = rw.Rewarder.StagedRay

		if err := tx.Put(RewarderCPBucket, id, rw); err != nil {
			return err
		}
		if err := g.save(tx); err != nil {
			return err
		}
		return p.save(tx)
	})
	return res, err
}

// CollectCP zeroes and returns the RAY staged for owner on pool.
func (e *Engine) CollectCP(pool, owner ident.ID) (uint64, error) {
	var res reactor.RayCollected
	err := e.run("rewarder.collect_cp", &res, func(tx *store.Tx) error {
		id := gauge.RewarderCPID(gauge.GaugeID(pool), owner)
		rw, err := load[gauge.RewarderCP](tx, RewarderCPBucket, id)
		if err != nil {
			return err
		}
		res.Amount = rw.Rewarder.Collect()
		return tx.Put(RewarderCPBucket, id, rw)
	})
	return res.Amount, err
}

// InitRewarderCL opens the rewarder of a concentrated liquidity position.
func (e *Engine) InitRewarderCL(now uint64, pos *gauge.CLPosition) error {
	return e.run("rewarder.init_cl", nil, func(tx *store.Tx) error {
		g, err := loadGauge(tx, pos.PoolID)
		if err != nil {
			return err
		}
		rw, err := gauge.InitRewarderCL(now, g.config, g.gauge, g.gaugeID, e.opts.TimeTrackerMint, pos)
		if err != nil {
			return err
		}
		if err := tx.Create(RewarderCLBucket, gauge.RewarderCLID(pos.ID), rw); err != nil {
			return err
		}
		return g.save(tx)
	})
}

// AccrueCL stages the RAY a concentrated liquidity position earned.
func (e *Engine) AccrueCL(now uint64, pos *gauge.CLPosition) (StagedRay, error) {
	var res StagedRay
	err := e.run("rewarder.accrue_cl", &res, func(tx *store.Tx) error {
		id := gauge.RewarderCLID(pos.ID)
		rw, err := load[gauge.RewarderCL](tx, RewarderCLBucket, id)
		if err != nil {
			return err
		}
		g, err := loadGauge(tx, rw.Pool)
		if err != nil {
			return err
		}
		if res.Staged, err = rw.Accrue(now, g.config, g.gauge, e.opts.TimeTrackerMint, pos); err != nil {
			return err
		}
		res.Total = rw.Rewarder.StagedRay

		if err := tx.Put(RewarderCLBucket, id, rw); err != nil {
			return err
		}
		return g.save(tx)
	})
	return res, err
}

// CollectCL zeroes and returns the RAY staged for a concentrated liquidity position.
func (e *Engine) CollectCL(position ident.ID) (uint64, error) {
	var res reactor.RayCollected
	err := e.run("rewarder.collect_cl", &res, func(tx *store.Tx) error {
		id := gauge.RewarderCLID(position)
		rw, err := load[gauge.RewarderCL](tx, RewarderCLBucket, id)
		if err != nil {
			return err
		}
		res.Amount = rw.Rewarder.Collect()
		return tx.Put(RewarderCLBucket, id, rw)
	})
	return res.Amount, err
}
