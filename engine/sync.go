// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/reverts"
	"github.com/rayforge/accrual/store"
)

// IndicesSynced reports a SyncIndices run.
type IndicesSynced struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
}

// SyncIndices advances the gauge config, the reactor config and the gauges
// of pools to now, all in one transaction. With no pools given every stored
// pool gauge is synced. A step that reverts, usually because its record
// does not exist yet, is rolled back alone and counted as skipped. A fatal
// step discards the whole refresh.
func (e *Engine) SyncIndices(now uint64, pools []ident.ID) (IndicesSynced, error) {
	if len(pools) == 0 {
		gauges, err := e.PoolGauges()
		if err != nil {
			return IndicesSynced{}, err
		}
		for _, g := range gauges {
			pools = append(pools, g.PoolID)
		}
	}

	var res IndicesSynced
	err := e.run("engine.sync_indices", &res, func(tx *store.Tx) error {
		step := func(what string, fn func() error) error {
			cp := tx.Checkpoint()
			err := fn()
			switch {
			case err == nil:
				res.Synced++
			case reverts.IsRevertErr(err):
				tx.Revert(cp)
				res.Skipped++
				logger.Debug("sync skipped", "record", what, "reason", reverts.Reason(err))
			default:
				return err
			}
			return nil
		}

		if err := step("gauge-config", func() error { return syncGaugeConfig(tx, now) }); err != nil {
			return err
		}
		if err := step("reactor-config", func() error { return syncReactorConfig(tx, now) }); err != nil {
			return err
		}
		for _, pool := range pools {
			if err := step("pool-gauge", func() error { return syncPoolIndex(tx, now, pool) }); err != nil {
				return err
			}
		}
		return nil
	})
	return res, err
}
