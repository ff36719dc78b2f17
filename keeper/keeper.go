// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package keeper periodically advances the global indices so that reads of
// stored records stay close to the wall clock between user operations.
package keeper

import (
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/rayforge/accrual/engine"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/log"
	"github.com/rayforge/accrual/metrics"
)

var logger = log.WithContext("pkg", "keeper")

var (
	metricRuns        = metrics.LazyLoadCounterVec("keeper_runs_count", []string{"outcome"})
	metricLastRefresh = metrics.LazyLoadGauge("keeper_last_refresh_ts")
)

// Clock returns the current unix time in seconds.
type Clock func() uint64

// SystemClock reads the wall clock.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

// Keeper refreshes the gauge config, the reactor config and pool gauges.
type Keeper struct {
	engine *engine.Engine
	pools  []ident.ID
	clock  Clock
	cron   *cron.Cron
}

// New creates a keeper. With no pools given every stored pool gauge is refreshed.
func New(e *engine.Engine, pools []ident.ID, clock Clock) *Keeper {
	return &Keeper{
		engine: e,
		pools:  pools,
		clock:  clock,
		cron:   cron.New(),
	}
}

// Start runs RunOnce on schedule, a standard cron spec or descriptor such as "@every 1m".
func (k *Keeper) Start(schedule string) error {
	if _, err := k.cron.AddFunc(schedule, func() {
		if err := k.RunOnce(); err != nil {
			logger.Warn("refresh failed", "err", err)
		}
	}); err != nil {
		return errors.Wrap(err, "register keeper")
	}
	k.cron.Start()
	logger.Info("keeper started", "schedule", schedule)
	return nil
}

// Stop stops the schedule and waits for a running refresh to finish.
func (k *Keeper) Stop() {
	<-k.cron.Stop().Done()
	logger.Info("keeper stopped")
}

// RunOnce advances every index to now in one transaction. Records not yet
// initialised are skipped.
func (k *Keeper) RunOnce() (err error) {
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metricRuns().AddWithLabel(1, map[string]string{"outcome": outcome})
	}()

	now := k.clock()
	res, err := k.engine.SyncIndices(now, k.pools)
	if err != nil {
		return err
	}
	metricLastRefresh().Set(int64(now))
	logger.Debug("indices refreshed", "now", now, "synced", res.Synced, "skipped", res.Skipped)
	return nil
}
