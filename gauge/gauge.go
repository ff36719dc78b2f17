// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gauge distributes a daily RAY emission across pools by pledged
// votes, and within a pool across liquidity positions by earned time units.
package gauge

import (
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/accrual"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/layout"
	"github.com/rayforge/accrual/number"
)

// GaugeSize is the encoded size of a Gauge.
const GaugeSize = ident.Size + 8 + number.Size + 8

// GaugeID returns the address of the gauge for pool.
func GaugeID(pool ident.ID) ident.ID {
	return ident.Derive("pool-gauge", pool)
}

// Gauge is a pool's share account against the global index, weighted by
// the votes pledged to the pool.
type Gauge struct {
	PoolID              ident.ID      `json:"poolId"`
	TotalVotes          uint64        `json:"totalVotes"`
	LastSeenGlobalIndex number.Number `json:"lastSeenGlobalIndex"`
	TotalRayEmitted     uint64        `json:"totalRayEmitted"`
}

func NewGauge(pool ident.ID, globalIndex number.Number) *Gauge {
	return &Gauge{
		PoolID:              pool,
		LastSeenGlobalIndex: globalIndex,
	}
}

// UpdateIndex credits the pool with the RAY emitted to its votes since the
// last seen global index.
func (g *Gauge) UpdateIndex(globalIndex number.Number) error {
	lastSeen := g.LastSeenGlobalIndex
	emitted, err := accrual.CatchupWhole(&lastSeen, globalIndex, g.TotalVotes)
	if err != nil {
		return errors.Wrap(err, "pool gauge")
	}
	total, err := accrual.Add64(g.TotalRayEmitted, emitted)
	if err != nil {
		return errors.Wrap(err, "pool gauge")
	}
	g.LastSeenGlobalIndex = lastSeen
	g.TotalRayEmitted = total
	return nil
}

// ChangeVotes applies a signed change to the pool's vote total.
func (g *Gauge) ChangeVotes(amount int64) error {
	total, err := applyDelta(g.TotalVotes, amount)
	if err != nil {
		return errors.Wrap(err, "pool gauge votes")
	}
	g.TotalVotes = total
	return nil
}

func (g *Gauge) MarshalBinary() ([]byte, error) {
	return layout.NewWriter(GaugeSize).
		ID(g.PoolID).
		Uint64(g.TotalVotes).
		Number(g.LastSeenGlobalIndex).
		Uint64(g.TotalRayEmitted).
		Bytes(), nil
}

func (g *Gauge) UnmarshalBinary(data []byte) error {
	r, err := layout.NewReader(data, GaugeSize)
	if err != nil {
		return errors.Wrap(err, "pool gauge")
	}
	g.PoolID = r.ID()
	g.TotalVotes = r.Uint64()
	g.LastSeenGlobalIndex = r.Number()
	g.TotalRayEmitted = r.Uint64()
	return nil
}

// Sync advances the global index to now, then the pool gauge to the global index.
func Sync(now uint64, cfg *Config, g *Gauge) error {
	if err := cfg.UpdateIndex(now); err != nil {
		return err
	}
	return g.UpdateIndex(cfg.Index)
}
