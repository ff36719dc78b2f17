// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import (
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/escrow"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/layout"
)

// RewarderCPSize is the encoded size of a RewarderCP.
const RewarderCPSize = ident.Size*2 + RewarderStateSize

// RewarderCPID returns the address of owner's constant product rewarder on a pool gauge.
func RewarderCPID(poolGauge, owner ident.ID) ident.ID {
	return ident.Derive("personal-rewarder-cp", poolGauge, owner)
}

// RewarderCP pays RAY to a constant product LP position held in escrow.
type RewarderCP struct {
	Owner     ident.ID      `json:"owner"`
	PoolGauge ident.ID      `json:"poolGauge"`
	Rewarder  RewarderState `json:"rewarder"`
}

// InitRewarderCP refreshes the position and the gauge, then opens a rewarder
// starting from their current totals.
func InitRewarderCP(now uint64, cfg *Config, g *Gauge, gaugeID ident.ID, t *escrow.TimeTracker, p *escrow.PersonalPosition) (*RewarderCP, error) {
	if err := escrow.UpdatePersonal(t, p, now); err != nil {
		return nil, err
	}
	if err := Sync(now, cfg, g); err != nil {
		return nil, err
	}
	return &RewarderCP{
		Owner:     p.Owner,
		PoolGauge: gaugeID,
		Rewarder:  NewRewarderState(now, g.TotalRayEmitted, p.EarnedTimeUnits),
	}, nil
}

// Accrue refreshes the position and the gauge, then stages the RAY earned.
func (r *RewarderCP) Accrue(now uint64, cfg *Config, g *Gauge, t *escrow.TimeTracker, p *escrow.PersonalPosition) (uint64, error) {
	if err := escrow.UpdatePersonal(t, p, now); err != nil {
		return 0, err
	}
	if err := Sync(now, cfg, g); err != nil {
		return 0, err
	}
	return r.Rewarder.SyncAndStage(now, g.TotalRayEmitted, p.EarnedTimeUnits)
}

func (r *RewarderCP) MarshalBinary() ([]byte, error) {
	w := layout.NewWriter(RewarderCPSize).
		ID(r.Owner).
		ID(r.PoolGauge)
	return r.Rewarder.write(w).Bytes(), nil
}

func (r *RewarderCP) UnmarshalBinary(data []byte) error {
	rd, err := layout.NewReader(data, RewarderCPSize)
	if err != nil {
		return errors.Wrap(err, "cp rewarder")
	}
	r.Owner = rd.ID()
	r.PoolGauge = rd.ID()
	r.Rewarder.read(rd)
	return nil
}
