// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import (
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/layout"
	"github.com/rayforge/accrual/number"
)

// RewarderCLSize is the encoded size of a RewarderCL.
const RewarderCLSize = ident.Size*3 + RewarderStateSize

// RewarderCLID returns the address of the rewarder for a concentrated liquidity position.
func RewarderCLID(position ident.ID) ident.ID {
	return ident.Derive("personal-rewarder-cl", position)
}

// RewardInfo is one reward stream owed to a concentrated liquidity position.
type RewardInfo struct {
	Mint       ident.ID `json:"mint"`
	AmountOwed uint64   `json:"amountOwed"`
}

// CLPosition is a freshly updated snapshot of a concentrated liquidity
// position, supplied by the pool program. One of its reward streams is the
// time tracker token, which is how the pool accounts liquidity held in range.
type CLPosition struct {
	ID          ident.ID     `json:"id"`
	PoolID      ident.ID     `json:"poolId"`
	RewardInfos []RewardInfo `json:"rewardInfos"`
}

// EarnedTimeUnits returns the amount owed on the reward stream paying mint.
func (p *CLPosition) EarnedTimeUnits(mint ident.ID) (number.Number, error) {
	for _, info := range p.RewardInfos {
		if info.Mint == mint {
			return number.FromNatural(info.AmountOwed), nil
		}
	}
	return number.Number{}, ErrTimeTrackerRewardNotFound
}

// RewarderCL pays RAY to a concentrated liquidity position.
type RewarderCL struct {
	PoolPosition ident.ID      `json:"poolPosition"`
	PoolGauge    ident.ID      `json:"poolGauge"`
	Pool         ident.ID      `json:"pool"`
	Rewarder     RewarderState `json:"rewarder"`
}

// InitRewarderCL syncs the gauge and opens a rewarder for pos starting from
// its current time units.
func InitRewarderCL(now uint64, cfg *Config, g *Gauge, gaugeID ident.ID, mint ident.ID, pos *CLPosition) (*RewarderCL, error) {
	units, err := pos.EarnedTimeUnits(mint)
	if err != nil {
		return nil, err
	}
	if err := Sync(now, cfg, g); err != nil {
		return nil, err
	}
	return &RewarderCL{
		PoolPosition: pos.ID,
		PoolGauge:    gaugeID,
		Pool:         pos.PoolID,
		Rewarder:     NewRewarderState(now, g.TotalRayEmitted, units),
	}, nil
}

// Accrue syncs the gauge and stages the RAY earned by pos, which must be a
// snapshot of the position the rewarder was opened for.
func (r *RewarderCL) Accrue(now uint64, cfg *Config, g *Gauge, mint ident.ID, pos *CLPosition) (uint64, error) {
	if pos.ID != r.PoolPosition || pos.PoolID != r.Pool {
		return 0, ErrPositionPoolMismatch
	}
	units, err := pos.EarnedTimeUnits(mint)
	if err != nil {
		return 0, err
	}
	if err := Sync(now, cfg, g); err != nil {
		return 0, err
	}
	return r.Rewarder.SyncAndStage(now, g.TotalRayEmitted, units)
}

func (r *RewarderCL) MarshalBinary() ([]byte, error) {
	w := layout.NewWriter(RewarderCLSize).
		ID(r.PoolPosition).
		ID(r.PoolGauge).
		ID(r.Pool)
	return r.Rewarder.write(w).Bytes(), nil
}

func (r *RewarderCL) UnmarshalBinary(data []byte) error {
	rd, err := layout.NewReader(data, RewarderCLSize)
	if err != nil {
		return errors.Wrap(err, "cl rewarder")
	}
	r.PoolPosition = rd.ID()
	r.PoolGauge = rd.ID()
	r.Pool = rd.ID()
	r.Rewarder.read(rd)
	return nil
}
