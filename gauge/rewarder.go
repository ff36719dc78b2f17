// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import (
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/accrual"
	"github.com/rayforge/accrual/layout"
	"github.com/rayforge/accrual/number"
)

// RewarderStateSize is the encoded size of a RewarderState.
const RewarderStateSize = number.Size + 8 + 8 + 8

// RewarderState converts the time units a position earns into RAY, at the
// rate its pool gauge emitted RAY over the same wall clock interval.
type RewarderState struct {
	LastSeenTimeUnits       number.Number `json:"lastSeenTimeUnits"`
	LastSeenTotalEmittedRay uint64        `json:"lastSeenTotalEmittedRay"`
	LastUpdatedTS           uint64        `json:"lastUpdatedTs"`
	StagedRay               uint64        `json:"stagedRay"` // earned, not yet collected
}

func NewRewarderState(now, totalEmitted uint64, timeUnits number.Number) RewarderState {
	return RewarderState{
		LastSeenTimeUnits:       timeUnits,
		LastSeenTotalEmittedRay: totalEmitted,
		LastUpdatedTS:           now,
	}
}

// SyncAndStage stages the RAY earned since the last sync and returns it.
//
//	rate      = (totalEmitted - lastSeenTotalEmitted) / (now - lastUpdated)
//	collected = floor(rate × (timeUnits - lastSeenTimeUnits))
//
// The rate is truncated before it is applied, so the result may fall short
// of the exact share by a rounding unit.
func (s *RewarderState) SyncAndStage(now, totalEmitted uint64, timeUnits number.Number) (uint64, error) {
	if totalEmitted < s.LastSeenTotalEmittedRay {
		return 0, errors.Wrapf(accrual.ErrIndexRegression, "total emitted %d, last seen %d", totalEmitted, s.LastSeenTotalEmittedRay)
	}
	if now < s.LastUpdatedTS {
		return 0, errors.Wrapf(accrual.ErrTimestampRegression, "now %d, last %d", now, s.LastUpdatedTS)
	}
	if timeUnits.Lt(s.LastSeenTimeUnits) {
		return 0, errors.Wrapf(accrual.ErrIndexRegression, "time units %v, last seen %v", timeUnits, s.LastSeenTimeUnits)
	}

	deltaRay := totalEmitted - s.LastSeenTotalEmittedRay
	deltaTime := now - s.LastUpdatedTS
	if deltaTime == 0 {
		return 0, nil
	}
	deltaUnits, err := timeUnits.Sub(s.LastSeenTimeUnits)
	if err != nil {
		return 0, err
	}

	rate, err := number.FromRatio(deltaRay, deltaTime)
	if err != nil {
		return 0, err
	}
	earned, err := rate.Mul(deltaUnits)
	if err != nil {
		return 0, errors.Wrap(err, "stage ray")
	}
	collected, err := earned.FloorUint64()
	if err != nil {
		return 0, errors.Wrap(err, "stage ray")
	}
	staged, err := accrual.Add64(s.StagedRay, collected)
	if err != nil {
		return 0, errors.Wrap(err, "stage ray")
	}

	s.LastSeenTimeUnits = timeUnits
	s.LastSeenTotalEmittedRay = totalEmitted
	s.LastUpdatedTS = now
	s.StagedRay = staged
	return collected, nil
}

// Collect zeroes the staged RAY and returns it.
func (s *RewarderState) Collect() uint64 {
	amount := s.StagedRay
	s.StagedRay = 0
	return amount
}

func (s *RewarderState) write(w *layout.Writer) *layout.Writer {
	return w.Number(s.LastSeenTimeUnits).
		Uint64(s.LastSeenTotalEmittedRay).
		Uint64(s.LastUpdatedTS).
		Uint64(s.StagedRay)
}

func (s *RewarderState) read(r *layout.Reader) {
	s.LastSeenTimeUnits = r.Number()
	s.LastSeenTotalEmittedRay = r.Uint64()
	s.LastUpdatedTS = r.Uint64()
	s.StagedRay = r.Uint64()
}
