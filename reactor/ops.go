// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reactor

import (
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/accrual"
)

// RayDeposited is the outcome of a deposit.
type RayDeposited struct {
	Amount           uint64 `json:"amount"`
	NewGlobalAmount  uint64 `json:"newGlobalAmount"`
	NewReactorAmount uint64 `json:"newReactorAmount"`
}

// RayCollected is the outcome of a reward collection.
type RayCollected struct {
	Amount uint64 `json:"amount"`
}

// Sync accrues the config to now and catches r up to its indices.
func Sync(now uint64, cfg *Config, r *Reactor) error {
	if err := cfg.Accrue(now); err != nil {
		return err
	}
	return r.Sync(cfg.IsoRayIndex, cfg.RayRewardIndex)
}

// DepositRay stakes amount RAY into r.
func DepositRay(now uint64, cfg *Config, r *Reactor, amount uint64) (RayDeposited, error) {
	if err := cfg.DepositRay(now, amount); err != nil {
		return RayDeposited{}, err
	}
	ray, err := r.DepositRay(amount, cfg.IsoRayIndex, cfg.RayRewardIndex)
	if err != nil {
		return RayDeposited{}, err
	}
	return RayDeposited{
		Amount:           amount,
		NewGlobalAmount:  cfg.TotalRayDeposited,
		NewReactorAmount: ray,
	}, nil
}

// WithdrawRay unstakes amount RAY from r. The config indices are advanced
// under the old total before it shrinks; on a revert cfg is left as it was.
func WithdrawRay(now uint64, cfg *Config, r *Reactor, amount uint64) (RayWithdrawn, error) {
	next := *cfg
	if err := next.Accrue(now); err != nil {
		return RayWithdrawn{}, err
	}
	res, err := r.WithdrawRay(amount, next.IsoRayIndex, next.RayRewardIndex)
	if err != nil {
		return RayWithdrawn{}, err
	}
	if next.TotalRayDeposited, err = accrual.Sub64(next.TotalRayDeposited, amount); err != nil {
		return RayWithdrawn{}, errors.Wrap(err, "total ray deposited")
	}
	*cfg = next
	return res, nil
}

// SyncAndCollect syncs r and collects its RAY reward.
func SyncAndCollect(now uint64, cfg *Config, r *Reactor) (uint64, error) {
	if err := Sync(now, cfg, r); err != nil {
		return 0, err
	}
	return r.CollectRayRewards(), nil
}

// Locker exposes a reactor's vote power to gauges. It refuses to lock votes
// while the reactor has not caught up with the config's isoRAY index.
type Locker struct {
	reactor *Reactor
	config  *Config
}

func NewLocker(r *Reactor, cfg *Config) *Locker {
	return &Locker{reactor: r, config: cfg}
}

func (l *Locker) FreeVotes() (uint64, error) {
	return l.reactor.FreeVotes()
}

func (l *Locker) LockVotes(amount uint64) (uint64, error) {
	if !l.reactor.LastSeenIndexIsoRay.Eq(l.config.IsoRayIndex) {
		return 0, ErrIsoRayNotUpToDate
	}
	return l.reactor.LockVotes(amount)
}

func (l *Locker) UnlockVotes(amount uint64) (uint64, error) {
	return l.reactor.UnlockVotes(amount)
}
