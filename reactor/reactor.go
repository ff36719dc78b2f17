// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reactor implements RAY staking. Deposited RAY earns a share of a
// daily RAY reward and mints isoRAY at a fixed APR. RAY plus isoRAY is vote
// power, part of which can be locked for gauge votes. Withdrawing RAY
// forfeits a proportional, rounded up share of isoRAY.
package reactor

import (
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/accrual"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/layout"
	"github.com/rayforge/accrual/number"
)

// Size is the encoded size of a Reactor.
const Size = ident.Size + 8*3 + number.Size + StakeRewardsSize

// StakeRewardsSize is the encoded size of StakeRewards.
const StakeRewardsSize = number.Size + 8

// ID returns the address of owner's reactor.
func ID(owner ident.ID) ident.ID {
	return ident.Derive("reactor", owner)
}

// StakeRewards tracks the RAY reward earned by staked RAY.
type StakeRewards struct {
	LastSeenIndex        number.Number `json:"lastSeenIndex"`
	UncollectedRayReward uint64        `json:"uncollectedRayReward"`
}

// Reactor is one owner's stake.
type Reactor struct {
	Owner               ident.ID      `json:"owner"`
	Ray                 uint64        `json:"ray"`
	IsoRay              uint64        `json:"isoRay"`
	LockedVotes         uint64        `json:"lockedVotes"` // never above VotePower
	LastSeenIndexIsoRay number.Number `json:"lastSeenIndexIsoRay"`
	RayStakeRewards     StakeRewards  `json:"rayStakeRewards"`
}

func New(owner ident.ID) *Reactor {
	return &Reactor{Owner: owner}
}

// RayWithdrawn is the outcome of a withdrawal.
type RayWithdrawn struct {
	Amount        uint64 `json:"amount"`
	IsoRaySlashed uint64 `json:"isoRaySlashed"`
}

func (r *Reactor) accrueIsoRay(index number.Number) error {
	minted, err := accrual.CatchupWhole(&r.LastSeenIndexIsoRay, index, r.Ray)
	if err != nil {
		return errors.Wrap(err, "accrue isoRAY")
	}
	if r.IsoRay, err = accrual.Add64(r.IsoRay, minted); err != nil {
		return errors.Wrap(err, "accrue isoRAY")
	}
	return nil
}

func (r *Reactor) accrueRayRewards(index number.Number) error {
	earned, err := accrual.CatchupWhole(&r.RayStakeRewards.LastSeenIndex, index, r.Ray)
	if err != nil {
		return errors.Wrap(err, "accrue RAY rewards")
	}
	if r.RayStakeRewards.UncollectedRayReward, err = accrual.Add64(r.RayStakeRewards.UncollectedRayReward, earned); err != nil {
		return errors.Wrap(err, "accrue RAY rewards")
	}
	return nil
}

// Sync catches up isoRAY and RAY rewards to the given indices. Balances are
// credited before any of them change.
func (r *Reactor) Sync(isoRayIndex, rayRewardIndex number.Number) error {
	next := *r
	if err := next.accrueIsoRay(isoRayIndex); err != nil {
		return err
	}
	if err := next.accrueRayRewards(rayRewardIndex); err != nil {
		return err
	}
	*r = next
	return nil
}

// DepositRay syncs, then adds amount. It returns the new RAY balance.
func (r *Reactor) DepositRay(amount uint64, isoRayIndex, rayRewardIndex number.Number) (uint64, error) {
	next := *r
	if err := next.Sync(isoRayIndex, rayRewardIndex); err != nil {
		return 0, err
	}
	ray, err := accrual.Add64(next.Ray, amount)
	if err != nil {
		return 0, errors.Wrap(err, "deposit RAY")
	}
	next.Ray = ray
	*r = next
	return ray, nil
}

// WithdrawRay syncs, then removes amount RAY along with the isoRAY it
// slashes. Votes that stay locked must remain covered by what is left.
func (r *Reactor) WithdrawRay(amount uint64, isoRayIndex, rayRewardIndex number.Number) (RayWithdrawn, error) {
	next := *r
	if err := next.Sync(isoRayIndex, rayRewardIndex); err != nil {
		return RayWithdrawn{}, err
	}
	if next.Ray < amount {
		return RayWithdrawn{}, ErrInsufficientRayBalance
	}

	slash, err := SlashAmount(next.Ray, amount, next.IsoRay)
	if err != nil {
		return RayWithdrawn{}, errors.Wrap(err, "slash isoRAY")
	}
	decrease, err := accrual.Add64(amount, slash)
	if err != nil {
		return RayWithdrawn{}, err
	}
	free, err := next.FreeVotes()
	if err != nil {
		return RayWithdrawn{}, err
	}
	if free < decrease {
		return RayWithdrawn{}, ErrInsufficientVotesToWithdraw
	}

	if next.Ray, err = accrual.Sub64(next.Ray, amount); err != nil {
		return RayWithdrawn{}, err
	}
	if next.IsoRay, err = accrual.Sub64(next.IsoRay, slash); err != nil {
		return RayWithdrawn{}, err
	}
	*r = next
	return RayWithdrawn{Amount: amount, IsoRaySlashed: slash}, nil
}

// VotePower is RAY plus isoRAY.
func (r *Reactor) VotePower() (uint64, error) {
	return accrual.Add64(r.Ray, r.IsoRay)
}

// FreeVotes is the vote power not locked.
func (r *Reactor) FreeVotes() (uint64, error) {
	power, err := r.VotePower()
	if err != nil {
		return 0, err
	}
	return accrual.Sub64(power, r.LockedVotes)
}

// LockVotes commits amount of the free votes. It returns the new locked total.
func (r *Reactor) LockVotes(amount uint64) (uint64, error) {
	free, err := r.FreeVotes()
	if err != nil {
		return 0, err
	}
	if free < amount {
		return 0, ErrInsufficientVotesToLock
	}
	locked, err := accrual.Add64(r.LockedVotes, amount)
	if err != nil {
		return 0, err
	}
	r.LockedVotes = locked
	return locked, nil
}

// UnlockVotes releases amount of the locked votes. It returns the new locked total.
func (r *Reactor) UnlockVotes(amount uint64) (uint64, error) {
	if r.LockedVotes < amount {
		return 0, ErrInsufficientVotesToUnlock
	}
	r.LockedVotes -= amount
	return r.LockedVotes, nil
}

// CollectRayRewards zeroes the uncollected RAY reward and returns it.
func (r *Reactor) CollectRayRewards() uint64 {
	amount := r.RayStakeRewards.UncollectedRayReward
	r.RayStakeRewards.UncollectedRayReward = 0
	return amount
}

func (r *Reactor) MarshalBinary() ([]byte, error) {
	return layout.NewWriter(Size).
		ID(r.Owner).
		Uint64(r.Ray).
		Uint64(r.LockedVotes).
		Uint64(r.IsoRay).
		Number(r.RayStakeRewards.LastSeenIndex).
		Uint64(r.RayStakeRewards.UncollectedRayReward).
		Number(r.LastSeenIndexIsoRay).
		Bytes(), nil
}

func (r *Reactor) UnmarshalBinary(data []byte) error {
	rd, err := layout.NewReader(data, Size)
	if err != nil {
		return errors.Wrap(err, "reactor")
	}
	r.Owner = rd.ID()
	r.Ray = rd.Uint64()
	r.LockedVotes = rd.Uint64()
	r.IsoRay = rd.Uint64()
	r.RayStakeRewards.LastSeenIndex = rd.Number()
	r.RayStakeRewards.UncollectedRayReward = rd.Uint64()
	r.LastSeenIndexIsoRay = rd.Number()
	return nil
}
