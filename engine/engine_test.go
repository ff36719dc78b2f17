// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayforge/accrual/accrual"
	"github.com/rayforge/accrual/escrow"
	"github.com/rayforge/accrual/gauge"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/lvldb"
	"github.com/rayforge/accrual/number"
	"github.com/rayforge/accrual/reactor"
	"github.com/rayforge/accrual/reverts"
	"github.com/rayforge/accrual/store"
)

var (
	alice  = ident.Named("alice")
	bob    = ident.Named("bob")
	poolA  = ident.Named("pool-a")
	poolB  = ident.Named("pool-b")
	ttMint = ident.Named("time-tracker-mint")
)

const (
	sixHours = 6 * 3600
	halfDay  = 12 * 3600
	year     = accrual.SecondsPerYear
)

func newEngine(t *testing.T) *Engine {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := store.New(db, 64)
	require.NoError(t, err)
	return New(s, Options{TimeTrackerMint: ttMint})
}

// stake gives owner amount RAY of free votes at t=0.
func stake(t *testing.T, e *Engine, owner ident.ID, amount uint64) {
	require.NoError(t, e.InitReactor(owner))
	_, err := e.ReactorDeposit(0, owner, amount)
	require.NoError(t, err)
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(reactor.ErrInsufficientRayBalance))
	assert.False(t, IsFatal(errors.WithMessage(store.ErrNotFound, "reactor")))
	assert.True(t, IsFatal(accrual.ErrTimestampRegression))
	assert.True(t, IsFatal(errors.Wrap(accrual.ErrUnderflow, "total")))
}

func TestEscrow(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.InitEscrow(0, poolA))
	require.NoError(t, e.InitPersonalPosition(0, poolA, alice))
	require.NoError(t, e.InitPersonalPosition(0, poolA, bob))

	amount, err := e.EscrowDeposit(0, poolA, alice, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), amount)

	// alice alone for 100s, then shared 50/50 for 50s
	amount, err = e.EscrowDeposit(100, poolA, bob, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), amount)

	require.NoError(t, e.EscrowUpdatePersonal(150, poolA, alice))
	require.NoError(t, e.EscrowUpdatePersonal(150, poolA, bob))

	tracker, err := e.TimeTracker(poolA)
	require.NoError(t, err)
	assert.Equal(t, "1.25", tracker.Index.String())
	assert.Equal(t, uint64(200), tracker.TotalLPDeposited)
	assert.Equal(t, escrow.EscrowID(poolA), tracker.Escrow)

	pa, err := e.PersonalPosition(poolA, alice)
	require.NoError(t, err)
	assert.Equal(t, "125", pa.EarnedTimeUnits.String())
	pb, err := e.PersonalPosition(poolA, bob)
	require.NoError(t, err)
	assert.Equal(t, "25", pb.EarnedTimeUnits.String())

	require.NoError(t, e.EscrowWithdraw(150, poolA, alice, 40))
	pa, err = e.PersonalPosition(poolA, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), pa.Amount)
}

func TestEscrowFatalRollsBack(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.InitEscrow(0, poolA))
	require.NoError(t, e.InitPersonalPosition(0, poolA, alice))
	_, err := e.EscrowDeposit(0, poolA, alice, 100)
	require.NoError(t, err)

	err = e.EscrowWithdraw(50, poolA, alice, 500)
	assert.True(t, IsFatal(err))
	assert.True(t, errors.Is(err, accrual.ErrUnderflow))

	tracker, err := e.TimeTracker(poolA)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tracker.LastSeenTS)
	assert.True(t, tracker.Index.IsZero())
	assert.Equal(t, uint64(100), tracker.TotalLPDeposited)

	_, err = e.EscrowDeposit(100, poolA, alice, 1)
	require.NoError(t, err)
	_, err = e.EscrowDeposit(99, poolA, alice, 1)
	assert.True(t, errors.Is(err, accrual.ErrTimestampRegression))
}

func TestInitAndLookupErrors(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.InitEscrow(0, poolA))

	err := e.InitEscrow(0, poolA)
	assert.True(t, errors.Is(err, store.ErrExists))
	assert.False(t, IsFatal(err))

	err = e.InitPersonalPosition(0, poolB, alice)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	err = e.InitPoolGauge(0, poolA)
	assert.True(t, errors.Is(err, store.ErrNotFound), "needs the gauge config")

	_, err = e.Lookup("nothing", poolA)
	assert.True(t, errors.Is(err, ErrUnknownKind))

	rec, err := e.Lookup("time-tracker", escrow.TimeTrackerID(poolA))
	require.NoError(t, err)
	assert.Equal(t, poolA, rec.(*escrow.TimeTracker).PoolID)
	assert.Contains(t, Kinds(), "reactor")
	assert.Len(t, Kinds(), 9)
}

func setupGauges(t *testing.T, e *Engine, pools ...ident.ID) {
	require.NoError(t, e.InitGaugeConfig(0, 360))
	require.NoError(t, e.InitReactorConfig(0, 0, 0))
	for _, pool := range pools {
		require.NoError(t, e.InitPoolGauge(0, pool))
	}
}

func TestEmissionSplit(t *testing.T) {
	e := newEngine(t)
	setupGauges(t, e, poolA, poolB)
	stake(t, e, alice, 300)
	require.NoError(t, e.InitPersonalGauge(poolA, alice))
	require.NoError(t, e.InitPersonalGauge(poolB, alice))

	res, err := e.ChangeVotes(0, poolA, alice, 100)
	require.NoError(t, err)
	assert.Equal(t, gauge.VotesChanged{Amount: 100, Personal: 100, Pool: 100, Global: 100}, res)
	res, err = e.ChangeVotes(0, poolB, alice, 200)
	require.NoError(t, err)
	assert.Equal(t, gauge.VotesChanged{Amount: 200, Personal: 200, Pool: 200, Global: 300}, res)

	require.NoError(t, e.SyncPoolIndex(halfDay, poolA))
	require.NoError(t, e.SyncPoolIndex(halfDay, poolB))

	cfg, err := e.GaugeConfig()
	require.NoError(t, err)
	assert.Equal(t, "0.6", cfg.Index.String())

	ga, err := e.PoolGauge(poolA)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), ga.TotalRayEmitted)
	gb, err := e.PoolGauge(poolB)
	require.NoError(t, err)
	assert.Equal(t, uint64(120), gb.TotalRayEmitted)

	gauges, err := e.PoolGauges()
	require.NoError(t, err)
	assert.Len(t, gauges, 2)
}

func TestChangeVotesGates(t *testing.T) {
	e := newEngine(t)
	setupGauges(t, e, poolA)
	stake(t, e, alice, 100)
	require.NoError(t, e.InitPersonalGauge(poolA, alice))

	_, err := e.ChangeVotes(0, poolA, alice, 100)
	require.NoError(t, err)

	_, err = e.ChangeVotes(10, poolA, alice, 1)
	assert.Equal(t, gauge.ErrInsufficientRayToPledge, err)
	_, err = e.ChangeVotes(10, poolA, alice, -101)
	assert.Equal(t, gauge.ErrInsufficientRayToUnpledge, err)

	// reverted attempts leave the clocks where they were
	cfg, err := e.GaugeConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cfg.LastUpdatedTS)

	r, err := e.Reactor(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), r.LockedVotes)

	res, err := e.ChangeVotes(10, poolA, alice, -100)
	require.NoError(t, err)
	assert.Equal(t, gauge.VotesChanged{Amount: -100, Personal: 0, Pool: 0, Global: 0}, res)

	r, err = e.Reactor(alice)
	require.NoError(t, err)
	assert.Zero(t, r.LockedVotes)

	err = e.InitPersonalGauge(poolB, alice)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestConstantProductRewards(t *testing.T) {
	e := newEngine(t)
	setupGauges(t, e, poolA)
	stake(t, e, alice, 100)
	require.NoError(t, e.InitPersonalGauge(poolA, alice))
	_, err := e.ChangeVotes(0, poolA, alice, 100)
	require.NoError(t, err)

	require.NoError(t, e.InitEscrow(0, poolA))
	require.NoError(t, e.InitPersonalPosition(0, poolA, alice))
	_, err = e.EscrowDeposit(0, poolA, alice, 100)
	require.NoError(t, err)
	require.NoError(t, e.InitRewarderCP(0, poolA, alice))

	// 90 RAY over 6h at a truncated per-second rate
	res, err := e.AccrueCP(sixHours, poolA, alice)
	require.NoError(t, err)
	assert.Equal(t, StagedRay{Staged: 89, Total: 89}, res)

	pos, err := e.PersonalPosition(poolA, alice)
	require.NoError(t, err)
	assert.Equal(t, "21600", pos.EarnedTimeUnits.String())

	amount, err := e.CollectCP(poolA, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(89), amount)
	amount, err = e.CollectCP(poolA, alice)
	require.NoError(t, err)
	assert.Zero(t, amount)

	_, err = e.AccrueCP(sixHours, poolA, bob)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestConcentratedRewards(t *testing.T) {
	e := newEngine(t)
	setupGauges(t, e, poolA)
	stake(t, e, alice, 100)
	require.NoError(t, e.InitPersonalGauge(poolA, alice))
	_, err := e.ChangeVotes(0, poolA, alice, 100)
	require.NoError(t, err)

	pos := &gauge.CLPosition{
		ID:     ident.Named("position-1"),
		PoolID: poolA,
		RewardInfos: []gauge.RewardInfo{
			{Mint: ident.Named("other"), AmountOwed: 7},
			{Mint: ttMint},
		},
	}
	require.NoError(t, e.InitRewarderCL(0, pos))

	pos.RewardInfos[1].AmountOwed = 21600
	res, err := e.AccrueCL(sixHours, pos)
	require.NoError(t, err)
	assert.Equal(t, StagedRay{Staged: 89, Total: 89}, res)

	rw, err := e.RewarderCL(pos.ID)
	require.NoError(t, err)
	assert.Equal(t, poolA, rw.Pool)
	assert.Equal(t, uint64(90), rw.Rewarder.LastSeenTotalEmittedRay)

	amount, err := e.CollectCL(pos.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(89), amount)

	moved := *pos
	moved.PoolID = poolB
	_, err = e.AccrueCL(halfDay, &moved)
	assert.Equal(t, gauge.ErrPositionPoolMismatch, err)
	rw, err = e.RewarderCL(pos.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(sixHours), rw.Rewarder.LastUpdatedTS)

	missing := &gauge.CLPosition{ID: ident.Named("position-2"), PoolID: poolA}
	err = e.InitRewarderCL(sixHours, missing)
	assert.Equal(t, gauge.ErrTimeTrackerRewardNotFound, err)
}

func TestReactorLockAndWithdraw(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.InitReactorConfig(0, 0, 10000))
	require.NoError(t, e.InitReactor(alice))

	dep, err := e.ReactorDeposit(0, alice, 100)
	require.NoError(t, err)
	assert.Equal(t, reactor.RayDeposited{Amount: 100, NewGlobalAmount: 100, NewReactorAmount: 100}, dep)

	// a full year at 100% mints isoRAY one for one
	require.NoError(t, e.SyncReactor(year, alice))
	r, err := e.Reactor(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), r.IsoRay)

	locked, err := e.LockVotes(alice, 150)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), locked)
	_, err = e.LockVotes(alice, 100)
	assert.Equal(t, reactor.ErrInsufficientVotesToLock, err)

	_, err = e.ReactorWithdraw(year, alice, 50)
	assert.Equal(t, reactor.ErrInsufficientVotesToWithdraw, err)

	locked, err = e.UnlockVotes(alice, 150)
	require.NoError(t, err)
	assert.Zero(t, locked)
	_, err = e.UnlockVotes(alice, 1)
	assert.Equal(t, reactor.ErrInsufficientVotesToUnlock, err)

	wd, err := e.ReactorWithdraw(year, alice, 50)
	require.NoError(t, err)
	assert.Equal(t, reactor.RayWithdrawn{Amount: 50, IsoRaySlashed: 50}, wd)

	_, err = e.ReactorWithdraw(year, alice, 51)
	assert.Equal(t, reactor.ErrInsufficientRayBalance, err)

	cfg, err := e.ReactorConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(50), cfg.TotalRayDeposited)

	// the config moves on without the reactor
	require.NoError(t, e.SyncReactorConfig(2*year))
	_, err = e.LockVotes(alice, 1)
	assert.Equal(t, reactor.ErrIsoRayNotUpToDate, err)

	require.NoError(t, e.SyncReactor(2*year, alice))
	locked, err = e.LockVotes(alice, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), locked)

	r, err = e.Reactor(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), r.IsoRay)
}

func TestReactorRewards(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.InitReactorConfig(0, 100, 0))
	stake(t, e, alice, 100)
	stake(t, e, bob, 300)

	// bob's deposit at t=0 joins before any reward is emitted
	amount, err := e.SyncAndCollect(accrual.SecondsPerDay, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), amount)

	amount, err = e.CollectRayRewards(alice)
	require.NoError(t, err)
	assert.Zero(t, amount)

	require.NoError(t, e.SyncReactor(accrual.SecondsPerDay, bob))
	amount, err = e.CollectRayRewards(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(75), amount)

	err = e.InitReactor(alice)
	assert.True(t, reverts.IsRevertErr(err))
}

func TestSyncIndices(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.InitGaugeConfig(0, 360))
	require.NoError(t, e.InitPoolGauge(0, poolA))

	// no reactor config and no gauge for pool-b yet
	res, err := e.SyncIndices(halfDay, []ident.ID{poolA, poolB})
	require.NoError(t, err)
	assert.Equal(t, IndicesSynced{Synced: 2, Skipped: 2}, res)

	cfg, err := e.GaugeConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(halfDay), cfg.LastUpdatedTS)

	// a fatal step discards the steps already applied
	require.NoError(t, e.InitReactorConfig(year, 0, 0))
	_, err = e.SyncIndices(year-1, nil)
	assert.True(t, errors.Is(err, accrual.ErrTimestampRegression))

	cfg, err = e.GaugeConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(halfDay), cfg.LastUpdatedTS)

	res, err = e.SyncIndices(year, nil)
	require.NoError(t, err)
	assert.Equal(t, IndicesSynced{Synced: 3}, res)
}

type indexSnapshot struct {
	indices []number.Number
	clocks  []uint64
	emitted []uint64
}

func snapshotIndices(t *testing.T, e *Engine) indexSnapshot {
	var s indexSnapshot

	cfg, err := e.GaugeConfig()
	require.NoError(t, err)
	rc, err := e.ReactorConfig()
	require.NoError(t, err)
	s.indices = append(s.indices, cfg.Index, rc.RayRewardIndex, rc.IsoRayIndex)
	s.clocks = append(s.clocks, cfg.LastUpdatedTS, rc.RewardsEmittedUntil)

	for _, pool := range []ident.ID{poolA, poolB} {
		tracker, err := e.TimeTracker(pool)
		require.NoError(t, err)
		g, err := e.PoolGauge(pool)
		require.NoError(t, err)
		s.indices = append(s.indices, tracker.Index, g.LastSeenGlobalIndex)
		s.clocks = append(s.clocks, tracker.LastSeenTS)
		s.emitted = append(s.emitted, g.TotalRayEmitted)

		for _, owner := range []ident.ID{alice, bob} {
			pos, err := e.PersonalPosition(pool, owner)
			require.NoError(t, err)
			s.indices = append(s.indices, pos.LastSeenIndex, pos.EarnedTimeUnits)
		}
	}
	for _, owner := range []ident.ID{alice, bob} {
		r, err := e.Reactor(owner)
		require.NoError(t, err)
		s.indices = append(s.indices, r.LastSeenIndexIsoRay, r.RayStakeRewards.LastSeenIndex)
	}
	return s
}

func TestIndicesNeverDecrease(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.InitGaugeConfig(0, 360))
	require.NoError(t, e.InitReactorConfig(0, 100, 5000))
	for _, pool := range []ident.ID{poolA, poolB} {
		require.NoError(t, e.InitPoolGauge(0, pool))
		require.NoError(t, e.InitEscrow(0, pool))
	}
	for _, owner := range []ident.ID{alice, bob} {
		stake(t, e, owner, 300)
		for _, pool := range []ident.ID{poolA, poolB} {
			require.NoError(t, e.InitPersonalGauge(pool, owner))
			require.NoError(t, e.InitPersonalPosition(0, pool, owner))
		}
	}

	const day = accrual.SecondsPerDay
	steps := []struct {
		name string
		at   uint64
		op   func(now uint64) error
	}{
		{"alice deposits lp", 0, func(now uint64) error {
			_, err := e.EscrowDeposit(now, poolA, alice, 100)
			return err
		}},
		{"alice votes pool-a", 0, func(now uint64) error {
			_, err := e.ChangeVotes(now, poolA, alice, 100)
			return err
		}},
		{"bob deposits lp", 3600, func(now uint64) error {
			_, err := e.EscrowDeposit(now, poolA, bob, 50)
			return err
		}},
		{"bob votes pool-b", 7200, func(now uint64) error {
			_, err := e.ChangeVotes(now, poolB, bob, 50)
			return err
		}},
		{"alice withdraws ray", halfDay, func(now uint64) error {
			_, err := e.ReactorWithdraw(now, alice, 10)
			return err
		}},
		{"alice unvotes", halfDay + 1, func(now uint64) error {
			_, err := e.ChangeVotes(now, poolA, alice, -50)
			return err
		}},
		{"refresh", day, func(now uint64) error {
			_, err := e.SyncIndices(now, nil)
			return err
		}},
		{"alice updates", day, func(now uint64) error {
			return e.EscrowUpdatePersonal(now, poolA, alice)
		}},
		{"alice withdraws lp", day + 60, func(now uint64) error {
			return e.EscrowWithdraw(now, poolA, alice, 40)
		}},
		{"bob deposits ray", 2 * day, func(now uint64) error {
			_, err := e.ReactorDeposit(now, bob, 10)
			return err
		}},
		{"alice collects", 2 * day, func(now uint64) error {
			_, err := e.SyncAndCollect(now, alice)
			return err
		}},
		{"bob updates", 3 * day, func(now uint64) error {
			return e.EscrowUpdatePersonal(now, poolA, bob)
		}},
	}

	prev := snapshotIndices(t, e)
	for _, step := range steps {
		require.NoError(t, step.op(step.at), step.name)
		cur := snapshotIndices(t, e)
		for i := range cur.indices {
			assert.True(t, cur.indices[i].Gte(prev.indices[i]), "%s: index %d went from %v to %v", step.name, i, prev.indices[i], cur.indices[i])
		}
		for i := range cur.clocks {
			assert.GreaterOrEqual(t, cur.clocks[i], prev.clocks[i], "%s: clock %d", step.name, i)
		}
		for i := range cur.emitted {
			assert.GreaterOrEqual(t, cur.emitted[i], prev.emitted[i], "%s: emitted %d", step.name, i)
		}
		prev = cur
	}

	ga, err := e.PoolGauge(poolA)
	require.NoError(t, err)
	assert.NotZero(t, ga.TotalRayEmitted)
}
