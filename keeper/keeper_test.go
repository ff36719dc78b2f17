// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package keeper

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayforge/accrual/accrual"
	"github.com/rayforge/accrual/engine"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/lvldb"
	"github.com/rayforge/accrual/store"
)

var (
	alice = ident.Named("alice")
	poolA = ident.Named("pool-a")
	poolB = ident.Named("pool-b")
)

func newEngine(t *testing.T) *engine.Engine {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err := store.New(db, 16)
	require.NoError(t, err)
	return engine.New(s, engine.Options{})
}

func fixed(now uint64) Clock {
	return func() uint64 { return now }
}

func TestRunOnceBeforeInit(t *testing.T) {
	k := New(newEngine(t), nil, fixed(100))
	assert.NoError(t, k.RunOnce())
}

func TestRunOnce(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.InitGaugeConfig(0, 360))
	require.NoError(t, e.InitReactorConfig(0, 100, 0))
	require.NoError(t, e.InitPoolGauge(0, poolA))
	require.NoError(t, e.InitPoolGauge(0, poolB))
	require.NoError(t, e.InitReactor(alice))
	_, err := e.ReactorDeposit(0, alice, 100)
	require.NoError(t, err)
	require.NoError(t, e.InitPersonalGauge(poolA, alice))
	_, err = e.ChangeVotes(0, poolA, alice, 100)
	require.NoError(t, err)

	k := New(e, nil, fixed(accrual.SecondsPerDay))
	require.NoError(t, k.RunOnce())

	cfg, err := e.GaugeConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(accrual.SecondsPerDay), cfg.LastUpdatedTS)
	assert.Equal(t, "3.6", cfg.Index.String())

	ga, err := e.PoolGauge(poolA)
	require.NoError(t, err)
	assert.Equal(t, uint64(360), ga.TotalRayEmitted)
	gb, err := e.PoolGauge(poolB)
	require.NoError(t, err)
	assert.Equal(t, "3.6", gb.LastSeenGlobalIndex.String())
	assert.Zero(t, gb.TotalRayEmitted)

	rc, err := e.ReactorConfig()
	require.NoError(t, err)
	assert.Equal(t, "1", rc.RayRewardIndex.String())

	// a clock behind the stored state is reported
	k = New(e, []ident.ID{poolA}, fixed(10))
	err = k.RunOnce()
	assert.True(t, errors.Is(err, accrual.ErrTimestampRegression))
}

func TestStart(t *testing.T) {
	k := New(newEngine(t), nil, SystemClock)
	assert.Error(t, k.Start("not a schedule"))

	require.NoError(t, k.Start("@every 1h"))
	k.Stop()
}
