// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package engine runs every accrual operation as one all-or-nothing
// transaction over the records it names.
//
// Errors come in two tiers. Reverts (see reverts.IsRevertErr) are expected
// outcomes such as an insufficient balance. Anything else is fatal: an index
// or clock regression, or checked arithmetic overflowing. Both abort the
// transaction and leave the store untouched.
package engine

import (
	"sync"
	"time"

	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/log"
	"github.com/rayforge/accrual/metrics"
	"github.com/rayforge/accrual/reverts"
	"github.com/rayforge/accrual/store"
)

var logger = log.WithContext("pkg", "engine")

var (
	metricOperations = metrics.LazyLoadCounterVec("engine_operations_count", []string{"op", "outcome"})
	metricDuration   = metrics.LazyLoadHistogramVec("engine_operation_duration_ms", []string{"op"}, metrics.BucketOps)
)

// IsFatal reports whether err is an invariant violation rather than a revert.
func IsFatal(err error) bool {
	return err != nil && !reverts.IsRevertErr(err)
}

// Options configures an Engine.
type Options struct {
	// TimeTrackerMint identifies the reward stream of concentrated liquidity
	// positions that carries time units.
	TimeTrackerMint ident.ID
}

// Engine applies operations to a record store.
type Engine struct {
	store *store.Store
	opts  Options
	mu    sync.Mutex
}

// New creates an engine over s.
func New(s *store.Store, opts Options) *Engine {
	return &Engine{store: s, opts: opts}
}

// run executes fn in a transaction. Operations are serialized so that no two
// of them touch the same index concurrently. result, when not nil, is logged
// once the transaction commits.
func (e *Engine) run(op string, result any, fn func(tx *store.Tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	err := e.store.Update(fn)
	metricDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})

	outcome := "ok"
	switch {
	case err == nil:
		if result != nil {
			logger.Debug("committed", "op", op, "result", result)
		} else {
			logger.Debug("committed", "op", op)
		}
	case reverts.IsRevertErr(err):
		outcome = "revert"
		logger.Warn("reverted", "op", op, "reason", reverts.Reason(err))
	default:
		outcome = "fatal"
		logger.Error("aborted", "op", op, "err", err)
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
	return err
}
