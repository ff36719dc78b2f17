// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/rayforge/accrual/escrow"
	"github.com/rayforge/accrual/gauge"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/kv"
	"github.com/rayforge/accrual/reactor"
	"github.com/rayforge/accrual/store"
)

// Buckets share one keyspace, so every name has the same length.
const (
	TimeTrackerBucket   kv.Bucket = "tt"
	PositionBucket      kv.Bucket = "pp"
	GaugeConfigBucket   kv.Bucket = "gc"
	PoolGaugeBucket     kv.Bucket = "pg"
	PersonalGaugeBucket kv.Bucket = "ug"
	RewarderCPBucket    kv.Bucket = "rp"
	RewarderCLBucket    kv.Bucket = "rl"
	ReactorConfigBucket kv.Bucket = "rc"
	ReactorBucket       kv.Bucket = "ra"
)

// ErrUnknownKind is returned when looking up a record kind that does not exist.
var ErrUnknownKind = errors.New("unknown record kind")

type kind struct {
	bucket kv.Bucket
	new    func() store.Record
}

var kinds = map[string]kind{
	"time-tracker":   {TimeTrackerBucket, func() store.Record { return new(escrow.TimeTracker) }},
	"position":       {PositionBucket, func() store.Record { return new(escrow.PersonalPosition) }},
	"gauge-config":   {GaugeConfigBucket, func() store.Record { return new(gauge.Config) }},
	"pool-gauge":     {PoolGaugeBucket, func() store.Record { return new(gauge.Gauge) }},
	"personal-gauge": {PersonalGaugeBucket, func() store.Record { return new(gauge.PersonalGauge) }},
	"rewarder-cp":    {RewarderCPBucket, func() store.Record { return new(gauge.RewarderCP) }},
	"rewarder-cl":    {RewarderCLBucket, func() store.Record { return new(gauge.RewarderCL) }},
	"reactor-config": {ReactorConfigBucket, func() store.Record { return new(reactor.Config) }},
	"reactor":        {ReactorBucket, func() store.Record { return new(reactor.Reactor) }},
}

// Kinds lists the record kinds accepted by Lookup.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup loads the record of the given kind stored at id.
func (e *Engine) Lookup(kindName string, id ident.ID) (store.Record, error) {
	k, ok := kinds[kindName]
	if !ok {
		return nil, errors.WithMessage(ErrUnknownKind, kindName)
	}
	rec := k.new()
	if err := e.store.Get(k.bucket, id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// load decodes the record at id into a fresh T.
func load[T any, P interface {
	*T
	store.Record
}](tx *store.Tx, b kv.Bucket, id ident.ID) (P, error) {
	rec := P(new(T))
	if err := tx.Get(b, id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// read is load for the committed state.
func read[T any, P interface {
	*T
	store.Record
}](s *store.Store, b kv.Bucket, id ident.ID) (P, error) {
	rec := P(new(T))
	if err := s.Get(b, id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// TimeTracker returns the tracker of pool.
func (e *Engine) TimeTracker(pool ident.ID) (*escrow.TimeTracker, error) {
	return read[escrow.TimeTracker](e.store, TimeTrackerBucket, escrow.TimeTrackerID(pool))
}

// PersonalPosition returns owner's escrow position in pool.
func (e *Engine) PersonalPosition(pool, owner ident.ID) (*escrow.PersonalPosition, error) {
	id := escrow.PersonalPositionID(escrow.TimeTrackerID(pool), owner)
	return read[escrow.PersonalPosition](e.store, PositionBucket, id)
}

// GaugeConfig returns the global emission state.
func (e *Engine) GaugeConfig() (*gauge.Config, error) {
	return read[gauge.Config](e.store, GaugeConfigBucket, gauge.ConfigID)
}

// PoolGauge returns the gauge of pool.
func (e *Engine) PoolGauge(pool ident.ID) (*gauge.Gauge, error) {
	return read[gauge.Gauge](e.store, PoolGaugeBucket, gauge.GaugeID(pool))
}

// PersonalGauge returns owner's votes on pool.
func (e *Engine) PersonalGauge(pool, owner ident.ID) (*gauge.PersonalGauge, error) {
	id := gauge.PersonalGaugeID(gauge.GaugeID(pool), owner)
	return read[gauge.PersonalGauge](e.store, PersonalGaugeBucket, id)
}

// RewarderCP returns owner's constant product rewarder on pool.
func (e *Engine) RewarderCP(pool, owner ident.ID) (*gauge.RewarderCP, error) {
	id := gauge.RewarderCPID(gauge.GaugeID(pool), owner)
	return read[gauge.RewarderCP](e.store, RewarderCPBucket, id)
}

// RewarderCL returns the rewarder of a concentrated liquidity position.
func (e *Engine) RewarderCL(position ident.ID) (*gauge.RewarderCL, error) {
	return read[gauge.RewarderCL](e.store, RewarderCLBucket, gauge.RewarderCLID(position))
}

// ReactorConfig returns the global reactor state.
func (e *Engine) ReactorConfig() (*reactor.Config, error) {
	return read[reactor.Config](e.store, ReactorConfigBucket, reactor.ConfigID)
}

// Reactor returns owner's stake account.
func (e *Engine) Reactor(owner ident.ID) (*reactor.Reactor, error) {
	return read[reactor.Reactor](e.store, ReactorBucket, reactor.ID(owner))
}

// PoolGauges returns every stored pool gauge.
func (e *Engine) PoolGauges() ([]*gauge.Gauge, error) {
	var (
		gauges []*gauge.Gauge
		decErr error
	)
	err := e.store.Iterate(PoolGaugeBucket, func(_ ident.ID, data []byte) bool {
		g := new(gauge.Gauge)
		if decErr = g.UnmarshalBinary(data); decErr != nil {
			return false
		}
		gauges = append(gauges, g)
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "iterate pool gauges")
	}
	if decErr != nil {
		return nil, decErr
	}
	return gauges, nil
}
