// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/rayforge/accrual/engine"
	"github.com/rayforge/accrual/gauge"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/reverts"
)

// Scenario is a list of timestamped operations. Pools, owners, positions and
// mints are labels mapped to ids with ident.Named.
type Scenario struct {
	Start uint64 `yaml:"start"`
	Steps []Step `yaml:"steps"`
}

// Step is one engine operation. Only the fields the operation reads are used.
type Step struct {
	At       uint64        `yaml:"at"`
	Op       string        `yaml:"op"`
	Pool     string        `yaml:"pool"`
	Owner    string        `yaml:"owner"`
	Amount   uint64        `yaml:"amount"`
	Votes    int64         `yaml:"votes"`
	Emission uint64        `yaml:"emission"`
	AprBps   uint16        `yaml:"apr-bps"`
	Position *PositionSpec `yaml:"position"`

	// Expect, when set, is the revert reason the step must fail with.
	Expect string `yaml:"expect"`
}

// PositionSpec describes a concentrated liquidity position snapshot.
type PositionSpec struct {
	ID      string       `yaml:"id"`
	Pool    string       `yaml:"pool"`
	Rewards []RewardSpec `yaml:"rewards"`
}

type RewardSpec struct {
	Mint       string `yaml:"mint"`
	AmountOwed uint64 `yaml:"amount-owed"`
}

func (p *PositionSpec) position() *gauge.CLPosition {
	pos := &gauge.CLPosition{
		ID:     ident.Named(p.ID),
		PoolID: ident.Named(p.Pool),
	}
	for _, r := range p.Rewards {
		pos.RewardInfos = append(pos.RewardInfos, gauge.RewardInfo{
			Mint:       ident.Named(r.Mint),
			AmountOwed: r.AmountOwed,
		})
	}
	return pos
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "parse scenario %s", path)
	}
	return &s, nil
}

// StepResult is the outcome of one step.
type StepResult struct {
	Index  int
	Step   Step
	Result any
	Err    error
}

// OK reports whether the step had the outcome the scenario expects.
func (r *StepResult) OK() bool {
	if r.Step.Expect == "" {
		return r.Err == nil
	}
	return reverts.Reason(r.Err) == r.Step.Expect
}

func (r *StepResult) String() string {
	var outcome string
	switch {
	case r.Err == nil:
		outcome = "ok"
		if r.Result != nil {
			data, _ := json.Marshal(r.Result)
			outcome += " " + string(data)
		}
	case reverts.IsRevertErr(r.Err):
		outcome = "revert: " + reverts.Reason(r.Err)
	default:
		outcome = "fatal: " + r.Err.Error()
	}
	if !r.OK() {
		outcome += " (unexpected)"
	}
	return fmt.Sprintf("#%-3d t=%-8d %-28s %s", r.Index, r.Step.At, r.Step.Op, outcome)
}

// ErrUnknownOp is returned for a step naming an operation that does not exist.
var ErrUnknownOp = errors.New("unknown operation")

func apply(e *engine.Engine, now uint64, s *Step) (any, error) {
	pool, owner := ident.Named(s.Pool), ident.Named(s.Owner)
	needPosition := func() (*gauge.CLPosition, error) {
		if s.Position == nil {
			return nil, errors.Errorf("%s: position required", s.Op)
		}
		return s.Position.position(), nil
	}

	switch s.Op {
	case "escrow.init":
		return nil, e.InitEscrow(now, pool)
	case "escrow.init_personal_position":
		return nil, e.InitPersonalPosition(now, pool, owner)
	case "escrow.deposit":
		return e.EscrowDeposit(now, pool, owner, s.Amount)
	case "escrow.withdraw":
		return nil, e.EscrowWithdraw(now, pool, owner, s.Amount)
	case "escrow.update_personal":
		return nil, e.EscrowUpdatePersonal(now, pool, owner)

	case "gauge.init_config":
		return nil, e.InitGaugeConfig(now, s.Emission)
	case "gauge.sync_config":
		return nil, e.SyncGaugeConfig(now)
	case "gauge.init_pool_gauge":
		return nil, e.InitPoolGauge(now, pool)
	case "gauge.init_personal_gauge":
		return nil, e.InitPersonalGauge(pool, owner)
	case "gauge.sync_pool_index":
		return nil, e.SyncPoolIndex(now, pool)
	case "gauge.change_votes":
		return e.ChangeVotes(now, pool, owner, s.Votes)

	case "rewarder.init_cp":
		return nil, e.InitRewarderCP(now, pool, owner)
	case "rewarder.accrue_cp":
		return e.AccrueCP(now, pool, owner)
	case "rewarder.collect_cp":
		return e.CollectCP(pool, owner)
	case "rewarder.init_cl":
		pos, err := needPosition()
		if err != nil {
			return nil, err
		}
		return nil, e.InitRewarderCL(now, pos)
	case "rewarder.accrue_cl":
		pos, err := needPosition()
		if err != nil {
			return nil, err
		}
		return e.AccrueCL(now, pos)
	case "rewarder.collect_cl":
		pos, err := needPosition()
		if err != nil {
			return nil, err
		}
		return e.CollectCL(pos.ID)

	case "reactor.init_config":
		return nil, e.InitReactorConfig(now, s.Emission, s.AprBps)
	case "reactor.sync_config":
		return nil, e.SyncReactorConfig(now)
	case "reactor.init":
		return nil, e.InitReactor(owner)
	case "reactor.deposit_ray":
		return e.ReactorDeposit(now, owner, s.Amount)
	case "reactor.withdraw_ray":
		return e.ReactorWithdraw(now, owner, s.Amount)
	case "reactor.lock_votes":
		return e.LockVotes(owner, s.Amount)
	case "reactor.unlock_votes":
		return e.UnlockVotes(owner, s.Amount)
	case "reactor.sync":
		return nil, e.SyncReactor(now, owner)
	case "reactor.sync_and_collect":
		return e.SyncAndCollect(now, owner)
	case "reactor.collect_ray_rewards":
		return e.CollectRayRewards(owner)

	case "engine.sync_indices":
		var pools []ident.ID
		if s.Pool != "" {
			pools = append(pools, pool)
		}
		return e.SyncIndices(now, pools)
	}
	return nil, errors.WithMessage(ErrUnknownOp, s.Op)
}

// Replay runs every step of s through e, each in its own transaction, and
// writes one line per step to w. It stops at the first fatal error or
// unexpected outcome.
func Replay(e *engine.Engine, s *Scenario, w io.Writer) ([]StepResult, error) {
	results := make([]StepResult, 0, len(s.Steps))
	for i := range s.Steps {
		step := s.Steps[i]
		res, err := apply(e, s.Start+step.At, &step)
		r := StepResult{Index: i, Step: step, Result: res, Err: err}
		results = append(results, r)
		fmt.Fprintln(w, r.String())

		if engine.IsFatal(err) {
			return results, errors.WithMessagef(err, "step %d (%s)", i, step.Op)
		}
		if !r.OK() {
			return results, errors.Errorf("step %d (%s): unexpected outcome", i, step.Op)
		}
	}
	return results, nil
}
