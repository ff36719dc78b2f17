// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauges

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rayforge/accrual/api/utils"
	"github.com/rayforge/accrual/engine"
	"github.com/rayforge/accrual/gauge"
)

type Gauges struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *Gauges {
	return &Gauges{e}
}

func (gs *Gauges) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	cfg, err := gs.engine.GaugeConfig()
	if err != nil {
		return utils.StoreError(err)
	}
	return utils.WriteJSON(w, cfg)
}

func (gs *Gauges) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	gauges, err := gs.engine.PoolGauges()
	if err != nil {
		return err
	}
	if gauges == nil {
		gauges = []*gauge.Gauge{}
	}
	return utils.WriteJSON(w, gauges)
}

func (gs *Gauges) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	pool, err := utils.IDVar(req, "pool")
	if err != nil {
		return err
	}
	g, err := gs.engine.PoolGauge(pool)
	if err != nil {
		return utils.StoreError(err)
	}
	return utils.WriteJSON(w, g)
}

func (gs *Gauges) handleGetVoter(w http.ResponseWriter, req *http.Request) error {
	pool, err := utils.IDVar(req, "pool")
	if err != nil {
		return err
	}
	owner, err := utils.IDVar(req, "owner")
	if err != nil {
		return err
	}
	p, err := gs.engine.PersonalGauge(pool, owner)
	if err != nil {
		return utils.StoreError(err)
	}
	return utils.WriteJSON(w, p)
}

func (gs *Gauges) handleGetRewarderCP(w http.ResponseWriter, req *http.Request) error {
	pool, err := utils.IDVar(req, "pool")
	if err != nil {
		return err
	}
	owner, err := utils.IDVar(req, "owner")
	if err != nil {
		return err
	}
	rw, err := gs.engine.RewarderCP(pool, owner)
	if err != nil {
		return utils.StoreError(err)
	}
	return utils.WriteJSON(w, rw)
}

func (gs *Gauges) handleGetRewarderCL(w http.ResponseWriter, req *http.Request) error {
	position, err := utils.IDVar(req, "position")
	if err != nil {
		return err
	}
	rw, err := gs.engine.RewarderCL(position)
	if err != nil {
		return utils.StoreError(err)
	}
	return utils.WriteJSON(w, rw)
}

func (gs *Gauges) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("gauges_get_config").
		HandlerFunc(utils.WrapHandlerFunc(gs.handleGetConfig))
	sub.Path("/pools").
		Methods(http.MethodGet).
		Name("gauges_get_pools").
		HandlerFunc(utils.WrapHandlerFunc(gs.handleGetPools))
	sub.Path("/pools/{pool}").
		Methods(http.MethodGet).
		Name("gauges_get_pool").
		HandlerFunc(utils.WrapHandlerFunc(gs.handleGetPool))
	sub.Path("/pools/{pool}/voters/{owner}").
		Methods(http.MethodGet).
		Name("gauges_get_voter").
		HandlerFunc(utils.WrapHandlerFunc(gs.handleGetVoter))
	sub.Path("/pools/{pool}/rewarders/{owner}").
		Methods(http.MethodGet).
		Name("gauges_get_rewarder_cp").
		HandlerFunc(utils.WrapHandlerFunc(gs.handleGetRewarderCP))
	sub.Path("/positions/{position}").
		Methods(http.MethodGet).
		Name("gauges_get_rewarder_cl").
		HandlerFunc(utils.WrapHandlerFunc(gs.handleGetRewarderCL))
}
