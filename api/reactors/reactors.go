// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reactors

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rayforge/accrual/api/utils"
	"github.com/rayforge/accrual/engine"
)

type Reactors struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *Reactors {
	return &Reactors{e}
}

func (rs *Reactors) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	cfg, err := rs.engine.ReactorConfig()
	if err != nil {
		return utils.StoreError(err)
	}
	return utils.WriteJSON(w, cfg)
}

// Votes is a reactor's vote power breakdown.
type Votes struct {
	Power  uint64 `json:"power"`
	Locked uint64 `json:"locked"`
	Free   uint64 `json:"free"`
}

func (rs *Reactors) handleGetReactor(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.IDVar(req, "owner")
	if err != nil {
		return err
	}
	r, err := rs.engine.Reactor(owner)
	if err != nil {
		return utils.StoreError(err)
	}
	return utils.WriteJSON(w, r)
}

func (rs *Reactors) handleGetVotes(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.IDVar(req, "owner")
	if err != nil {
		return err
	}
	r, err := rs.engine.Reactor(owner)
	if err != nil {
		return utils.StoreError(err)
	}
	power, err := r.VotePower()
	if err != nil {
		return err
	}
	free, err := r.FreeVotes()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Votes{
		Power:  power,
		Locked: r.LockedVotes,
		Free:   free,
	})
}

func (rs *Reactors) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("reactors_get_config").
		HandlerFunc(utils.WrapHandlerFunc(rs.handleGetConfig))
	sub.Path("/{owner}").
		Methods(http.MethodGet).
		Name("reactors_get_reactor").
		HandlerFunc(utils.WrapHandlerFunc(rs.handleGetReactor))
	sub.Path("/{owner}/votes").
		Methods(http.MethodGet).
		Name("reactors_get_votes").
		HandlerFunc(utils.WrapHandlerFunc(rs.handleGetVotes))
}
