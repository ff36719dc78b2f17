// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrows

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rayforge/accrual/api/utils"
	"github.com/rayforge/accrual/engine"
)

type Escrows struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *Escrows {
	return &Escrows{e}
}

func (es *Escrows) handleGetTracker(w http.ResponseWriter, req *http.Request) error {
	pool, err := utils.IDVar(req, "pool")
	if err != nil {
		return err
	}
	t, err := es.engine.TimeTracker(pool)
	if err != nil {
		return utils.StoreError(err)
	}
	return utils.WriteJSON(w, t)
}

func (es *Escrows) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	pool, err := utils.IDVar(req, "pool")
	if err != nil {
		return err
	}
	owner, err := utils.IDVar(req, "owner")
	if err != nil {
		return err
	}
	p, err := es.engine.PersonalPosition(pool, owner)
	if err != nil {
		return utils.StoreError(err)
	}
	return utils.WriteJSON(w, p)
}

func (es *Escrows) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{pool}").
		Methods(http.MethodGet).
		Name("escrows_get_tracker").
		HandlerFunc(utils.WrapHandlerFunc(es.handleGetTracker))
	sub.Path("/{pool}/positions/{owner}").
		Methods(http.MethodGet).
		Name("escrows_get_position").
		HandlerFunc(utils.WrapHandlerFunc(es.handleGetPosition))
}
