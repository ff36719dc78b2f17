// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package records

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/api/utils"
	"github.com/rayforge/accrual/engine"
	"github.com/rayforge/accrual/ident"
)

type Records struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *Records {
	return &Records{e}
}

func (rs *Records) handleGetKinds(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, engine.Kinds())
}

func (rs *Records) handleGetRecord(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	id, err := ident.Parse(vars["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	rec, err := rs.engine.Lookup(vars["kind"], id)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownKind) {
			return utils.NotFound(err)
		}
		return utils.StoreError(err)
	}
	return utils.WriteJSON(w, rec)
}

func (rs *Records) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("records_get_kinds").
		HandlerFunc(utils.WrapHandlerFunc(rs.handleGetKinds))
	sub.Path("/{kind}/{id}").
		Methods(http.MethodGet).
		Name("records_get_record").
		HandlerFunc(utils.WrapHandlerFunc(rs.handleGetRecord))
}
