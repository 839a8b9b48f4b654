// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewarder/api/utils"
	"github.com/vechain/rewarder/builtin"
	"github.com/vechain/rewarder/builtin/reverts"
	"github.com/vechain/rewarder/builtin/rewards"
	"github.com/vechain/rewarder/state"
	"github.com/vechain/rewarder/thor"
)

// Rewards serves read-only views of the rewards contract. Every request runs
// on its own state which is never committed.
type Rewards struct {
	stater *state.Stater
	deps   rewards.Deps
	clock  func() uint64
}

func New(stater *state.Stater, deps rewards.Deps, clock func() uint64) *Rewards {
	return &Rewards{
		stater,
		deps,
		clock,
	}
}

func (r *Rewards) contract() *rewards.Rewards {
	return builtin.Rewards.WithState(r.stater.NewState(), r.deps)
}

// sourceError maps an unknown source to 404.
func sourceError(err error) error {
	if reverts.IsRevertErr(err) {
		return utils.NotFound(err)
	}
	return err
}

func (r *Rewards) handleGetSources(w http.ResponseWriter, _ *http.Request) error {
	sources, err := r.contract().Sources()
	if err != nil {
		return err
	}
	result := make([]Source, 0, len(sources))
	for _, src := range sources {
		result = append(result, convertSource(src))
	}
	return utils.WriteJSON(w, result)
}

func (r *Rewards) handleGetSource(w http.ResponseWriter, req *http.Request) error {
	day, err := utils.ParseDay(req.URL.Query().Get("day"), r.clock())
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "day"))
	}
	data, err := r.contract().Data(mux.Vars(req)["name"], day)
	if err != nil {
		return sourceError(err)
	}
	return utils.WriteJSON(w, convertSourceData(data, day))
}

func (r *Rewards) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	name := mux.Vars(req)["name"]
	user, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	c := r.contract()
	data, err := c.UserData(name, user)
	if err != nil {
		return sourceError(err)
	}
	balance, err := c.WorkingBalance(name, user)
	if err != nil {
		return err
	}
	supply, err := c.WorkingSupply(name)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &UserData{
		Source:           name,
		User:             user,
		Weight:           hexOrDecimal(data.Weight),
		WorkingBalance:   hexOrDecimal(data.WorkingBalance),
		EffectiveBalance: hexOrDecimal(balance),
		EffectiveSupply:  hexOrDecimal(supply),
	})
}

func (r *Rewards) handleGetPending(w http.ResponseWriter, req *http.Request) error {
	user, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	ts, err := utils.ParseTimestamp(req.URL.Query().Get("at"), r.clock())
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "at"))
	}
	pending, err := r.contract().Pending(user, ts)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPending(user, ts, pending))
}

func (r *Rewards) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	c := r.contract()
	w8, err := c.BoostWeight()
	if err != nil {
		return err
	}
	maxDays, err := c.MaxDayIterations()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Params{
		BoostWeight:      hexOrDecimal(w8),
		MaxDayIterations: maxDays,
	})
}

func (r *Rewards) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/sources").
		Methods(http.MethodGet).
		Name("GET /rewards/sources").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetSources))
	sub.Path("/sources/{name}").
		Methods(http.MethodGet).
		Name("GET /rewards/sources/{name}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetSource))
	sub.Path("/sources/{name}/users/{address}").
		Methods(http.MethodGet).
		Name("GET /rewards/sources/{name}/users/{address}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetUser))
	sub.Path("/pending/{address}").
		Methods(http.MethodGet).
		Name("GET /rewards/pending/{address}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetPending))
	sub.Path("/params").
		Methods(http.MethodGet).
		Name("GET /rewards/params").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetParams))
}
