// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards implements the native `Rewards` contract: it settles reward
// sources on balance changes and claims, and keeps the registry of sources.
package rewards

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/rewarder/builtin/params"
	"github.com/vechain/rewarder/builtin/reverts"
	"github.com/vechain/rewarder/builtin/rewards/accumulator"
	"github.com/vechain/rewarder/builtin/rewards/source"
	"github.com/vechain/rewarder/builtin/rewards/working"
	"github.com/vechain/rewarder/builtin/solidity"
	"github.com/vechain/rewarder/log"
	"github.com/vechain/rewarder/oracle"
	"github.com/vechain/rewarder/state"
	"github.com/vechain/rewarder/thor"
)

var logger = log.WithContext("pkg", "rewards")

var slotHoldings = thor.BytesToBytes32([]byte("holdings"))

// Deps are the external collaborators of the contract.
type Deps struct {
	Balances oracle.BalanceOracle
	Emission oracle.EmissionSchedule
	Boost    oracle.BoostSource
}

// Rewards implements native methods of `Rewards` contract.
type Rewards struct {
	state  *state.State
	params *params.Params
	deps   Deps

	context  *solidity.Context
	registry *source.Registry
	holdings *solidity.Mapping[thor.Address, *big.Int]
}

// New create a new instance.
func New(addr thor.Address, state *state.State, params *params.Params, deps Deps) *Rewards {
	sctx := solidity.NewContext(addr, state, observeStorage)
	return &Rewards{
		state:    state,
		params:   params,
		deps:     deps,
		context:  sctx,
		registry: source.New(sctx),
		holdings: solidity.NewMapping[thor.Address, *big.Int](sctx, slotHoldings),
	}
}

// services of one source, bound to its namespace.
type services struct {
	source      *source.Source
	accumulator *accumulator.Service
	working     *working.Service
}

func (r *Rewards) open(name string) (*services, error) {
	src, err := r.registry.Get(name)
	if err != nil {
		return nil, err
	}
	maxDays, err := r.params.MaxDayIterations()
	if err != nil {
		return nil, err
	}
	sctx := r.context.WithAddress(src.Address())
	return &services{
		source:      src,
		accumulator: accumulator.New(sctx, src.Name, r.deps.Emission, maxDays),
		working:     working.New(sctx, src.Name),
	}, nil
}

//
// Getters - no state change
//

// Sources lists all registered sources.
func (r *Rewards) Sources() ([]*source.Source, error) {
	return r.registry.All()
}

// Source returns the registry entry of name.
func (r *Rewards) Source(name string) (*source.Source, error) {
	return r.registry.Get(name)
}

// Holdings returns the rewards credited to user and not yet claimed.
func (r *Rewards) Holdings(user thor.Address) (*big.Int, error) {
	return r.holdings.Get(user)
}

// BoostWeight returns the global boost weight W.
func (r *Rewards) BoostWeight() (*big.Int, error) {
	return r.params.BoostWeight()
}

// MaxDayIterations returns the day budget of a single weight advance.
func (r *Rewards) MaxDayIterations() (uint64, error) {
	return r.params.MaxDayIterations()
}

// SourceData is a view of a source at a given day.
type SourceData struct {
	Name          string
	Contract      thor.Address
	Mode          source.Mode
	Active        bool
	Day           uint64
	DistPercent   *big.Int
	TotalWeight   *big.Int
	LastUpdate    uint64
	WorkingSupply *big.Int // nil until migrated
	TotalValue    *big.Int
	TotalDist     *big.Int
}

// Data returns the view of source name at day. Emission is looked up without
// being cached.
func (r *Rewards) Data(name string, day uint64) (*SourceData, error) {
	s, err := r.open(name)
	if err != nil {
		return nil, err
	}
	data := &SourceData{
		Name:        s.source.Name,
		Contract:    s.source.Contract,
		Mode:        s.source.Mode,
		Active:      s.source.Active,
		Day:         s.source.Day,
		DistPercent: s.source.DistPercent,
	}
	if data.TotalWeight, err = s.accumulator.TotalWeight(); err != nil {
		return nil, err
	}
	if data.LastUpdate, err = s.accumulator.LastUpdate(); err != nil {
		return nil, err
	}
	supply, err := s.working.LookupSupply()
	if err != nil {
		return nil, err
	}
	data.WorkingSupply = supply.Value
	if data.TotalValue, err = r.registry.TotalValue(name, day); err != nil {
		return nil, err
	}
	if data.TotalDist, err = s.accumulator.TotalDist(day, true); err != nil {
		return nil, err
	}
	return data, nil
}

// UserData is the stored state of a user in one source.
type UserData struct {
	Weight         *big.Int
	WorkingBalance *big.Int // nil until migrated
}

// UserData returns what source name stores about user.
func (r *Rewards) UserData(name string, user thor.Address) (*UserData, error) {
	s, err := r.open(name)
	if err != nil {
		return nil, err
	}
	weight, err := s.accumulator.UserWeight(user)
	if err != nil {
		return nil, err
	}
	rec, err := s.working.Lookup(user)
	if err != nil {
		return nil, err
	}
	return &UserData{Weight: weight, WorkingBalance: rec.Value}, nil
}

// WorkingBalance returns the balance source name integrates user against,
// deriving it from the balance oracle when not yet migrated. Nothing is written.
func (r *Rewards) WorkingBalance(name string, user thor.Address) (*big.Int, error) {
	s, err := r.open(name)
	if err != nil {
		return nil, err
	}
	if s.source.Mode == source.ModeLegacy {
		raw, err := r.deps.Balances.BalanceAndSupply(name, user)
		if err != nil {
			return nil, err
		}
		return raw.Balance, nil
	}
	return s.working.BalanceFor(user, r.deps.Balances, true)
}

// WorkingSupply is the source level counterpart of WorkingBalance.
func (r *Rewards) WorkingSupply(name string) (*big.Int, error) {
	s, err := r.open(name)
	if err != nil {
		return nil, err
	}
	if s.source.Mode == source.ModeLegacy {
		raw, err := r.deps.Balances.BalanceAndSupply(name, thor.Address{})
		if err != nil {
			return nil, err
		}
		return raw.Supply, nil
	}
	return s.working.SupplyFor(thor.Address{}, r.deps.Balances, true)
}

//
// Governance
//

// Register adds a reward source.
func (r *Rewards) Register(name string, contract thor.Address, mode source.Mode) error {
	_, err := r.registry.Register(name, contract, mode)
	return err
}

// SetMode switches a source from legacy to boosted accounting. Users migrate
// lazily on their next settlement.
func (r *Rewards) SetMode(name string, mode source.Mode) error {
	return r.registry.SetMode(name, mode)
}

func (r *Rewards) SetDistPercent(name string, percent *big.Int) error {
	return r.registry.SetDistPercent(name, percent)
}

func (r *Rewards) SetContract(name string, contract thor.Address) error {
	return r.registry.SetContract(name, contract)
}

func (r *Rewards) Deactivate(name string) error {
	return r.registry.Deactivate(name)
}

// SetTotalDist overrides the emission of a source on day.
func (r *Rewards) SetTotalDist(name string, day uint64, dist *big.Int) error {
	s, err := r.open(name)
	if err != nil {
		return err
	}
	return s.accumulator.SetTotalDist(day, dist)
}

func (r *Rewards) SetBoostWeight(w *big.Int) error {
	return r.params.SetBoostWeight(w)
}

func (r *Rewards) SetMaxDayIterations(n uint64) error {
	return r.params.SetMaxDayIterations(n)
}

func requireAmount(what string, v *big.Int) error {
	if v == nil || v.Sign() < 0 {
		return reverts.Newf("%s %v must not be negative", what, v)
	}
	return nil
}

// outcome classifies a settlement error for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case reverts.IsRevertErr(err):
		return "revert"
	case oracle.IsUnavailable(err):
		return "unavailable"
	case errors.Is(err, accumulator.ErrDayBudgetExceeded):
		return "budget"
	default:
		return "error"
	}
}
