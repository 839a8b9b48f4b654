// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/rewarder/builtin"
	"github.com/vechain/rewarder/builtin/reverts"
	"github.com/vechain/rewarder/builtin/rewards"
	"github.com/vechain/rewarder/builtin/rewards/source"
	"github.com/vechain/rewarder/cmd/rewarder/config"
	"github.com/vechain/rewarder/health"
	"github.com/vechain/rewarder/kv"
	"github.com/vechain/rewarder/ledger"
	"github.com/vechain/rewarder/oracle"
	"github.com/vechain/rewarder/state"
)

// engine binds the rewards contract to a store and the oracles built from config.
type engine struct {
	stater    *state.Stater
	emissions *oracle.Emissions
	static    *oracle.Static
	health    *health.Health
	ledger    *ledger.Ledger // optional history of replayed calls
	progress  bool
}

func newEngine(store kv.Store, cfg *config.Config) (*engine, error) {
	emissions, err := cfg.Emissions()
	if err != nil {
		return nil, err
	}
	static, err := cfg.Static()
	if err != nil {
		return nil, err
	}
	eng := &engine{
		stater:    state.NewStater(store),
		emissions: emissions,
		static:    static,
	}
	eng.health = health.New(func() error {
		return eng.view(func(r *rewards.Rewards) error {
			_, err := r.Sources()
			return err
		})
	})
	return eng, nil
}

func (e *engine) deps() rewards.Deps {
	return rewards.Deps{
		Balances: e.static,
		Emission: e.emissions,
		Boost:    e.static,
	}
}

// exec runs fn on a fresh state and commits its changes when it succeeds.
// Rejected inputs do not affect health, any other failure does.
func (e *engine) exec(fn func(r *rewards.Rewards) error) error {
	st := e.stater.NewState()
	err := fn(builtin.Rewards.WithState(st, e.deps()))
	if err == nil {
		err = st.Stage().Commit()
	}
	switch {
	case err == nil:
		e.health.Committed()
	case !reverts.IsRevertErr(err):
		e.health.Failed(err)
	}
	return err
}

// view runs fn on a fresh state and drops any change.
func (e *engine) view(fn func(r *rewards.Rewards) error) error {
	return fn(builtin.Rewards.WithState(e.stater.NewState(), e.deps()))
}

// apply brings the stored registry and params in line with cfg. Sources are
// never removed and modes only move forward, so applying twice is a no-op.
func (e *engine) apply(cfg *config.Config) error {
	return e.exec(func(r *rewards.Rewards) error {
		w, err := cfg.BoostWeightValue()
		if err != nil {
			return err
		}
		if w != nil {
			if err := r.SetBoostWeight(w); err != nil {
				return errors.WithMessage(err, "set boost weight")
			}
		}
		if cfg.MaxDayIterations > 0 {
			if err := r.SetMaxDayIterations(cfg.MaxDayIterations); err != nil {
				return errors.WithMessage(err, "set max day iterations")
			}
		}

		registered, err := r.Sources()
		if err != nil {
			return err
		}
		known := make(map[string]*source.Source, len(registered))
		for _, src := range registered {
			known[src.Name] = src
		}

		for _, src := range cfg.Sources {
			if err := applySource(r, &src, known[src.Name]); err != nil {
				return errors.WithMessagef(err, "source %q", src.Name)
			}
		}
		return nil
	})
}

func applySource(r *rewards.Rewards, src *config.Source, current *source.Source) error {
	mode, err := src.ModeValue()
	if err != nil {
		return err
	}
	contract, err := src.ContractAddress()
	if err != nil {
		return err
	}

	if current == nil {
		if err := r.Register(src.Name, contract, mode); err != nil {
			return err
		}
		logger.Info("source registered", "name", src.Name, "mode", mode)
	} else {
		if mode != current.Mode {
			if err := r.SetMode(src.Name, mode); err != nil {
				return err
			}
		}
		if !contract.IsZero() && contract != current.Contract {
			if err := r.SetContract(src.Name, contract); err != nil {
				return err
			}
		}
	}
	want, err := config.ParseAmount(src.DistPercent)
	if err != nil {
		return err
	}
	have := new(big.Int)
	if current != nil && current.DistPercent != nil {
		have = current.DistPercent
	}
	if have.Cmp(want) != 0 {
		return r.SetDistPercent(src.Name, want)
	}
	return nil
}
