// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package working translates raw balances into boost adjusted working
// balances, migrating each (source, user) from raw accounting on first touch.
package working

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/rewarder/builtin/reverts"
	"github.com/vechain/rewarder/builtin/solidity"
	"github.com/vechain/rewarder/oracle"
	"github.com/vechain/rewarder/thor"
)

var (
	slotBalances = thor.BytesToBytes32([]byte("working-balances"))
	slotSupply   = thor.BytesToBytes32([]byte("working-supply"))
)

// Record is a stored working value. Migrated is false until the value has
// been materialized from raw accounting, in which case Value is nil.
type Record struct {
	Value    *big.Int
	Migrated bool
}

// Inputs of a working balance recomputation.
type Inputs struct {
	RawBalance     *big.Int
	RawSupply      *big.Int
	BoostedBalance *big.Int
	BoostedSupply  *big.Int

	PrevWorkingBalance *big.Int
	PrevWorkingSupply  *big.Int
}

// Service owns the working balances and supply of one source.
type Service struct {
	name     string
	balances *solidity.Mapping[thor.Address, *big.Int]
	supply   *solidity.Value[*big.Int]
}

// New binds the translator of source name to sctx, which must address the
// source's own namespace.
func New(sctx *solidity.Context, name string) *Service {
	return &Service{
		name:     name,
		balances: solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		supply:   solidity.NewValue[*big.Int](sctx, slotSupply),
	}
}

// Lookup returns the working balance record of user.
func (s *Service) Lookup(user thor.Address) (Record, error) {
	v, ok, err := s.balances.Lookup(user)
	if err != nil || !ok {
		return Record{}, err
	}
	return Record{Value: v, Migrated: true}, nil
}

// LookupSupply returns the working supply record.
func (s *Service) LookupSupply() (Record, error) {
	v, ok, err := s.supply.Lookup()
	if err != nil || !ok {
		return Record{}, err
	}
	return Record{Value: v, Migrated: true}, nil
}

// Materialize migrates the working balance of user from its raw balance.
// It is a one-time transition.
func (s *Service) Materialize(user thor.Address, raw *big.Int) error {
	rec, err := s.Lookup(user)
	if err != nil {
		return err
	}
	if rec.Migrated {
		return errors.Errorf("working balance of %v in %q already migrated", user, s.name)
	}
	if err := requireNonNegative("raw balance", raw); err != nil {
		return err
	}
	return s.balances.Set(user, raw)
}

// MaterializeSupply migrates the working supply from the raw supply.
// It is a one-time transition.
func (s *Service) MaterializeSupply(raw *big.Int) error {
	rec, err := s.LookupSupply()
	if err != nil {
		return err
	}
	if rec.Migrated {
		return errors.Errorf("working supply of %q already migrated", s.name)
	}
	if err := requireNonNegative("raw supply", raw); err != nil {
		return err
	}
	return s.supply.Set(raw)
}

// Current returns the working balance of user and the working supply. Values
// not yet migrated are derived from the balance oracle, which is consulted at
// most once, and materialized unless readOnly. Oracle failures are fatal.
func (s *Service) Current(user thor.Address, balances oracle.BalanceOracle, readOnly bool) (*big.Int, *big.Int, error) {
	balance, err := s.Lookup(user)
	if err != nil {
		return nil, nil, err
	}
	supply, err := s.LookupSupply()
	if err != nil {
		return nil, nil, err
	}
	if balance.Migrated && supply.Migrated {
		return balance.Value, supply.Value, nil
	}

	raw, err := balances.BalanceAndSupply(s.name, user)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "derive working balance of %q", s.name)
	}
	if err := requireNonNegative("raw balance", raw.Balance); err != nil {
		return nil, nil, err
	}
	if err := requireNonNegative("raw supply", raw.Supply); err != nil {
		return nil, nil, err
	}

	if !balance.Migrated {
		balance.Value = raw.Balance
		if !readOnly {
			if err := s.Materialize(user, raw.Balance); err != nil {
				return nil, nil, err
			}
		}
	}
	if !supply.Migrated {
		supply.Value = raw.Supply
		if !readOnly {
			if err := s.MaterializeSupply(raw.Supply); err != nil {
				return nil, nil, err
			}
		}
	}
	return balance.Value, supply.Value, nil
}

// BalanceFor is the read path of a user's working balance.
func (s *Service) BalanceFor(user thor.Address, balances oracle.BalanceOracle, readOnly bool) (*big.Int, error) {
	rec, err := s.Lookup(user)
	if err != nil {
		return nil, err
	}
	if rec.Migrated {
		return rec.Value, nil
	}
	balance, _, err := s.Current(user, balances, readOnly)
	return balance, err
}

// SupplyFor is the read path of the working supply. The oracle reports the
// raw supply alongside some user's balance, any user serves.
func (s *Service) SupplyFor(user thor.Address, balances oracle.BalanceOracle, readOnly bool) (*big.Int, error) {
	rec, err := s.LookupSupply()
	if err != nil {
		return nil, err
	}
	if rec.Migrated {
		return rec.Value, nil
	}
	_, supply, err := s.Current(user, balances, readOnly)
	return supply, err
}

// BalanceFrom is the write path of a user's working balance: a missing record
// is materialized from prev, the raw balance before the triggering change.
func (s *Service) BalanceFrom(user thor.Address, prev *big.Int, readOnly bool) (*big.Int, error) {
	rec, err := s.Lookup(user)
	if err != nil {
		return nil, err
	}
	if rec.Migrated {
		return rec.Value, nil
	}
	if err := requireNonNegative("previous balance", prev); err != nil {
		return nil, err
	}
	if !readOnly {
		if err := s.Materialize(user, prev); err != nil {
			return nil, err
		}
	}
	return new(big.Int).Set(prev), nil
}

// SupplyFrom is the write path of the working supply.
func (s *Service) SupplyFrom(prev *big.Int, readOnly bool) (*big.Int, error) {
	rec, err := s.LookupSupply()
	if err != nil {
		return nil, err
	}
	if rec.Migrated {
		return rec.Value, nil
	}
	if err := requireNonNegative("previous supply", prev); err != nil {
		return nil, err
	}
	if !readOnly {
		if err := s.MaterializeSupply(prev); err != nil {
			return nil, err
		}
	}
	return new(big.Int).Set(prev), nil
}

// Update recomputes the working balance of user and persists it together
// with the adjusted working supply.
func (s *Service) Update(user thor.Address, in Inputs, w *big.Int) (*big.Int, *big.Int, error) {
	balance, err := Compute(w, in)
	if err != nil {
		return nil, nil, err
	}
	if err := requireNonNegative("previous working balance", in.PrevWorkingBalance); err != nil {
		return nil, nil, err
	}
	if err := requireNonNegative("previous working supply", in.PrevWorkingSupply); err != nil {
		return nil, nil, err
	}

	supply := new(big.Int).Sub(in.PrevWorkingSupply, in.PrevWorkingBalance)
	supply.Add(supply, balance)
	if supply.Sign() < 0 {
		return nil, nil, errors.Errorf("working supply of %q would become negative: %v", s.name, supply)
	}

	if err := s.balances.Set(user, balance); err != nil {
		return nil, nil, err
	}
	if err := s.supply.Set(supply); err != nil {
		return nil, nil, err
	}
	return balance, supply, nil
}

// Compute returns min(raw + boost, raw * SCALE / w), where boost grows with
// the user's share of the locked supply. w must satisfy 0 < w <= SCALE.
func Compute(w *big.Int, in Inputs) (*big.Int, error) {
	if w == nil || w.Sign() <= 0 || w.Cmp(thor.Scale) > 0 {
		return nil, reverts.Newf("boost weight %v out of range", w)
	}
	for _, v := range []struct {
		name  string
		value *big.Int
	}{
		{"raw balance", in.RawBalance},
		{"raw supply", in.RawSupply},
		{"boosted balance", in.BoostedBalance},
		{"boosted supply", in.BoostedSupply},
	} {
		if err := requireNonNegative(v.name, v.value); err != nil {
			return nil, err
		}
	}

	maxCap := new(big.Int).Mul(in.RawBalance, thor.Scale)
	maxCap.Quo(maxCap, w)

	boost := new(big.Int)
	if in.BoostedSupply.Sign() > 0 && in.RawBalance.Sign() > 0 {
		boost.Mul(in.RawSupply, in.BoostedBalance)
		boost.Mul(boost, new(big.Int).Sub(thor.Scale, w))
		boost.Quo(boost, in.BoostedSupply)
		boost.Quo(boost, w)
	}

	balance := boost.Add(boost, in.RawBalance)
	if balance.Cmp(maxCap) > 0 {
		return maxCap, nil
	}
	return balance, nil
}

func requireNonNegative(what string, v *big.Int) error {
	if v == nil || v.Sign() < 0 {
		return reverts.Newf("%s %v must not be negative", what, v)
	}
	return nil
}
