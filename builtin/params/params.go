// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/rewarder/builtin/reverts"
	"github.com/vechain/rewarder/state"
	"github.com/vechain/rewarder/thor"
)

// Params binder of `Params` contract.
type Params struct {
	addr  thor.Address
	state *state.State
}

func New(addr thor.Address, state *state.State) *Params {
	return &Params{addr, state}
}

// Get native way to get param.
func (p *Params) Get(key thor.Bytes32) (*big.Int, error) {
	var value big.Int
	err := p.state.DecodeStorage(p.addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// Set native way to set param.
func (p *Params) Set(key thor.Bytes32, value *big.Int) error {
	return p.state.EncodeStorage(p.addr, key, func() ([]byte, error) {
		if value.Sign() == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}

// BoostWeight returns W, the minimum fraction of a raw balance counted as working,
// scaled by thor.Scale. An unset param yields thor.InitialBoostWeight.
func (p *Params) BoostWeight() (*big.Int, error) {
	w, err := p.Get(thor.KeyBoostWeight)
	if err != nil {
		return nil, err
	}
	if w.Sign() == 0 {
		return new(big.Int).Set(thor.InitialBoostWeight), nil
	}
	return w, nil
}

// SetBoostWeight sets W. It must satisfy 0 < w <= thor.Scale.
func (p *Params) SetBoostWeight(w *big.Int) error {
	if w == nil || w.Sign() <= 0 || w.Cmp(thor.Scale) > 0 {
		return reverts.Newf("boost weight %v out of range (0, %v]", w, thor.Scale)
	}
	return p.Set(thor.KeyBoostWeight, w)
}

// MaxDayIterations returns how many day boundaries a single weight advance may cross.
// Zero means unbounded.
func (p *Params) MaxDayIterations() (uint64, error) {
	v, err := p.Get(thor.KeyMaxDayIterations)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, reverts.Newf("max day iterations %v out of range", v)
	}
	return v.Uint64(), nil
}

func (p *Params) SetMaxDayIterations(n uint64) error {
	return p.Set(thor.KeyMaxDayIterations, new(big.Int).SetUint64(n))
}
