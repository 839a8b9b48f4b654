// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/vechain/rewarder/thor"
)

// Uint256 is a counter or amount held in a single slot.
// Values wider than 256 bits keep their low 256 bits, and the sign is dropped.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, slot thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

// Get reads the slot. An unset slot reads as zero.
func (u *Uint256) Get() (*big.Int, error) {
	raw, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	u.context.observe(false, 32)
	return new(big.Int).SetBytes(raw.Bytes()), nil
}

func (u *Uint256) Set(value *big.Int) {
	u.context.observe(true, 32)
	u.context.state.SetStorage(u.context.address, u.pos, thor.BytesToBytes32(value.Bytes()))
}

// Add increments the slot by delta.
func (u *Uint256) Add(delta *big.Int) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	u.Set(v.Add(v, delta))
	return nil
}
