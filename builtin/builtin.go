// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/rewarder/builtin/params"
	"github.com/vechain/rewarder/builtin/rewards"
	"github.com/vechain/rewarder/state"
)

// Builtin contracts binding.
var (
	Params  = &paramsContract{newContract("Params")}
	Rewards = &rewardsContract{newContract("Rewards")}
)

type (
	paramsContract  struct{ *contract }
	rewardsContract struct{ *contract }
)

func (p *paramsContract) WithState(state *state.State) *params.Params {
	return params.New(p.Address, state)
}

func (r *rewardsContract) WithState(state *state.State, deps rewards.Deps) *rewards.Rewards {
	return rewards.New(r.Address, state, Params.WithState(state), deps)
}
