// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/rewarder/state"
	"github.com/vechain/rewarder/thor"
)

// AccessFunc observes storage accesses, in 32-byte words.
type AccessFunc func(write bool, words uint64)

// Context binds built-in storage to a contract address.
type Context struct {
	address thor.Address
	state   *state.State
	access  AccessFunc
}

func NewContext(address thor.Address, state *state.State, access AccessFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		access:  access,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// WithAddress returns a context for another contract address sharing state and observer.
func (c *Context) WithAddress(address thor.Address) *Context {
	return &Context{
		address: address,
		state:   c.state,
		access:  c.access,
	}
}

func (c *Context) observe(write bool, length int) {
	if c.access != nil && length > 0 {
		c.access(write, toWordSize(length))
	}
}

// toWordSize converts bytes length to word size.
func toWordSize(length int) uint64 {
	return (uint64(length) + 31) / 32
}
