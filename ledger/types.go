// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vechain/rewarder/thor"
)

// Entry is one engine call applied during a run, with the value it returned.
type Entry struct {
	Run    string
	Seq    uint64
	At     uint64
	Kind   string
	Source string       // empty for claims over all sources
	User   thor.Address // zero for source-wide calls
	Amount *big.Int
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects entries. Unset fields match everything.
type Filter struct {
	Run     string
	User    *thor.Address
	Source  string
	Kind    string
	Order   Order
	Options *Options
}
