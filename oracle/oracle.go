// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package oracle declares the external collaborators consulted by the rewards engine.
package oracle

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/rewarder/thor"
)

// ErrUnavailable is returned, possibly wrapped, when a collaborator cannot answer.
var ErrUnavailable = errors.New("oracle unavailable")

// BalanceAndSupply is the raw position of a user in a source.
type BalanceAndSupply struct {
	Balance *big.Int
	Supply  *big.Int
}

// BoostData is the vote-escrow lock of a user and the protocol-wide locked supply.
type BoostData struct {
	Balance *big.Int
	Supply  *big.Int
}

// BalanceOracle reports raw balances of reward sources.
type BalanceOracle interface {
	// BalanceAndSupply returns the user's raw balance and the source's raw total supply.
	BalanceAndSupply(source string, user thor.Address) (*BalanceAndSupply, error)
	// Value returns the USD value of the source, for display.
	Value(source string) (*big.Int, error)
}

// EmissionSchedule reports the total reward units emitted to a source on a day.
type EmissionSchedule interface {
	TotalDistribution(source string, day uint64) (*big.Int, error)
}

// BoostSource reports vote-escrow locks.
type BoostSource interface {
	BoostData(user thor.Address) (*BoostData, error)
}

// IsUnavailable reports whether err was caused by an unreachable collaborator.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
