// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/rewarder/thor"
)

// Static is an in-memory BalanceOracle and BoostSource.
// Unknown entries read as zero.
type Static struct {
	mu sync.RWMutex

	balances map[string]map[thor.Address]*big.Int
	supplies map[string]*big.Int
	values   map[string]*big.Int

	locked       map[thor.Address]*big.Int
	lockedSupply *big.Int

	down      map[string]bool
	boostDown bool

	balanceQueries int
}

func NewStatic() *Static {
	return &Static{
		balances:     make(map[string]map[thor.Address]*big.Int),
		supplies:     make(map[string]*big.Int),
		values:       make(map[string]*big.Int),
		locked:       make(map[thor.Address]*big.Int),
		lockedSupply: new(big.Int),
		down:         make(map[string]bool),
	}
}

func copyOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

// SetBalance sets the raw balance of user in source.
func (s *Static) SetBalance(source string, user thor.Address, balance *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.balances[source]
	if !ok {
		m = make(map[thor.Address]*big.Int)
		s.balances[source] = m
	}
	m[user] = copyOrZero(balance)
}

// SetSupply sets the raw total supply of source.
func (s *Static) SetSupply(source string, supply *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supplies[source] = copyOrZero(supply)
}

// SetValue sets the USD value of source.
func (s *Static) SetValue(source string, value *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[source] = copyOrZero(value)
}

// SetLocked sets the vote-escrow lock of user.
func (s *Static) SetLocked(user thor.Address, balance *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked[user] = copyOrZero(balance)
}

// SetLockedSupply sets the protocol-wide locked supply.
func (s *Static) SetLockedSupply(supply *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockedSupply = copyOrZero(supply)
}

// SetUnavailable makes balance and value queries of source fail until reset.
func (s *Static) SetUnavailable(source string, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down[source] = down
}

// SetBoostUnavailable makes boost queries fail until reset.
func (s *Static) SetBoostUnavailable(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boostDown = down
}

// BalanceQueries returns how many balance lookups were served, failed ones included.
func (s *Static) BalanceQueries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balanceQueries
}

// BalanceAndSupply implements BalanceOracle.
func (s *Static) BalanceAndSupply(source string, user thor.Address) (*BalanceAndSupply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balanceQueries++
	if s.down[source] {
		return nil, errors.Wrapf(ErrUnavailable, "balance of %q", source)
	}
	return &BalanceAndSupply{
		Balance: copyOrZero(s.balances[source][user]),
		Supply:  copyOrZero(s.supplies[source]),
	}, nil
}

// Value implements BalanceOracle.
func (s *Static) Value(source string) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down[source] {
		return nil, errors.Wrapf(ErrUnavailable, "value of %q", source)
	}
	return copyOrZero(s.values[source]), nil
}

// BoostData implements BoostSource.
func (s *Static) BoostData(user thor.Address) (*BoostData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.boostDown {
		return nil, errors.Wrap(ErrUnavailable, "boost data")
	}
	return &BoostData{
		Balance: copyOrZero(s.locked[user]),
		Supply:  copyOrZero(s.lockedSupply),
	}, nil
}
