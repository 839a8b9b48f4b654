// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewarder/thor"
)

func TestSchedule(t *testing.T) {
	s := Schedule{
		{StartDay: 10, Amount: big.NewInt(2000)},
		{StartDay: 3, Amount: big.NewInt(1000)},
		{StartDay: 20, Amount: big.NewInt(0)},
	}
	require.NoError(t, s.Validate())
	sorted := s.sorted()

	assert.Equal(t, "0", sorted.At(0).String())
	assert.Equal(t, "0", sorted.At(2).String())
	assert.Equal(t, "1000", sorted.At(3).String())
	assert.Equal(t, "1000", sorted.At(9).String())
	assert.Equal(t, "2000", sorted.At(10).String())
	assert.Equal(t, "0", sorted.At(25).String())

	assert.Equal(t, "0", Schedule(nil).At(5).String())
}

func TestScheduleValidate(t *testing.T) {
	assert.Error(t, Schedule{{StartDay: 1}}.Validate())
	assert.Error(t, Schedule{{StartDay: 1, Amount: big.NewInt(-1)}}.Validate())
	assert.Error(t, Schedule{
		{StartDay: 1, Amount: big.NewInt(1)},
		{StartDay: 1, Amount: big.NewInt(2)},
	}.Validate())
}

func TestEmissions(t *testing.T) {
	e := NewEmissions()
	require.NoError(t, e.SetSchedule("pool", Schedule{{StartDay: 0, Amount: big.NewInt(1000)}}))
	assert.Error(t, e.SetSchedule("pool", Schedule{{StartDay: 0, Amount: big.NewInt(-1)}}))

	v, err := e.TotalDistribution("pool", 7)
	require.NoError(t, err)
	assert.Equal(t, "1000", v.String())

	v, err = e.TotalDistribution("unknown", 7)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	e.SetUnavailable("pool", true)
	_, err = e.TotalDistribution("pool", 7)
	assert.True(t, IsUnavailable(err))
	assert.Equal(t, 3, e.Queries())
}

func TestStatic(t *testing.T) {
	s := NewStatic()
	user := thor.BytesToAddress([]byte("user"))

	s.SetBalance("pool", user, big.NewInt(10))
	s.SetSupply("pool", big.NewInt(100))
	s.SetValue("pool", big.NewInt(5000))
	s.SetLocked(user, big.NewInt(3))
	s.SetLockedSupply(big.NewInt(30))

	bs, err := s.BalanceAndSupply("pool", user)
	require.NoError(t, err)
	assert.Equal(t, "10", bs.Balance.String())
	assert.Equal(t, "100", bs.Supply.String())

	bs, err = s.BalanceAndSupply("pool", thor.Address{})
	require.NoError(t, err)
	assert.Equal(t, 0, bs.Balance.Sign())

	v, err := s.Value("pool")
	require.NoError(t, err)
	assert.Equal(t, "5000", v.String())

	bd, err := s.BoostData(user)
	require.NoError(t, err)
	assert.Equal(t, "3", bd.Balance.String())
	assert.Equal(t, "30", bd.Supply.String())

	s.SetUnavailable("pool", true)
	_, err = s.BalanceAndSupply("pool", user)
	assert.True(t, IsUnavailable(err))
	_, err = s.Value("pool")
	assert.True(t, IsUnavailable(err))

	s.SetBoostUnavailable(true)
	_, err = s.BoostData(user)
	assert.True(t, IsUnavailable(err))

	assert.Equal(t, 3, s.BalanceQueries())

	// returned values are copies
	s.SetUnavailable("pool", false)
	bs, _ = s.BalanceAndSupply("pool", user)
	bs.Balance.SetInt64(99)
	bs, _ = s.BalanceAndSupply("pool", user)
	assert.Equal(t, "10", bs.Balance.String())
}
