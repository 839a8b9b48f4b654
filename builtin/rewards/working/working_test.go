// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package working

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewarder/builtin/reverts"
	"github.com/vechain/rewarder/builtin/solidity"
	"github.com/vechain/rewarder/kv"
	"github.com/vechain/rewarder/oracle"
	"github.com/vechain/rewarder/state"
	"github.com/vechain/rewarder/test/datagen"
	"github.com/vechain/rewarder/thor"
)

const testSource = "vot3"

func exa(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), thor.Scale)
}

func newTestService() (*Service, *state.State) {
	st := state.NewStater(kv.NewMemLevelDB()).NewState()
	sctx := solidity.NewContext(thor.CreateSourceAddress(testSource), st, nil)
	return New(sctx, testSource), st
}

func TestComputeScenario(t *testing.T) {
	w := new(big.Int).Div(thor.Scale, big.NewInt(2))

	balance, err := Compute(w, Inputs{
		RawBalance:     big.NewInt(10),
		RawSupply:      big.NewInt(100),
		BoostedBalance: big.NewInt(0),
		BoostedSupply:  big.NewInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, "10", balance.String())

	// 100 * 100 * 5e17 / 1000 / 5e17 = 10
	balance, err = Compute(w, Inputs{
		RawBalance:     big.NewInt(10),
		RawSupply:      big.NewInt(100),
		BoostedBalance: big.NewInt(100),
		BoostedSupply:  big.NewInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, "20", balance.String())

	// capped at 10 * 1e18 / 5e17
	balance, err = Compute(w, Inputs{
		RawBalance:     big.NewInt(10),
		RawSupply:      big.NewInt(100),
		BoostedBalance: big.NewInt(1000),
		BoostedSupply:  big.NewInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, "20", balance.String())

	balance, err = Compute(w, Inputs{
		RawBalance:     big.NewInt(0),
		RawSupply:      big.NewInt(100),
		BoostedBalance: big.NewInt(1000),
		BoostedSupply:  big.NewInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())
}

func TestComputeFullWeight(t *testing.T) {
	balance, err := Compute(thor.Scale, Inputs{
		RawBalance:     big.NewInt(10),
		RawSupply:      big.NewInt(100),
		BoostedBalance: big.NewInt(1000),
		BoostedSupply:  big.NewInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, "10", balance.String())
}

func TestComputeRejects(t *testing.T) {
	valid := Inputs{
		RawBalance:     big.NewInt(1),
		RawSupply:      big.NewInt(1),
		BoostedBalance: big.NewInt(1),
		BoostedSupply:  big.NewInt(1),
	}
	for _, w := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1), new(big.Int).Add(thor.Scale, big.NewInt(1))} {
		_, err := Compute(w, valid)
		assert.True(t, reverts.IsRevertErr(err), "w=%v", w)
	}

	bad := valid
	bad.BoostedSupply = big.NewInt(-1)
	_, err := Compute(thor.Scale, bad)
	assert.True(t, reverts.IsRevertErr(err))

	bad = valid
	bad.RawBalance = nil
	_, err = Compute(thor.Scale, bad)
	assert.True(t, reverts.IsRevertErr(err))
}

func TestComputeCap(t *testing.T) {
	f := fuzz.New().NilChance(0)

	for range 1000 {
		var raw, supply, boosted, boostedSupply, weight uint64
		f.Fuzz(&raw)
		f.Fuzz(&supply)
		f.Fuzz(&boosted)
		f.Fuzz(&boostedSupply)
		f.Fuzz(&weight)

		w := new(big.Int).SetUint64(weight%thor.Scale.Uint64() + 1)
		in := Inputs{
			RawBalance:     new(big.Int).SetUint64(raw),
			RawSupply:      new(big.Int).SetUint64(supply),
			BoostedBalance: new(big.Int).SetUint64(boosted),
			BoostedSupply:  new(big.Int).SetUint64(boostedSupply % 4),
		}
		balance, err := Compute(w, in)
		require.NoError(t, err)

		maxCap := new(big.Int).Mul(in.RawBalance, thor.Scale)
		maxCap.Quo(maxCap, w)
		assert.True(t, balance.Cmp(maxCap) <= 0, "balance %v exceeds cap %v", balance, maxCap)
		assert.True(t, balance.Cmp(in.RawBalance) >= 0, "balance %v below raw %v", balance, in.RawBalance)

		if in.BoostedSupply.Sign() == 0 {
			assert.Equal(t, in.RawBalance.String(), balance.String())
		}
	}
}

func TestMigrationLaziness(t *testing.T) {
	svc, st := newTestService()
	balances := oracle.NewStatic()
	user := datagen.RandAddress()
	other := datagen.RandAddress()

	balances.SetBalance(testSource, user, big.NewInt(10))
	balances.SetSupply(testSource, big.NewInt(100))

	rec, err := svc.Lookup(user)
	require.NoError(t, err)
	assert.False(t, rec.Migrated)

	// read only derivation is not persisted
	b, s, err := svc.Current(user, balances, true)
	require.NoError(t, err)
	assert.Equal(t, "10", b.String())
	assert.Equal(t, "100", s.String())
	assert.Equal(t, 1, balances.BalanceQueries())
	assert.Equal(t, 0, st.Stage().Len())

	b, s, err = svc.Current(user, balances, false)
	require.NoError(t, err)
	assert.Equal(t, "10", b.String())
	assert.Equal(t, "100", s.String())
	assert.Equal(t, 2, balances.BalanceQueries())

	// migrated values no longer depend on the oracle
	balances.SetBalance(testSource, user, big.NewInt(999))
	balances.SetUnavailable(testSource, true)

	b, err = svc.BalanceFor(user, balances, false)
	require.NoError(t, err)
	assert.Equal(t, "10", b.String())
	s, err = svc.SupplyFor(other, balances, false)
	require.NoError(t, err)
	assert.Equal(t, "100", s.String())
	assert.Equal(t, 2, balances.BalanceQueries())

	// an unmigrated user still needs the oracle
	_, err = svc.BalanceFor(other, balances, false)
	assert.True(t, oracle.IsUnavailable(err))
}

func TestMaterializeOnce(t *testing.T) {
	svc, _ := newTestService()
	user := datagen.RandAddress()

	require.NoError(t, svc.Materialize(user, big.NewInt(0)))
	rec, err := svc.Lookup(user)
	require.NoError(t, err)
	assert.True(t, rec.Migrated)
	assert.Equal(t, 0, rec.Value.Sign())

	assert.Error(t, svc.Materialize(user, big.NewInt(1)))

	require.NoError(t, svc.MaterializeSupply(big.NewInt(7)))
	assert.Error(t, svc.MaterializeSupply(big.NewInt(8)))

	assert.True(t, reverts.IsRevertErr(svc.Materialize(datagen.RandAddress(), big.NewInt(-1))))
}

func TestBalanceFrom(t *testing.T) {
	svc, st := newTestService()
	user := datagen.RandAddress()

	b, err := svc.BalanceFrom(user, big.NewInt(5), true)
	require.NoError(t, err)
	assert.Equal(t, "5", b.String())
	assert.Equal(t, 0, st.Stage().Len())

	b, err = svc.BalanceFrom(user, big.NewInt(5), false)
	require.NoError(t, err)
	assert.Equal(t, "5", b.String())

	b, err = svc.BalanceFrom(user, big.NewInt(50), false)
	require.NoError(t, err)
	assert.Equal(t, "5", b.String())

	s, err := svc.SupplyFrom(big.NewInt(20), false)
	require.NoError(t, err)
	assert.Equal(t, "20", s.String())
	s, err = svc.SupplyFrom(big.NewInt(200), false)
	require.NoError(t, err)
	assert.Equal(t, "20", s.String())
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService()
	alice := datagen.RandAddress()
	bob := datagen.RandAddress()
	w := new(big.Int).Div(thor.Scale, big.NewInt(2))

	nb, ns, err := svc.Update(alice, Inputs{
		RawBalance:         big.NewInt(10),
		RawSupply:          big.NewInt(10),
		BoostedBalance:     big.NewInt(0),
		BoostedSupply:      big.NewInt(0),
		PrevWorkingBalance: big.NewInt(0),
		PrevWorkingSupply:  big.NewInt(0),
	}, w)
	require.NoError(t, err)
	assert.Equal(t, "10", nb.String())
	assert.Equal(t, "10", ns.String())

	nb, ns, err = svc.Update(bob, Inputs{
		RawBalance:         big.NewInt(30),
		RawSupply:          big.NewInt(40),
		BoostedBalance:     big.NewInt(0),
		BoostedSupply:      big.NewInt(0),
		PrevWorkingBalance: big.NewInt(0),
		PrevWorkingSupply:  ns,
	}, w)
	require.NoError(t, err)
	assert.Equal(t, "30", nb.String())
	assert.Equal(t, "40", ns.String())

	nb, ns, err = svc.Update(alice, Inputs{
		RawBalance:         big.NewInt(4),
		RawSupply:          big.NewInt(34),
		BoostedBalance:     big.NewInt(0),
		BoostedSupply:      big.NewInt(0),
		PrevWorkingBalance: big.NewInt(10),
		PrevWorkingSupply:  ns,
	}, w)
	require.NoError(t, err)
	assert.Equal(t, "4", nb.String())
	assert.Equal(t, "34", ns.String())

	rec, err := svc.Lookup(alice)
	require.NoError(t, err)
	assert.Equal(t, "4", rec.Value.String())
	rec, err = svc.LookupSupply()
	require.NoError(t, err)
	assert.Equal(t, "34", rec.Value.String())

	_, _, err = svc.Update(alice, Inputs{
		RawBalance:         big.NewInt(0),
		RawSupply:          big.NewInt(0),
		BoostedBalance:     big.NewInt(0),
		BoostedSupply:      big.NewInt(0),
		PrevWorkingBalance: big.NewInt(100),
		PrevWorkingSupply:  big.NewInt(34),
	}, w)
	assert.Error(t, err)
}

func TestUpdateBoost(t *testing.T) {
	svc, _ := newTestService()
	user := datagen.RandAddress()
	w := new(big.Int).Div(thor.Scale, big.NewInt(2))

	nb, ns, err := svc.Update(user, Inputs{
		RawBalance:         exa(10),
		RawSupply:          exa(100),
		BoostedBalance:     exa(1),
		BoostedSupply:      exa(4),
		PrevWorkingBalance: exa(10),
		PrevWorkingSupply:  exa(100),
	}, w)
	require.NoError(t, err)
	// boost of 100 * 1/4 is capped at 2x raw
	assert.Equal(t, exa(20).String(), nb.String())
	assert.Equal(t, exa(110).String(), ns.String())
}
