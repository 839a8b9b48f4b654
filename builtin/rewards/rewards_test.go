// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewarder/builtin/params"
	"github.com/vechain/rewarder/builtin/reverts"
	"github.com/vechain/rewarder/builtin/rewards/accumulator"
	"github.com/vechain/rewarder/builtin/rewards/source"
	"github.com/vechain/rewarder/kv"
	"github.com/vechain/rewarder/oracle"
	"github.com/vechain/rewarder/state"
	"github.com/vechain/rewarder/test/datagen"
	"github.com/vechain/rewarder/thor"
)

const day = thor.MicrosecondsPerDay

var (
	rewardsAddr = thor.BytesToAddress([]byte("rewards"))
	paramsAddr  = thor.BytesToAddress([]byte("params"))

	// start of day 10
	t0 = thor.DayEnd(9)
	e  = big.NewInt
)

type testEnv struct {
	stater    *state.Stater
	state     *state.State
	balances  *oracle.Static
	emissions *oracle.Emissions
}

func newTestEnv() *testEnv {
	stater := state.NewStater(kv.NewMemLevelDB())
	return &testEnv{
		stater:    stater,
		state:     stater.NewState(),
		balances:  oracle.NewStatic(),
		emissions: oracle.NewEmissions(),
	}
}

func (env *testEnv) contract() *Rewards {
	return New(rewardsAddr, env.state, params.New(paramsAddr, env.state), Deps{
		Balances: env.balances,
		Emission: env.emissions,
		Boost:    env.balances,
	})
}

func (env *testEnv) register(t *testing.T, name string, mode source.Mode, daily int64) {
	require.NoError(t, env.contract().Register(name, datagen.RandAddress(), mode))
	require.NoError(t, env.emissions.SetSchedule(name, oracle.Schedule{{StartDay: 0, Amount: e(daily)}}))
}

// commit persists pending changes and continues on a fresh state.
func (env *testEnv) commit(t *testing.T) {
	require.NoError(t, env.state.Stage().Commit())
	env.state = env.stater.NewState()
}

// deposit moves the raw balance of user from prev to balance, in the oracle
// and through the contract.
func (env *testEnv) deposit(t *testing.T, name string, user thor.Address, prev, balance, prevSupply, supply int64, now uint64) *big.Int {
	env.balances.SetBalance(name, user, e(balance))
	env.balances.SetSupply(name, e(supply))
	accrued, err := env.contract().UpdateBalance(BalanceChange{
		User:        user,
		Source:      name,
		PrevBalance: e(prev),
		PrevSupply:  e(prevSupply),
		Balance:     e(balance),
		Supply:      e(supply),
	}, now)
	require.NoError(t, err)
	return accrued
}

func TestLegacyScenario(t *testing.T) {
	env := newTestEnv()
	env.register(t, "pool", source.ModeLegacy, 1000)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	assert.Equal(t, 0, env.deposit(t, "pool", alice, 0, 10, 0, 10, t0).Sign())
	assert.Equal(t, 0, env.deposit(t, "pool", bob, 0, 90, 10, 100, t0).Sign())

	paid, err := env.contract().Claim(alice, t0+day)
	require.NoError(t, err)
	assert.Equal(t, "100", paid.String())

	held, err := env.contract().Holdings(alice)
	require.NoError(t, err)
	assert.Equal(t, 0, held.Sign())

	paid, err = env.contract().Claim(alice, t0+day)
	require.NoError(t, err)
	assert.Equal(t, 0, paid.Sign())

	paid, err = env.contract().Claim(bob, t0+day)
	require.NoError(t, err)
	assert.Equal(t, "900", paid.String())
}

func TestBoostedScenario(t *testing.T) {
	env := newTestEnv()
	env.register(t, "pool", source.ModeBoosted, 1000)
	require.NoError(t, env.contract().SetBoostWeight(new(big.Int).Div(thor.Scale, e(2))))
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	env.deposit(t, "pool", alice, 0, 10, 0, 10, t0)
	env.deposit(t, "pool", bob, 0, 90, 10, 100, t0)

	data, err := env.contract().Data("pool", thor.DayOf(t0))
	require.NoError(t, err)
	assert.Equal(t, "100", data.WorkingSupply.String())
	assert.Equal(t, t0, data.LastUpdate)

	paid, err := env.contract().Claim(alice, t0+day)
	require.NoError(t, err)
	assert.Equal(t, "100", paid.String())
	assert.Equal(t, 0, env.balances.BalanceQueries(), "migrated balances need no oracle")

	data, err = env.contract().Data("pool", thor.DayOf(t0))
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(e(10), thor.Scale).String(), data.TotalWeight.String())
	assert.Equal(t, "1000", data.TotalDist.String())
}

func TestBoostRaisesWorkingBalance(t *testing.T) {
	env := newTestEnv()
	env.register(t, "pool", source.ModeBoosted, 1000)
	require.NoError(t, env.contract().SetBoostWeight(new(big.Int).Div(thor.Scale, e(2))))
	alice := datagen.RandAddress()

	env.balances.SetLocked(alice, e(1))
	env.balances.SetLockedSupply(e(4))
	env.deposit(t, "pool", alice, 0, 10, 0, 10, t0)

	// 10 + 10 * 1 * 5e17 / 4 / 5e17
	user, err := env.contract().UserData("pool", alice)
	require.NoError(t, err)
	assert.Equal(t, "12", user.WorkingBalance.String())

	data, err := env.contract().Data("pool", 0)
	require.NoError(t, err)
	assert.Equal(t, "12", data.WorkingSupply.String())
}

func TestLegacyToBoostedMigration(t *testing.T) {
	env := newTestEnv()
	env.register(t, "pool", source.ModeLegacy, 1000)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	env.deposit(t, "pool", alice, 0, 10, 0, 10, t0)
	env.deposit(t, "pool", bob, 0, 90, 10, 100, t0)
	require.NoError(t, env.contract().SetMode("pool", source.ModeBoosted))
	env.commit(t)
	queries := env.balances.BalanceQueries()

	user, err := env.contract().UserData("pool", alice)
	require.NoError(t, err)
	assert.Nil(t, user.WorkingBalance)

	// first claim derives alice's working balance and the supply from the oracle
	paid, err := env.contract().Claim(alice, t0+day)
	require.NoError(t, err)
	assert.Equal(t, "100", paid.String())
	assert.Equal(t, queries+1, env.balances.BalanceQueries())

	user, err = env.contract().UserData("pool", alice)
	require.NoError(t, err)
	assert.Equal(t, "10", user.WorkingBalance.String())

	pending, err := env.contract().Pending(bob, t0+day)
	require.NoError(t, err)
	assert.Equal(t, "900", pending.Total.String())
	assert.Equal(t, queries+2, env.balances.BalanceQueries())

	// bob withdraws everything, his working balance migrates from the event
	accrued := env.deposit(t, "pool", bob, 90, 0, 100, 10, t0+day)
	assert.Equal(t, "900", accrued.String())
	assert.Equal(t, queries+2, env.balances.BalanceQueries())

	data, err := env.contract().Data("pool", 0)
	require.NoError(t, err)
	assert.Equal(t, "10", data.WorkingSupply.String())

	paid, err = env.contract().Claim(bob, t0+day)
	require.NoError(t, err)
	assert.Equal(t, "900", paid.String())
}

func TestAtomicOnBoostFailure(t *testing.T) {
	env := newTestEnv()
	env.register(t, "pool", source.ModeBoosted, 1000)
	alice := datagen.RandAddress()
	env.deposit(t, "pool", alice, 0, 10, 0, 10, t0)
	env.commit(t)

	env.balances.SetBoostUnavailable(true)
	_, err := env.contract().UpdateBalance(BalanceChange{
		User:        alice,
		Source:      "pool",
		PrevBalance: e(10),
		PrevSupply:  e(10),
		Balance:     e(20),
		Supply:      e(20),
	}, t0+day)
	assert.True(t, oracle.IsUnavailable(err))
	assert.Equal(t, 0, env.state.Stage().Len(), "no partial settlement")

	data, err := env.contract().Data("pool", 0)
	require.NoError(t, err)
	assert.Equal(t, t0, data.LastUpdate)
	assert.Equal(t, 0, data.TotalWeight.Sign())

	env.balances.SetBoostUnavailable(false)
	accrued := env.deposit(t, "pool", alice, 10, 20, 10, 20, t0+day)
	assert.Equal(t, "1000", accrued.String())
}

func TestAtomicOnOracleFailure(t *testing.T) {
	env := newTestEnv()
	env.register(t, "a", source.ModeLegacy, 1000)
	env.register(t, "b", source.ModeLegacy, 1000)
	alice := datagen.RandAddress()
	env.deposit(t, "a", alice, 0, 10, 0, 10, t0)
	env.deposit(t, "b", alice, 0, 10, 0, 10, t0)
	env.commit(t)

	env.balances.SetUnavailable("b", true)
	_, err := env.contract().Claim(alice, t0+day)
	assert.True(t, oracle.IsUnavailable(err))
	assert.Equal(t, 0, env.state.Stage().Len(), "source a is not settled either")

	_, err = env.contract().Pending(alice, t0+day)
	assert.True(t, oracle.IsUnavailable(err))

	env.balances.SetUnavailable("b", false)
	paid, err := env.contract().Claim(alice, t0+day)
	require.NoError(t, err)
	assert.Equal(t, "2000", paid.String())
}

func TestEmissionFailureIsZero(t *testing.T) {
	env := newTestEnv()
	env.register(t, "pool", source.ModeLegacy, 1000)
	alice := datagen.RandAddress()
	env.deposit(t, "pool", alice, 0, 10, 0, 10, t0)

	env.emissions.SetUnavailable("pool", true)
	paid, err := env.contract().Claim(alice, t0+day)
	require.NoError(t, err)
	assert.Equal(t, 0, paid.Sign())
}

func TestPendingIsReadOnly(t *testing.T) {
	env := newTestEnv()
	env.register(t, "a", source.ModeBoosted, 1000)
	env.register(t, "b", source.ModeLegacy, 500)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	env.deposit(t, "a", alice, 0, 10, 0, 10, t0)
	env.deposit(t, "a", bob, 0, 10, 10, 20, t0)
	env.deposit(t, "b", alice, 0, 5, 0, 5, t0+day/2)
	env.commit(t)

	now := t0 + 3*day + day/4
	pending, err := env.contract().Pending(alice, now)
	require.NoError(t, err)
	assert.Equal(t, 0, env.state.Stage().Len())

	require.Len(t, pending.Sources, 2)
	assert.Equal(t, "a", pending.Sources[0].Source)
	assert.Equal(t, "b", pending.Sources[1].Source)
	assert.Equal(t, 0, pending.Holdings.Sign())

	paid, err := env.contract().Claim(alice, now)
	require.NoError(t, err)
	assert.Equal(t, pending.Total.String(), paid.String())
	assert.Equal(t, "1625", pending.Sources[0].Amount.String())
	assert.Equal(t, "1375", pending.Sources[1].Amount.String())
}

func TestHoldingsAccumulate(t *testing.T) {
	env := newTestEnv()
	env.register(t, "pool", source.ModeLegacy, 1000)
	alice := datagen.RandAddress()
	env.deposit(t, "pool", alice, 0, 10, 0, 10, t0)

	assert.Equal(t, "1000", env.deposit(t, "pool", alice, 10, 20, 10, 20, t0+day).String())
	assert.Equal(t, "1000", env.deposit(t, "pool", alice, 20, 40, 20, 40, t0+2*day).String())

	pending, err := env.contract().Pending(alice, t0+2*day)
	require.NoError(t, err)
	assert.Equal(t, "2000", pending.Holdings.String())
	assert.Equal(t, "2000", pending.Total.String())

	paid, err := env.contract().Claim(alice, t0+2*day)
	require.NoError(t, err)
	assert.Equal(t, "2000", paid.String())
}

func TestInactiveSource(t *testing.T) {
	env := newTestEnv()
	env.register(t, "a", source.ModeLegacy, 1000)
	env.register(t, "b", source.ModeLegacy, 1000)
	alice := datagen.RandAddress()
	env.deposit(t, "a", alice, 0, 10, 0, 10, t0)
	env.deposit(t, "b", alice, 0, 10, 0, 10, t0)
	require.NoError(t, env.contract().Deactivate("b"))

	pending, err := env.contract().Pending(alice, t0+day)
	require.NoError(t, err)
	require.Len(t, pending.Sources, 1)

	paid, err := env.contract().Claim(alice, t0+day)
	require.NoError(t, err)
	assert.Equal(t, "1000", paid.String())

	paid, err = env.contract().ClaimSource(alice, "b", t0+day)
	require.NoError(t, err)
	assert.Equal(t, "1000", paid.String())
}

func TestInvalidBalanceChange(t *testing.T) {
	env := newTestEnv()
	env.register(t, "pool", source.ModeBoosted, 1000)
	env.commit(t)
	user := datagen.RandAddress()

	for _, ev := range []BalanceChange{
		{User: user, Source: "pool", PrevBalance: e(0), PrevSupply: e(0), Balance: e(-1), Supply: e(0)},
		{User: user, Source: "pool", PrevBalance: e(0), PrevSupply: e(0), Balance: e(1), Supply: nil},
		{User: user, Source: "pool", PrevBalance: e(-5), PrevSupply: e(0), Balance: e(1), Supply: e(1)},
		{User: user, Source: "missing", PrevBalance: e(0), PrevSupply: e(0), Balance: e(1), Supply: e(1)},
	} {
		_, err := env.contract().UpdateBalance(ev, t0)
		assert.True(t, reverts.IsRevertErr(err), "%+v", ev)
	}

	_, err := env.contract().ClaimSource(user, "missing", t0)
	assert.True(t, reverts.IsRevertErr(err))
	assert.Equal(t, 0, env.state.Stage().Len())
}

func TestDayBudgetAndCatchUp(t *testing.T) {
	env := newTestEnv()
	env.register(t, "pool", source.ModeLegacy, 1000)
	require.NoError(t, env.contract().SetMaxDayIterations(3))
	alice := datagen.RandAddress()
	env.deposit(t, "pool", alice, 0, 10, 0, 100, t0)
	env.balances.SetSupply("pool", e(100))

	_, err := env.contract().Claim(alice, t0+5*day)
	assert.True(t, errors.Is(err, accumulator.ErrDayBudgetExceeded))

	last, err := env.contract().CatchUp("pool", t0+5*day, 0)
	require.NoError(t, err)
	assert.Equal(t, t0+3*day, last)

	paid, err := env.contract().Claim(alice, t0+5*day)
	require.NoError(t, err)
	assert.Equal(t, "500", paid.String())
}

func TestSnapshotValue(t *testing.T) {
	env := newTestEnv()
	env.register(t, "pool", source.ModeLegacy, 1000)
	env.balances.SetValue("pool", e(4242))

	v, err := env.contract().SnapshotValue("pool", 12)
	require.NoError(t, err)
	assert.Equal(t, "4242", v.String())

	data, err := env.contract().Data("pool", 12)
	require.NoError(t, err)
	assert.Equal(t, "4242", data.TotalValue.String())
	assert.Equal(t, uint64(12), data.Day)
	assert.Equal(t, "1000", data.TotalDist.String())

	_, err = env.contract().SnapshotValue("missing", 12)
	assert.True(t, reverts.IsRevertErr(err))
}

func TestGovernance(t *testing.T) {
	env := newTestEnv()
	c := env.contract()
	require.NoError(t, c.Register("pool", datagen.RandAddress(), source.ModeLegacy))

	w, err := c.BoostWeight()
	require.NoError(t, err)
	assert.Equal(t, thor.InitialBoostWeight.String(), w.String())
	assert.True(t, reverts.IsRevertErr(c.SetBoostWeight(e(0))))

	n, err := c.MaxDayIterations()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	require.NoError(t, c.SetDistPercent("pool", e(25)))
	contract := datagen.RandAddress()
	require.NoError(t, c.SetContract("pool", contract))
	require.NoError(t, c.SetTotalDist("pool", 3, e(77)))

	data, err := c.Data("pool", 3)
	require.NoError(t, err)
	assert.Equal(t, "25", data.DistPercent.String())
	assert.Equal(t, contract, data.Contract)
	assert.Equal(t, "77", data.TotalDist.String())

	src, err := c.Source("pool")
	require.NoError(t, err)
	assert.True(t, src.Active)

	sources, err := c.Sources()
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestWorkingViews(t *testing.T) {
	env := newTestEnv()
	env.register(t, "legacy", source.ModeLegacy, 1000)
	env.register(t, "boosted", source.ModeBoosted, 1000)
	alice := datagen.RandAddress()

	env.balances.SetBalance("legacy", alice, e(30))
	env.balances.SetSupply("legacy", e(100))
	env.balances.SetBalance("boosted", alice, e(40))
	env.balances.SetSupply("boosted", e(80))

	c := env.contract()
	writes := env.state.Stage().Len()

	balance, err := c.WorkingBalance("legacy", alice)
	require.NoError(t, err)
	assert.Equal(t, e(30), balance)
	supply, err := c.WorkingSupply("legacy")
	require.NoError(t, err)
	assert.Equal(t, e(100), supply)

	balance, err = c.WorkingBalance("boosted", alice)
	require.NoError(t, err)
	assert.Equal(t, e(40), balance)
	supply, err = c.WorkingSupply("boosted")
	require.NoError(t, err)
	assert.Equal(t, e(80), supply)
	assert.Equal(t, writes, env.state.Stage().Len(), "views must not migrate")

	env.deposit(t, "boosted", alice, 40, 50, 80, 90, t0)
	env.balances.SetBalance("boosted", alice, e(7))

	balance, err = c.WorkingBalance("boosted", alice)
	require.NoError(t, err)
	assert.Equal(t, e(50), balance)
	supply, err = c.WorkingSupply("boosted")
	require.NoError(t, err)
	assert.Equal(t, e(90), supply)

	_, err = c.WorkingBalance("missing", alice)
	assert.True(t, reverts.IsRevertErr(err))
}
