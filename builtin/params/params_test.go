// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewarder/builtin/reverts"
	"github.com/vechain/rewarder/kv"
	"github.com/vechain/rewarder/state"
	"github.com/vechain/rewarder/thor"
)

func newParams() *Params {
	st := state.NewStater(kv.NewMemLevelDB()).NewState()
	return New(thor.BytesToAddress([]byte("par")), st)
}

func TestParamsGetSet(t *testing.T) {
	p := newParams()
	setv := big.NewInt(10)
	key := thor.BytesToBytes32([]byte("key"))

	getv, err := p.Get(key)
	require.NoError(t, err)
	assert.Equal(t, 0, getv.Sign())

	require.NoError(t, p.Set(key, setv))
	getv, err = p.Get(key)
	require.NoError(t, err)
	assert.Equal(t, setv.String(), getv.String())

	require.NoError(t, p.Set(key, big.NewInt(0)))
	getv, err = p.Get(key)
	require.NoError(t, err)
	assert.Equal(t, 0, getv.Sign())
}

func TestBoostWeight(t *testing.T) {
	p := newParams()

	w, err := p.BoostWeight()
	require.NoError(t, err)
	assert.Equal(t, thor.InitialBoostWeight.String(), w.String())

	require.NoError(t, p.SetBoostWeight(big.NewInt(5e17)))
	w, err = p.BoostWeight()
	require.NoError(t, err)
	assert.Equal(t, "500000000000000000", w.String())

	require.NoError(t, p.SetBoostWeight(thor.Scale))

	for _, bad := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1), new(big.Int).Add(thor.Scale, big.NewInt(1))} {
		err := p.SetBoostWeight(bad)
		assert.True(t, reverts.IsRevertErr(err), "%v should be rejected", bad)
	}
}

func TestMaxDayIterations(t *testing.T) {
	p := newParams()

	n, err := p.MaxDayIterations()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	require.NoError(t, p.SetMaxDayIterations(30))
	n, err = p.MaxDayIterations()
	require.NoError(t, err)
	assert.Equal(t, uint64(30), n)
}
