// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewarder/kv"
	"github.com/vechain/rewarder/state"
	"github.com/vechain/rewarder/test/datagen"
	"github.com/vechain/rewarder/thor"
)

type TestStruct struct {
	Field1 uint64
	Amount *big.Int
	Addr1  thor.Address
	Bytes1 thor.Bytes32
}

type accessCounter struct {
	reads, writes uint64
}

func (a *accessCounter) observe(write bool, words uint64) {
	if write {
		a.writes += words
	} else {
		a.reads += words
	}
}

// newTestContext returns a fresh Context over an in-memory store.
func newTestContext() (*Context, *accessCounter) {
	st := state.NewStater(kv.NewMemLevelDB()).NewState()
	counter := &accessCounter{}
	return NewContext(thor.Address{1}, st, counter.observe), counter
}

func newRandomStruct() *TestStruct {
	return &TestStruct{
		Field1: 100,
		Amount: big.NewInt(200),
		Addr1:  datagen.RandAddress(),
		Bytes1: datagen.RandomHash(),
	}
}

func TestMapping_SetGet(t *testing.T) {
	ctx, counter := newTestContext()
	m := NewMapping[thor.Bytes32, *TestStruct](ctx, thor.Bytes32{1})

	key := datagen.RandomHash()
	value := newRandomStruct()
	require.NoError(t, m.Set(key, value))
	assert.NotZero(t, counter.writes)

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)
	assert.NotZero(t, counter.reads)
}

func TestMapping_Missing(t *testing.T) {
	ctx, counter := newTestContext()
	m := NewMapping[thor.Address, *TestStruct](ctx, thor.Bytes32{1})

	got, exists, err := m.Lookup(datagen.RandAddress())
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NotNil(t, got, "pointer values are allocated")
	assert.Equal(t, uint64(0), got.Field1)
	assert.Zero(t, counter.reads)

	n := NewMapping[Uint64Key, uint64](ctx, thor.Bytes32{2})
	v, err := n.Get(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestMapping_Delete(t *testing.T) {
	ctx, _ := newTestContext()
	m := NewMapping[StringKey, uint64](ctx, thor.Bytes32{1})

	require.NoError(t, m.Set("alpha", 42))
	_, exists, err := m.Lookup("alpha")
	require.NoError(t, err)
	assert.True(t, exists)

	m.Delete("alpha")
	v, exists, err := m.Lookup("alpha")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, uint64(0), v)
}

func TestMapping_Isolation(t *testing.T) {
	ctx, _ := newTestContext()
	other := ctx.WithAddress(thor.Address{2})

	m1 := NewMapping[Uint64Key, uint64](ctx, thor.Bytes32{1})
	m2 := NewMapping[Uint64Key, uint64](ctx, thor.Bytes32{2})
	m3 := NewMapping[Uint64Key, uint64](other, thor.Bytes32{1})

	require.NoError(t, m1.Set(1, 10))

	v, err := m2.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v, "different positions are isolated")

	v, err = m3.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v, "different addresses are isolated")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, Uint64Key(258).Bytes())
	assert.Equal(t, []byte("abc"), StringKey("abc").Bytes())
}
