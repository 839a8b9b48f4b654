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
	"github.com/vechain/rewarder/thor"
)

func TestValue(t *testing.T) {
	ctx, _ := newTestContext()
	v := NewValue[*big.Int](ctx, thor.Bytes32{9})

	got, exists, err := v.Lookup()
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 0, got.Sign())

	// zero is distinguishable from unset
	require.NoError(t, v.Set(big.NewInt(0)))
	got, exists, err = v.Lookup()
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 0, got.Sign())

	require.NoError(t, v.Set(big.NewInt(77)))
	got, err = v.Get()
	require.NoError(t, err)
	assert.Equal(t, "77", got.String())
}

func TestValueNegative(t *testing.T) {
	ctx, _ := newTestContext()
	v := NewValue[*big.Int](ctx, thor.Bytes32{9})
	assert.Error(t, v.Set(big.NewInt(-1)), "rlp cannot encode negative integers")
}
