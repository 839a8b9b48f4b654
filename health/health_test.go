// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_Committed(t *testing.T) {
	h := New(nil)

	status, err := h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Nil(t, status.LastCommit)

	h.Committed()
	status, err = h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	require.NotNil(t, status.LastCommit)
	assert.WithinDuration(t, time.Now(), *status.LastCommit, time.Second)
}

func TestHealth_Failed(t *testing.T) {
	h := New(nil)

	h.Failed(errors.New("oracle unavailable"))
	status, err := h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.Equal(t, "oracle unavailable", status.LastError)

	h.Committed()
	status, err = h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Empty(t, status.LastError)
}

func TestHealth_Probe(t *testing.T) {
	var probeErr error
	h := New(func() error { return probeErr })

	status, err := h.Status()
	require.NoError(t, err)
	assert.True(t, status.Store)

	probeErr = errors.New("closed")
	status, err = h.Status()
	require.NoError(t, err)
	assert.False(t, status.Store)
	assert.False(t, status.Healthy)
}
