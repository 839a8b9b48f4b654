// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

type Status struct {
	Healthy    bool       `json:"healthy"`
	Store      bool       `json:"store"`
	LastCommit *time.Time `json:"lastCommit"`
	LastError  string     `json:"lastError,omitempty"`
}

// Health tracks whether the engine can read its store and whether the last
// settlement it attempted went through.
type Health struct {
	lock       sync.RWMutex
	probe      func() error
	lastCommit time.Time
	lastErr    error
}

// New creates a Health. probe is called on every status query and should
// read something from the store.
func New(probe func() error) *Health {
	return &Health{probe: probe}
}

// Committed records a successful commit and clears the last failure.
func (h *Health) Committed() {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastCommit = time.Now()
	h.lastErr = nil
}

// Failed records a settlement that could not complete.
func (h *Health) Failed(err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastErr = err
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{Store: true}
	if h.probe != nil {
		status.Store = h.probe() == nil
	}
	if !h.lastCommit.IsZero() {
		lastCommit := h.lastCommit
		status.LastCommit = &lastCommit
	}
	if h.lastErr != nil {
		status.LastError = h.lastErr.Error()
	}
	status.Healthy = status.Store && h.lastErr == nil
	return status, nil
}
