// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/rewarder/cache"
	"github.com/vechain/rewarder/kv"
)

const (
	storageBucket = kv.Bucket("s")

	defaultCacheSize = 8192
)

// Stater is the state creator.
type Stater struct {
	store kv.Store
	cache *cache.LRU
}

// NewStater create a new stater over the given store.
func NewStater(store kv.Store) *Stater {
	c, _ := cache.NewLRU(defaultCacheSize)
	return &Stater{
		store: storageBucket.NewStore(store),
		cache: c,
	}
}

// NewState create a new state object reflecting the latest committed storage.
func (s *Stater) NewState() *State {
	return New(s.store, s.cache)
}

// CacheStats returns hit and miss counts of the storage cache.
func (s *Stater) CacheStats() (hit, miss int64) {
	return s.cache.Counts()
}
