// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// LRU wraps golang-lru and counts hits and misses.
type LRU struct {
	c         *lru.Cache
	hit, miss atomic.Int64
}

// NewLRU creates a LRU cache holding at most maxSize entries.
// maxSize should be > 0, or an error returned.
func NewLRU(maxSize int) (*LRU, error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{c: c}, nil
}

// Loader loads the value of a missed key.
type Loader func(key any) (any, error)

// Get returns the cached value of key.
func (l *LRU) Get(key any) (any, bool) {
	v, ok := l.c.Get(key)
	if ok {
		l.hit.Add(1)
	} else {
		l.miss.Add(1)
	}
	return v, ok
}

// Add puts the value of key into the cache.
func (l *LRU) Add(key, value any) {
	l.c.Add(key, value)
}

// Remove evicts key.
func (l *LRU) Remove(key any) {
	l.c.Remove(key)
}

// Len returns the count of cached entries.
func (l *LRU) Len() int {
	return l.c.Len()
}

// Counts returns the number of lookups that hit and missed.
func (l *LRU) Counts() (hit, miss int64) {
	return l.hit.Load(), l.miss.Load()
}

// GetOrLoad first tries to get from cache, does load if missed.
// Loaded values are cached only when loader succeeds.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		return nil, err
	}
	l.c.Add(key, v)
	return v, nil
}
