// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter reads slots.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter writes slots.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk buffers writes until Write applies them atomically.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

// Store is what the state layer persists into.
type Store interface {
	Getter
	Putter
	Bulk() Bulk
}

// GetPutCloser is a store owning underlying resources.
type GetPutCloser interface {
	Store
	Close() error
}
