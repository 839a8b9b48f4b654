// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "encoding/binary"

type Key interface {
	Bytes() []byte
}

// Uint64Key keys a mapping by number, e.g. a day index.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// StringKey keys a mapping by name.
type StringKey string

func (k StringKey) Bytes() []byte {
	return []byte(k)
}
