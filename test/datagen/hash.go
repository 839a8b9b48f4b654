// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/vechain/rewarder/thor"
)

// RandomHash returns a random storage slot.
func RandomHash() (b thor.Bytes32) {
	rand.Read(b[:])
	return
}

// RandAddress returns a random user or source address.
func RandAddress() (a thor.Address) {
	rand.Read(a[:])
	return
}
