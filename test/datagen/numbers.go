// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"fmt"
	"math/big"
	mathrand "math/rand/v2"
)

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

func RandUint64N(n uint64) uint64 {
	return mathrand.N(n) //#nosec G404
}

// RandBigIntN returns a random value in [0, n).
func RandBigIntN(n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		return new(big.Int)
	}
	// 128 random bits are wide enough for any amount used in tests
	hi := new(big.Int).SetUint64(mathrand.Uint64()) //#nosec G404
	lo := new(big.Int).SetUint64(mathrand.Uint64()) //#nosec G404
	r := new(big.Int).Lsh(hi, 64)
	r.Or(r, lo)
	return r.Mod(r, n)
}

// RandSourceName returns a unique looking source name.
func RandSourceName() string {
	return fmt.Sprintf("pool-%08x", mathrand.Uint32()) //#nosec G404
}
