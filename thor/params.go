// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"
)

// Constants of the rewards engine.
const (
	MicrosecondsPerDay uint64 = 24 * 60 * 60 * 1000 * 1000

	// MaxSourceNameLength bounds the length of a reward source name in bytes.
	MaxSourceNameLength = 64
)

// Scale is the fixed-point denominator (1e18) used by every weight and ratio.
// Callers must never mutate it.
var Scale = big.NewInt(1e18)

// Keys of governance params.
var (
	KeyBoostWeight       = BytesToBytes32([]byte("boost-weight"))
	KeyMaxDayIterations  = BytesToBytes32([]byte("max-day-iterations"))
	InitialBoostWeight   = big.NewInt(4e17) // 40%
	InitialDayIterations = big.NewInt(0)    // unbounded
)

// DayOf returns the index of the day containing the microsecond timestamp.
func DayOf(timestampUs uint64) uint64 {
	return timestampUs / MicrosecondsPerDay
}

// DayEnd returns the first microsecond after the given day.
func DayEnd(day uint64) uint64 {
	return (day + 1) * MicrosecondsPerDay
}
