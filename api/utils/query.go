// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/vechain/rewarder/thor"
)

// ParseTimestamp parses a microsecond timestamp. Empty or "now" yields now.
func ParseTimestamp(s string, now uint64) (uint64, error) {
	if s == "" || s == "now" {
		return now, nil
	}
	ts, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "invalid timestamp")
	}
	return ts, nil
}

// ParseDay parses a day index. Empty or "today" yields the day containing now.
func ParseDay(s string, now uint64) (uint64, error) {
	if s == "" || s == "today" {
		return thor.DayOf(now), nil
	}
	day, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "invalid day")
	}
	return day, nil
}
