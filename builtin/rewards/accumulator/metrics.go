// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accumulator

import "github.com/vechain/rewarder/metrics"

var (
	metricEmissionFallback = metrics.LazyLoadCounterVec("rewards_emission_fallback_count", []string{"source"})
	metricDaySegments      = metrics.LazyLoadHistogram("rewards_day_segments", metrics.BucketDays)
)
