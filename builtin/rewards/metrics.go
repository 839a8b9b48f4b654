// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import "github.com/vechain/rewarder/metrics"

var (
	metricSettlements   = metrics.LazyLoadCounterVec("rewards_settlements_count", []string{"trigger", "outcome"})
	metricStorageWords  = metrics.LazyLoadCounterVec("rewards_storage_words_count", []string{"op"})
	metricClaimedSource = metrics.LazyLoadCounterVec("rewards_claim_sources_count", []string{"source"})
)

func observeStorage(write bool, words uint64) {
	op := "read"
	if write {
		op = "write"
	}
	metricStorageWords().AddWithLabel(int64(words), map[string]string{"op": op})
}
