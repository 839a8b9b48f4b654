// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accumulator integrates the daily emission of a reward source into a
// running weight, and settles users against their last observed weight.
package accumulator

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/rewarder/builtin/reverts"
	"github.com/vechain/rewarder/builtin/solidity"
	"github.com/vechain/rewarder/log"
	"github.com/vechain/rewarder/oracle"
	"github.com/vechain/rewarder/thor"
)

var (
	slotTotalWeight = thor.BytesToBytes32([]byte("total-weight"))
	slotLastUpdate  = thor.BytesToBytes32([]byte("last-update"))
	slotUserWeights = thor.BytesToBytes32([]byte("user-weights"))
	slotTotalDist   = thor.BytesToBytes32([]byte("total-dist"))

	logger = log.WithContext("pkg", "accumulator")
)

// ErrDayBudgetExceeded is returned when advancing the weight would cross more
// days than allowed in one call. CatchUp advances in bounded chunks instead.
var ErrDayBudgetExceeded = errors.New("day iteration budget exceeded")

// Service owns the running weight of one source.
type Service struct {
	name     string
	emission oracle.EmissionSchedule
	maxDays  uint64

	totalWeight *solidity.Value[*big.Int]
	lastUpdate  *solidity.Uint256
	userWeights *solidity.Mapping[thor.Address, *big.Int]
	totalDist   *solidity.Mapping[solidity.Uint64Key, *big.Int]
}

// New binds the accumulator of source name to sctx, which must address the
// source's own namespace. maxDays bounds the days a single advance may touch,
// zero means unbounded.
func New(sctx *solidity.Context, name string, emission oracle.EmissionSchedule, maxDays uint64) *Service {
	return &Service{
		name:        name,
		emission:    emission,
		maxDays:     maxDays,
		totalWeight: solidity.NewValue[*big.Int](sctx, slotTotalWeight),
		lastUpdate:  solidity.NewUint256(sctx, slotLastUpdate),
		userWeights: solidity.NewMapping[thor.Address, *big.Int](sctx, slotUserWeights),
		totalDist:   solidity.NewMapping[solidity.Uint64Key, *big.Int](sctx, slotTotalDist),
	}
}

// TotalWeight returns the persisted running weight.
func (s *Service) TotalWeight() (*big.Int, error) {
	return s.totalWeight.Get()
}

// LastUpdate returns the microsecond timestamp the weight was last advanced to.
// Zero means the source has never been touched.
func (s *Service) LastUpdate() (uint64, error) {
	v, err := s.lastUpdate.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

// UserWeight returns the weight the user was last settled at.
func (s *Service) UserWeight(user thor.Address) (*big.Int, error) {
	return s.userWeights.Get(user)
}

// TotalDist returns the emission of day. The first successful lookup is cached
// unless readOnly. A failed lookup counts as zero emission and is not cached.
func (s *Service) TotalDist(day uint64, readOnly bool) (*big.Int, error) {
	cached, ok, err := s.totalDist.Lookup(solidity.Uint64Key(day))
	if err != nil {
		return nil, err
	}
	if ok {
		return cached, nil
	}

	dist, err := s.emission.TotalDistribution(s.name, day)
	if err != nil {
		logger.Warn("emission lookup failed, treating as zero", "source", s.name, "day", day, "err", err)
		metricEmissionFallback().AddWithLabel(1, map[string]string{"source": s.name})
		return new(big.Int), nil
	}
	if dist == nil || dist.Sign() < 0 {
		logger.Warn("invalid emission, treating as zero", "source", s.name, "day", day, "value", dist)
		metricEmissionFallback().AddWithLabel(1, map[string]string{"source": s.name})
		return new(big.Int), nil
	}
	if !readOnly {
		if err := s.totalDist.Set(solidity.Uint64Key(day), dist); err != nil {
			return nil, err
		}
	}
	return dist, nil
}

// SetTotalDist overrides the cached emission of day.
func (s *Service) SetTotalDist(day uint64, dist *big.Int) error {
	if dist == nil || dist.Sign() < 0 {
		return reverts.New("total dist must not be negative")
	}
	return s.totalDist.Set(solidity.Uint64Key(day), dist)
}

// segments returns how many days the interval [from, to) touches.
func segments(from, to uint64) uint64 {
	if from >= to {
		return 0
	}
	return thor.DayOf(to-1) - thor.DayOf(from) + 1
}

// AdvanceWeight integrates emission from the last update up to now, one day
// segment at a time, against a constant workingSupply.
// The first call on a source only records now.
func (s *Service) AdvanceWeight(now uint64, workingSupply *big.Int, readOnly bool) (*big.Int, error) {
	last, err := s.LastUpdate()
	if err != nil {
		return nil, err
	}
	if s.maxDays > 0 && last != 0 {
		if n := segments(last, now); n > s.maxDays {
			return nil, errors.Wrapf(ErrDayBudgetExceeded, "source %q spans %d days, budget %d", s.name, n, s.maxDays)
		}
	}
	return s.advance(last, now, workingSupply, readOnly)
}

// CatchUp advances the weight by at most days whole days towards now, and
// returns the new last update. The configured budget caps days.
func (s *Service) CatchUp(now uint64, workingSupply *big.Int, days uint64) (uint64, error) {
	if s.maxDays > 0 && (days == 0 || days > s.maxDays) {
		days = s.maxDays
	}
	last, err := s.LastUpdate()
	if err != nil {
		return 0, err
	}
	target := now
	if last != 0 && days > 0 {
		if limit := thor.DayEnd(thor.DayOf(last) + days - 1); limit < target {
			target = limit
		}
	}
	if _, err := s.advance(last, target, workingSupply, false); err != nil {
		return 0, err
	}
	return s.LastUpdate()
}

func (s *Service) advance(last, now uint64, workingSupply *big.Int, readOnly bool) (*big.Int, error) {
	weight, err := s.totalWeight.Get()
	if err != nil {
		return nil, err
	}
	if last == 0 {
		if !readOnly {
			s.lastUpdate.Set(new(big.Int).SetUint64(now))
		}
		return weight, nil
	}
	if last >= now {
		return weight, nil
	}
	if workingSupply == nil || workingSupply.Sign() < 0 {
		return nil, reverts.Newf("working supply %v must not be negative", workingSupply)
	}

	var (
		days    int64
		elapsed = new(big.Int)
		delta   = new(big.Int)
		denom   = new(big.Int).Mul(new(big.Int).SetUint64(thor.MicrosecondsPerDay), workingSupply)
	)
	for last < now {
		day := thor.DayOf(last)
		end := min(thor.DayEnd(day), now)

		emission, err := s.TotalDist(day, readOnly)
		if err != nil {
			return nil, err
		}
		if emission.Sign() > 0 && workingSupply.Sign() > 0 {
			elapsed.SetUint64(end - last)
			delta.Mul(emission, elapsed)
			delta.Mul(delta, thor.Scale)
			delta.Quo(delta, denom)
			weight.Add(weight, delta)
		}
		last = end
		days++
	}
	metricDaySegments().Observe(days)

	if !readOnly {
		if err := s.totalWeight.Set(weight); err != nil {
			return nil, err
		}
		s.lastUpdate.Set(new(big.Int).SetUint64(last))
	}
	return weight, nil
}

// SettleUser advances the weight and returns the reward accrued by user since
// the last settlement, computed on prevWorkingBalance. The user's snapshot
// moves to the new weight unless readOnly.
func (s *Service) SettleUser(
	now uint64,
	prevWorkingSupply *big.Int,
	user thor.Address,
	prevWorkingBalance *big.Int,
	readOnly bool,
) (*big.Int, error) {
	total, err := s.AdvanceWeight(now, prevWorkingSupply, readOnly)
	if err != nil {
		return nil, err
	}
	userWeight, err := s.UserWeight(user)
	if err != nil {
		return nil, err
	}

	switch total.Cmp(userWeight) {
	case 0:
		return new(big.Int), nil
	case -1:
		return nil, errors.Errorf("user weight %v exceeds total weight %v of %q", userWeight, total, s.name)
	}

	accrued := new(big.Int)
	if prevWorkingBalance != nil && prevWorkingBalance.Sign() > 0 {
		accrued.Sub(total, userWeight)
		accrued.Mul(accrued, prevWorkingBalance)
		accrued.Quo(accrued, thor.Scale)
	}
	if !readOnly {
		if err := s.userWeights.Set(user, total); err != nil {
			return nil, err
		}
	}
	return accrued, nil
}
