// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// EmissionStep defines the daily emission active from StartDay onward.
type EmissionStep struct {
	StartDay uint64
	Amount   *big.Int
}

// Schedule is a piecewise-constant emission schedule. Days before the first
// step emit nothing.
type Schedule []EmissionStep

// Validate ensures steps are well formed.
func (s Schedule) Validate() error {
	steps := s.sorted()
	for i := range steps {
		if steps[i].Amount == nil {
			return fmt.Errorf("schedule step %d: amount must not be nil", i)
		}
		if steps[i].Amount.Sign() < 0 {
			return fmt.Errorf("schedule step %d: amount must be non-negative", i)
		}
		if i > 0 && steps[i].StartDay == steps[i-1].StartDay {
			return fmt.Errorf("schedule step %d: duplicate start day %d", i, steps[i].StartDay)
		}
	}
	return nil
}

func (s Schedule) sorted() Schedule {
	steps := make(Schedule, len(s))
	copy(steps, s)
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].StartDay < steps[j].StartDay
	})
	return steps
}

// At returns the emission of the given day. s must be sorted.
func (s Schedule) At(day uint64) *big.Int {
	i := sort.Search(len(s), func(i int) bool {
		return s[i].StartDay > day
	})
	if i == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(s[i-1].Amount)
}

// Emissions is an in-memory EmissionSchedule keyed by source name.
type Emissions struct {
	mu        sync.RWMutex
	schedules map[string]Schedule
	down      map[string]bool
	queries   int
}

func NewEmissions() *Emissions {
	return &Emissions{
		schedules: make(map[string]Schedule),
		down:      make(map[string]bool),
	}
}

// SetSchedule installs the schedule of a source, replacing any previous one.
func (e *Emissions) SetSchedule(source string, s Schedule) error {
	if err := s.Validate(); err != nil {
		return errors.WithMessagef(err, "source %q", source)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.schedules[source] = s.sorted()
	return nil
}

// SetUnavailable makes lookups of the source fail until reset.
func (e *Emissions) SetUnavailable(source string, down bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.down[source] = down
}

// Queries returns how many lookups were served, failed ones included.
func (e *Emissions) Queries() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.queries
}

// TotalDistribution implements EmissionSchedule.
func (e *Emissions) TotalDistribution(source string, day uint64) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queries++
	if e.down[source] {
		return nil, errors.Wrapf(ErrUnavailable, "emission of %q", source)
	}
	return e.schedules[source].At(day), nil
}
