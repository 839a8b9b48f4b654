// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/rewarder/builtin/rewards/source"
	"github.com/vechain/rewarder/builtin/rewards/working"
	"github.com/vechain/rewarder/thor"
)

// Phase is a step of a settlement.
type Phase string

const (
	PhaseStart               Phase = "start"
	PhaseFetchPrevBalance    Phase = "fetch-prev-balance"
	PhaseFetchCurrentBalance Phase = "fetch-current-balance"
	PhaseSettleOldWeight     Phase = "settle-old-weight"
	PhaseSettleCurrentWeight Phase = "settle-current-weight"
	PhaseRecomputeWorking    Phase = "recompute-working"
	PhaseCommit              Phase = "commit"
)

const (
	triggerBalance  = "balance"
	triggerClaim    = "claim"
	triggerCatchUp  = "catchup"
	triggerSnapshot = "snapshot"
)

// BalanceChange describes a raw balance movement of user in a source.
// Prev values are taken before the change, the others after it.
type BalanceChange struct {
	User        thor.Address
	Source      string
	PrevBalance *big.Int
	PrevSupply  *big.Int
	Balance     *big.Int
	Supply      *big.Int
}

// atomic runs fn as one all-or-nothing unit: on error every write made by fn
// is reverted.
func (r *Rewards) atomic(trigger string, fn func() error) error {
	checkpoint := r.state.NewCheckpoint()
	err := fn()
	if err != nil {
		r.state.RevertTo(checkpoint)
	}
	metricSettlements().AddWithLabel(1, map[string]string{"trigger": trigger, "outcome": outcome(err)})
	return err
}

func (r *Rewards) credit(user thor.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	held, err := r.holdings.Get(user)
	if err != nil {
		return err
	}
	return r.holdings.Set(user, held.Add(held, amount))
}

// UpdateBalance settles user against the balance held before the change,
// then records the new working balance. The accrued reward is credited to
// the user's holdings and returned.
func (r *Rewards) UpdateBalance(ev BalanceChange, now uint64) (*big.Int, error) {
	var accrued *big.Int
	err := r.atomic(triggerBalance, func() error {
		phase := PhaseStart
		fail := func(err error) error {
			return errors.WithMessagef(err, "update balance of %v in %q: %s", ev.User, ev.Source, phase)
		}

		for _, v := range []struct {
			what  string
			value *big.Int
		}{
			{"previous balance", ev.PrevBalance},
			{"previous supply", ev.PrevSupply},
			{"balance", ev.Balance},
			{"supply", ev.Supply},
		} {
			if err := requireAmount(v.what, v.value); err != nil {
				return fail(err)
			}
		}
		s, err := r.open(ev.Source)
		if err != nil {
			return fail(err)
		}

		if s.source.Mode == source.ModeLegacy {
			phase = PhaseSettleOldWeight
			if accrued, err = s.accumulator.SettleUser(now, ev.PrevSupply, ev.User, ev.PrevBalance, false); err != nil {
				return fail(err)
			}
		} else {
			phase = PhaseFetchPrevBalance
			prevBalance, err := s.working.BalanceFrom(ev.User, ev.PrevBalance, false)
			if err != nil {
				return fail(err)
			}
			prevSupply, err := s.working.SupplyFrom(ev.PrevSupply, false)
			if err != nil {
				return fail(err)
			}

			phase = PhaseSettleOldWeight
			if accrued, err = s.accumulator.SettleUser(now, prevSupply, ev.User, prevBalance, false); err != nil {
				return fail(err)
			}

			phase = PhaseRecomputeWorking
			boost, err := r.deps.Boost.BoostData(ev.User)
			if err != nil {
				return fail(err)
			}
			w, err := r.params.BoostWeight()
			if err != nil {
				return fail(err)
			}
			balance, supply, err := s.working.Update(ev.User, working.Inputs{
				RawBalance:         ev.Balance,
				RawSupply:          ev.Supply,
				BoostedBalance:     boost.Balance,
				BoostedSupply:      boost.Supply,
				PrevWorkingBalance: prevBalance,
				PrevWorkingSupply:  prevSupply,
			}, w)
			if err != nil {
				return fail(err)
			}
			logger.Trace("working balance updated", "source", ev.Source, "user", ev.User, "balance", balance, "supply", supply)
		}

		phase = PhaseCommit
		if err := r.credit(ev.User, accrued); err != nil {
			return fail(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("balance settled", "source", ev.Source, "user", ev.User, "accrued", accrued)
	return accrued, nil
}

// settleCurrent settles user in one source against its current balance.
func (r *Rewards) settleCurrent(s *services, user thor.Address, now uint64, readOnly bool) (*big.Int, error) {
	phase := PhaseFetchCurrentBalance
	fail := func(err error) error {
		return errors.WithMessagef(err, "settle %v in %q: %s", user, s.source.Name, phase)
	}

	var balance, supply *big.Int
	if s.source.Mode == source.ModeLegacy {
		raw, err := r.deps.Balances.BalanceAndSupply(s.source.Name, user)
		if err != nil {
			return nil, fail(err)
		}
		balance, supply = raw.Balance, raw.Supply
	} else {
		var err error
		if balance, supply, err = s.working.Current(user, r.deps.Balances, readOnly); err != nil {
			return nil, fail(err)
		}
	}

	phase = PhaseSettleCurrentWeight
	accrued, err := s.accumulator.SettleUser(now, supply, user, balance, readOnly)
	if err != nil {
		return nil, fail(err)
	}
	return accrued, nil
}

// Claim settles user in every active source and pays out everything the user
// holds. Holdings are zeroed.
func (r *Rewards) Claim(user thor.Address, now uint64) (*big.Int, error) {
	var paid *big.Int
	err := r.atomic(triggerClaim, func() error {
		sources, err := r.registry.Active()
		if err != nil {
			return err
		}
		for _, src := range sources {
			if _, err := r.claimSource(src.Name, user, now); err != nil {
				return err
			}
		}
		paid, err = r.payout(user)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("rewards claimed", "user", user, "amount", paid)
	return paid, nil
}

// ClaimSource settles user in one source, active or not, and pays out
// everything the user holds.
func (r *Rewards) ClaimSource(user thor.Address, name string, now uint64) (*big.Int, error) {
	var paid *big.Int
	err := r.atomic(triggerClaim, func() error {
		if _, err := r.claimSource(name, user, now); err != nil {
			return err
		}
		var err error
		paid, err = r.payout(user)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("source claimed", "source", name, "user", user, "amount", paid)
	return paid, nil
}

func (r *Rewards) claimSource(name string, user thor.Address, now uint64) (*big.Int, error) {
	s, err := r.open(name)
	if err != nil {
		return nil, err
	}
	accrued, err := r.settleCurrent(s, user, now, false)
	if err != nil {
		return nil, err
	}
	if err := r.credit(user, accrued); err != nil {
		return nil, err
	}
	metricClaimedSource().AddWithLabel(1, map[string]string{"source": name})
	return accrued, nil
}

func (r *Rewards) payout(user thor.Address) (*big.Int, error) {
	held, err := r.holdings.Get(user)
	if err != nil {
		return nil, err
	}
	if held.Sign() > 0 {
		r.holdings.Delete(user)
	}
	return held, nil
}

// SourcePending is the reward a user would receive from one source.
type SourcePending struct {
	Source string
	Amount *big.Int
}

// Pending is what a claim at now would pay out.
type Pending struct {
	Sources  []SourcePending
	Holdings *big.Int
	Total    *big.Int
}

// Pending evaluates a claim of user at now without writing anything.
func (r *Rewards) Pending(user thor.Address, now uint64) (*Pending, error) {
	sources, err := r.registry.Active()
	if err != nil {
		return nil, err
	}
	held, err := r.holdings.Get(user)
	if err != nil {
		return nil, err
	}
	pending := &Pending{
		Sources:  make([]SourcePending, 0, len(sources)),
		Holdings: held,
		Total:    new(big.Int).Set(held),
	}
	for _, src := range sources {
		s, err := r.open(src.Name)
		if err != nil {
			return nil, err
		}
		accrued, err := r.settleCurrent(s, user, now, true)
		if err != nil {
			return nil, err
		}
		pending.Sources = append(pending.Sources, SourcePending{Source: src.Name, Amount: accrued})
		pending.Total.Add(pending.Total, accrued)
	}
	return pending, nil
}

// CatchUp advances the weight of a dormant source by at most days whole days
// without settling any user, and returns the new last update. Zero days means
// as far as the day budget allows.
func (r *Rewards) CatchUp(name string, now uint64, days uint64) (uint64, error) {
	var last uint64
	err := r.atomic(triggerCatchUp, func() error {
		s, err := r.open(name)
		if err != nil {
			return err
		}
		supply, err := r.workingSupply(s)
		if err != nil {
			return errors.WithMessagef(err, "catch up %q", name)
		}
		last, err = s.accumulator.CatchUp(now, supply, days)
		return err
	})
	if err != nil {
		return 0, err
	}
	logger.Debug("source caught up", "source", name, "last", last)
	return last, nil
}

// workingSupply returns the supply the source integrates against. It is
// constant between settlements, so reading it does not migrate anything.
func (r *Rewards) workingSupply(s *services) (*big.Int, error) {
	if s.source.Mode == source.ModeBoosted {
		rec, err := s.working.LookupSupply()
		if err != nil {
			return nil, err
		}
		if rec.Migrated {
			return rec.Value, nil
		}
	}
	raw, err := r.deps.Balances.BalanceAndSupply(s.source.Name, thor.Address{})
	if err != nil {
		return nil, err
	}
	return raw.Supply, nil
}

// SnapshotValue records the oracle value of source name for day.
func (r *Rewards) SnapshotValue(name string, day uint64) (*big.Int, error) {
	var value *big.Int
	err := r.atomic(triggerSnapshot, func() error {
		var err error
		value, err = r.registry.SnapshotValue(name, day, r.deps.Balances)
		return err
	})
	return value, err
}
