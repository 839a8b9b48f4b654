// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewarder/builtin/rewards"
	"github.com/vechain/rewarder/cmd/rewarder/config"
	"github.com/vechain/rewarder/ledger"
	"github.com/vechain/rewarder/thor"
)

func replayAction(ctx *cli.Context) error {
	initLogger(ctx)

	path := ctx.String(eventsFlag.Name)
	if path == "" {
		return errors.New("events file required, use -events to specify")
	}
	events, err := config.LoadEvents(path)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(ctx)
	if err != nil {
		return err
	}
	defer mainDB.Close()

	eng, err := newEngine(mainDB, cfg)
	if err != nil {
		return err
	}
	if err := eng.apply(cfg); err != nil {
		return errors.WithMessage(err, "apply config")
	}

	book, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer book.Close()
	eng.ledger = book
	eng.progress = isatty.IsTerminal(os.Stderr.Fd())

	return eng.replay(events, ctx.App.Writer)
}

// replay applies events in order, each one committed on its own. Applied
// events are recorded in the ledger under a fresh run id before the store
// commits, so a failed event or a failed ledger insert leaves the store
// untouched and aborts the replay.
func (e *engine) replay(events []config.Event, w io.Writer) error {
	run := uuid.New()
	bar := pb.New(len(events)).SetMaxWidth(90)
	bar.Output = os.Stderr
	bar.NotPrint = !e.progress
	bar.Start()
	defer bar.Finish()

	for i, ev := range events {
		record := func(result *big.Int) error {
			if err := e.record(run, uint64(i), &ev, result); err != nil {
				return errors.WithMessage(err, "record")
			}
			return nil
		}
		result, err := e.replayOne(&ev, record)
		if err != nil {
			return errors.WithMessagef(err, "event %d (%s)", i, ev.Kind)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\n", i, ev.Kind, ev.Source, ev.User, result)
		bar.Increment()
	}
	logger.Info("replay done", "run", run, "events", len(events))
	return nil
}

func (e *engine) record(run string, seq uint64, ev *config.Event, result *big.Int) error {
	if e.ledger == nil {
		return nil
	}
	user, err := ev.UserAddress()
	if err != nil {
		return err
	}
	at := ev.At
	if ev.Kind == config.EventSnapshot {
		at = thor.DayEnd(ev.Day) - 1
	}
	return e.ledger.Insert(context.Background(), &ledger.Entry{
		Run:    run,
		Seq:    seq,
		At:     at,
		Kind:   ev.Kind,
		Source: ev.Source,
		User:   user,
		Amount: result,
	})
}

func (e *engine) replayOne(ev *config.Event, record func(*big.Int) error) (result *big.Int, err error) {
	user, err := ev.UserAddress()
	if err != nil {
		return nil, err
	}
	switch ev.Kind {
	case config.EventBalance:
		return e.replayBalance(ev, user, record)
	case config.EventClaim:
		err = e.exec(func(r *rewards.Rewards) (err error) {
			if ev.Source != "" {
				result, err = r.ClaimSource(user, ev.Source, ev.At)
			} else {
				result, err = r.Claim(user, ev.At)
			}
			if err != nil {
				return err
			}
			return record(result)
		})
	case config.EventSnapshot:
		err = e.exec(func(r *rewards.Rewards) (err error) {
			if result, err = r.SnapshotValue(ev.Source, ev.Day); err != nil {
				return err
			}
			return record(result)
		})
	case config.EventCatchUp:
		err = e.exec(func(r *rewards.Rewards) error {
			last, err := r.CatchUp(ev.Source, ev.At, ev.Days)
			if err != nil {
				return err
			}
			result = new(big.Int).SetUint64(last)
			return record(result)
		})
	default:
		err = errors.Errorf("unknown event kind %q", ev.Kind)
	}
	return result, err
}

// replayBalance moves the oracle to the new balance and reports the change
// with the balance the oracle held before.
func (e *engine) replayBalance(ev *config.Event, user thor.Address, record func(*big.Int) error) (*big.Int, error) {
	balance, err := config.ParseAmount(ev.Balance)
	if err != nil {
		return nil, err
	}
	supply, err := config.ParseAmount(ev.Supply)
	if err != nil {
		return nil, err
	}
	prev, err := e.static.BalanceAndSupply(ev.Source, user)
	if err != nil {
		return nil, err
	}

	e.static.SetBalance(ev.Source, user, balance)
	e.static.SetSupply(ev.Source, supply)

	var settled *big.Int
	err = e.exec(func(r *rewards.Rewards) (err error) {
		settled, err = r.UpdateBalance(rewards.BalanceChange{
			User:        user,
			Source:      ev.Source,
			PrevBalance: prev.Balance,
			PrevSupply:  prev.Supply,
			Balance:     balance,
			Supply:      supply,
		}, ev.At)
		if err != nil {
			return err
		}
		return record(settled)
	})
	if err != nil {
		e.static.SetBalance(ev.Source, user, prev.Balance)
		e.static.SetSupply(ev.Source, prev.Supply)
		return nil, err
	}
	return settled, nil
}
