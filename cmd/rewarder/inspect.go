// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewarder/api/utils"
	"github.com/vechain/rewarder/builtin/rewards"
	"github.com/vechain/rewarder/ledger"
	"github.com/vechain/rewarder/thor"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)

	name := ctx.String(sourceFlag.Name)
	if name == "" {
		return errors.New("source required, use -source to specify")
	}
	day, err := utils.ParseDay(ctx.String(dayFlag.Name), clock())
	if err != nil {
		return err
	}
	var user *thor.Address
	if s := ctx.String(userFlag.Name); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return errors.WithMessage(err, "user")
		}
		user = &addr
	}

	mainDB, err := openMainDB(ctx)
	if err != nil {
		return err
	}
	defer mainDB.Close()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	eng, err := newEngine(mainDB, cfg)
	if err != nil {
		return err
	}
	book, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer book.Close()
	eng.ledger = book

	return eng.inspect(ctx.App.Writer, name, day, user)
}

// inspect dumps the stored records of a source. The view is never committed.
func (e *engine) inspect(w io.Writer, name string, day uint64, user *thor.Address) error {
	return e.view(func(r *rewards.Rewards) error {
		data, err := r.Data(name, day)
		if err != nil {
			return err
		}
		dumper.Fdump(w, data)

		if user == nil {
			return nil
		}
		userData, err := r.UserData(name, *user)
		if err != nil {
			return err
		}
		holdings, err := r.Holdings(*user)
		if err != nil {
			return err
		}
		dumper.Fdump(w, userData, holdings)

		if e.ledger == nil {
			return nil
		}
		history, err := e.ledger.Filter(context.Background(), &ledger.Filter{User: user})
		if err != nil {
			return err
		}
		for _, entry := range history {
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%v\n", entry.Run, entry.Seq, entry.At, entry.Kind, entry.Source, entry.Amount)
		}
		return nil
	})
}
