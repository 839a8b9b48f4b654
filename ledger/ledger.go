// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger keeps a queryable history of replayed engine calls in sqlite.
package ledger

import (
	"context"
	"database/sql"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/rewarder/thor"
)

type Ledger struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open ledger at given path.
func New(path string) (ledger *Ledger, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ledger == nil {
			db.Close()
		}
	}()
	// a memory database lives in a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(entryTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &Ledger{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a ledger in ram.
func NewMem() (*Ledger, error) {
	return New(":memory:")
}

// Close close the ledger.
func (l *Ledger) Close() {
	l.db.Close()
}

func (l *Ledger) Path() string {
	return l.path
}

func (l *Ledger) DriverVersion() string {
	return l.driverVersion
}

// Insert writes entries in one transaction.
func (l *Ledger) Insert(ctx context.Context, entries ...*Entry) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO entry(run, seq, at, kind, source, user, amount) VALUES(?,?,?,?,?,?,?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		amount := "0"
		if e.Amount != nil {
			amount = e.Amount.String()
		}
		if _, err := stmt.ExecContext(ctx, e.Run, e.Seq, e.At, e.Kind, e.Source, e.User.Bytes(), amount); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert entry %d of run %s", e.Seq, e.Run)
		}
	}
	return tx.Commit()
}

func (l *Ledger) Filter(ctx context.Context, filter *Filter) ([]*Entry, error) {
	if filter == nil {
		return l.query(ctx, "SELECT run, seq, at, kind, source, user, amount FROM entry ORDER BY rowid ASC")
	}
	var args []any
	stmt := "SELECT run, seq, at, kind, source, user, amount FROM entry WHERE 1"
	if filter.Run != "" {
		args = append(args, filter.Run)
		stmt += " AND run = ? "
	}
	if filter.User != nil {
		args = append(args, filter.User.Bytes())
		stmt += " AND user = ? "
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		stmt += " AND source = ? "
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		stmt += " AND kind = ? "
	}

	if filter.Order == DESC {
		stmt += " ORDER BY rowid DESC "
	} else {
		stmt += " ORDER BY rowid ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return l.query(ctx, stmt, args...)
}

// Sum adds up the amounts of the entries matched by filter.
func (l *Ledger) Sum(ctx context.Context, filter *Filter) (*big.Int, error) {
	entries, err := l.Filter(ctx, filter)
	if err != nil {
		return nil, err
	}
	total := new(big.Int)
	for _, e := range entries {
		total.Add(total, e.Amount)
	}
	return total, nil
}

func (l *Ledger) query(ctx context.Context, stmt string, args ...any) ([]*Entry, error) {
	rows, err := l.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			e      Entry
			user   []byte
			amount string
		)
		if err := rows.Scan(&e.Run, &e.Seq, &e.At, &e.Kind, &e.Source, &user, &amount); err != nil {
			return nil, err
		}
		e.User = thor.BytesToAddress(user)
		v, ok := new(big.Int).SetString(amount, 10)
		if !ok {
			return nil, errors.Errorf("corrupted amount %q in run %s", amount, e.Run)
		}
		e.Amount = v
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
