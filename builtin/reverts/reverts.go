// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts holds precondition violations of built-in contracts.
// A revert aborts the enclosing transaction and is never retried.
package reverts

import (
	"errors"
	"fmt"
)

// ErrRevert is a rejected call. The state it was raised against must be discarded.
type ErrRevert struct {
	reason string
}

func New(reason string) *ErrRevert {
	return &ErrRevert{reason}
}

func Newf(format string, args ...any) *ErrRevert {
	return &ErrRevert{fmt.Sprintf(format, args...)}
}

func (e *ErrRevert) Error() string {
	return e.reason
}

// IsRevertErr reports whether err or anything it wraps is a revert.
func IsRevertErr(err error) bool {
	var r *ErrRevert
	return errors.As(err, &r)
}
