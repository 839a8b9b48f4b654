// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the contract storage of the rewards engine.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv store ]
//	         |
//	   [ lru cache ]
//	         |
//	  [ kv store ]
//
// Storage is addressed by (address, key) pairs. Each rewards source
// owns one address, so its slots never collide with another source's.
package state
