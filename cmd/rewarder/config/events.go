// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/rewarder/thor"
)

// Event kinds accepted by the replay command.
const (
	EventBalance  = "balance"
	EventClaim    = "claim"
	EventSnapshot = "snapshot"
	EventCatchUp  = "catchup"
)

// Event is one replayed engine input.
type Event struct {
	Kind    string `yaml:"kind"`
	At      uint64 `yaml:"at"`
	Source  string `yaml:"source"`
	User    string `yaml:"user"`
	Balance string `yaml:"balance"`
	Supply  string `yaml:"supply"`
	Day     uint64 `yaml:"day"`
	Days    uint64 `yaml:"days"`
}

// UserAddress parses the event user, zero when unset.
func (ev *Event) UserAddress() (thor.Address, error) {
	if ev.User == "" {
		return thor.Address{}, nil
	}
	return thor.ParseAddress(ev.User)
}

func (ev *Event) validate() error {
	switch ev.Kind {
	case EventBalance:
		if ev.Source == "" || ev.User == "" {
			return errors.New("balance event requires source and user")
		}
		if _, err := ParseAmount(ev.Balance); err != nil {
			return err
		}
		if _, err := ParseAmount(ev.Supply); err != nil {
			return err
		}
	case EventClaim:
		if ev.User == "" {
			return errors.New("claim event requires user")
		}
	case EventSnapshot, EventCatchUp:
		if ev.Source == "" {
			return errors.Errorf("%s event requires source", ev.Kind)
		}
	default:
		return errors.Errorf("unknown event kind %q", ev.Kind)
	}
	if _, err := ev.UserAddress(); err != nil {
		return err
	}
	return nil
}

// LoadEvents reads a YAML list of events.
func LoadEvents(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read events")
	}
	return ParseEvents(data)
}

// ParseEvents decodes and validates a YAML list of events.
func ParseEvents(data []byte) ([]Event, error) {
	var events []Event
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&events); err != nil {
		return nil, errors.Wrap(err, "decode events")
	}
	for i := range events {
		if err := events[i].validate(); err != nil {
			return nil, errors.WithMessagef(err, "event %d", i)
		}
	}
	return events, nil
}
