// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the YAML description of reward sources, governance
// params and the static oracle tables served to the engine.
package config

import (
	"bytes"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/rewarder/builtin/rewards/source"
	"github.com/vechain/rewarder/oracle"
	"github.com/vechain/rewarder/thor"
)

// Config is the whole rewarder configuration.
type Config struct {
	BoostWeight      string   `yaml:"boost_weight"`
	MaxDayIterations uint64   `yaml:"max_day_iterations"`
	Sources          []Source `yaml:"sources"`
	Boost            Boost    `yaml:"boost"`
}

// Source describes one reward source and its oracle tables.
type Source struct {
	Name        string            `yaml:"name"`
	Contract    string            `yaml:"contract"`
	Mode        string            `yaml:"mode"`
	DistPercent string            `yaml:"dist_percent"`
	Emission    []Step            `yaml:"emission"`
	Value       string            `yaml:"value"`
	Supply      string            `yaml:"supply"`
	Balances    map[string]string `yaml:"balances"`
}

// Step is a piece of a piecewise constant emission schedule.
type Step struct {
	StartDay uint64 `yaml:"start_day"`
	Amount   string `yaml:"amount"`
}

// Boost holds the vote-escrow locks.
type Boost struct {
	LockedSupply string            `yaml:"locked_supply"`
	Locked       map[string]string `yaml:"locked"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes and validates a YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() {
	cfg.BoostWeight = strings.TrimSpace(cfg.BoostWeight)
	for i := range cfg.Sources {
		cfg.Sources[i].Name = strings.TrimSpace(cfg.Sources[i].Name)
		cfg.Sources[i].Mode = strings.ToLower(strings.TrimSpace(cfg.Sources[i].Mode))
	}
}

func (cfg *Config) validate() error {
	if _, err := cfg.BoostWeightValue(); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, src := range cfg.Sources {
		if err := source.ValidateName(src.Name); err != nil {
			return errors.WithMessage(err, "sources")
		}
		if seen[src.Name] {
			return errors.Errorf("sources: duplicate source %q", src.Name)
		}
		seen[src.Name] = true

		if _, err := src.ModeValue(); err != nil {
			return errors.WithMessagef(err, "source %q", src.Name)
		}
		if _, err := src.ContractAddress(); err != nil {
			return errors.WithMessagef(err, "source %q", src.Name)
		}
		if _, err := src.Schedule(); err != nil {
			return errors.WithMessagef(err, "source %q", src.Name)
		}
		if _, err := ParseAmount(src.DistPercent); err != nil {
			return errors.WithMessagef(err, "source %q: dist_percent", src.Name)
		}
	}
	return nil
}

// BoostWeightValue returns W, nil when the config leaves it to the default.
func (cfg *Config) BoostWeightValue() (*big.Int, error) {
	if cfg.BoostWeight == "" {
		return nil, nil
	}
	w, err := ParseAmount(cfg.BoostWeight)
	if err != nil {
		return nil, errors.WithMessage(err, "boost_weight")
	}
	if w.Sign() <= 0 || w.Cmp(thor.Scale) > 0 {
		return nil, errors.Errorf("boost_weight %v out of range (0, %v]", w, thor.Scale)
	}
	return w, nil
}

// ModeValue parses the accounting mode, legacy by default.
func (src *Source) ModeValue() (source.Mode, error) {
	return source.ParseMode(src.Mode)
}

// ContractAddress parses the bound contract, zero when unset.
func (src *Source) ContractAddress() (thor.Address, error) {
	if src.Contract == "" {
		return thor.Address{}, nil
	}
	return thor.ParseAddress(src.Contract)
}

// Schedule converts the emission steps.
func (src *Source) Schedule() (oracle.Schedule, error) {
	schedule := make(oracle.Schedule, 0, len(src.Emission))
	for _, step := range src.Emission {
		amount, err := ParseAmount(step.Amount)
		if err != nil {
			return nil, errors.WithMessagef(err, "emission from day %d", step.StartDay)
		}
		schedule = append(schedule, oracle.EmissionStep{StartDay: step.StartDay, Amount: amount})
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return schedule, nil
}

// ParseAmount parses a non-negative decimal or 0x prefixed hex integer.
// Empty means zero.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := math.ParseBig256(s)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("invalid amount %q", s)
	}
	return v, nil
}

// Emissions builds the emission schedule of every source.
func (cfg *Config) Emissions() (*oracle.Emissions, error) {
	emissions := oracle.NewEmissions()
	for _, src := range cfg.Sources {
		schedule, err := src.Schedule()
		if err != nil {
			return nil, errors.WithMessagef(err, "source %q", src.Name)
		}
		if err := emissions.SetSchedule(src.Name, schedule); err != nil {
			return nil, err
		}
	}
	return emissions, nil
}

// Static builds the balance and boost oracle tables.
func (cfg *Config) Static() (*oracle.Static, error) {
	static := oracle.NewStatic()
	for _, src := range cfg.Sources {
		value, err := ParseAmount(src.Value)
		if err != nil {
			return nil, errors.WithMessagef(err, "source %q value", src.Name)
		}
		static.SetValue(src.Name, value)

		supply, err := ParseAmount(src.Supply)
		if err != nil {
			return nil, errors.WithMessagef(err, "source %q supply", src.Name)
		}
		static.SetSupply(src.Name, supply)

		for addr, amount := range src.Balances {
			user, balance, err := parseHolding(addr, amount)
			if err != nil {
				return nil, errors.WithMessagef(err, "source %q balances", src.Name)
			}
			static.SetBalance(src.Name, user, balance)
		}
	}

	lockedSupply, err := ParseAmount(cfg.Boost.LockedSupply)
	if err != nil {
		return nil, errors.WithMessage(err, "boost locked_supply")
	}
	static.SetLockedSupply(lockedSupply)
	for addr, amount := range cfg.Boost.Locked {
		user, locked, err := parseHolding(addr, amount)
		if err != nil {
			return nil, errors.WithMessage(err, "boost locked")
		}
		static.SetLocked(user, locked)
	}
	return static, nil
}

func parseHolding(addr, amount string) (thor.Address, *big.Int, error) {
	user, err := thor.ParseAddress(addr)
	if err != nil {
		return thor.Address{}, nil, errors.WithMessagef(err, "address %q", addr)
	}
	v, err := ParseAmount(amount)
	if err != nil {
		return thor.Address{}, nil, err
	}
	return user, v, nil
}
