// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package source

import (
	"math/big"
	"unicode"
	"unicode/utf8"

	"github.com/vechain/rewarder/builtin/reverts"
	"github.com/vechain/rewarder/builtin/solidity"
	"github.com/vechain/rewarder/log"
	"github.com/vechain/rewarder/oracle"
	"github.com/vechain/rewarder/thor"
)

var logger = log.WithContext("pkg", "source")

var (
	slotSources    = thor.BytesToBytes32([]byte("sources"))
	slotNames      = thor.BytesToBytes32([]byte("source-names"))
	slotCount      = thor.BytesToBytes32([]byte("source-count"))
	slotTotalValue = thor.BytesToBytes32([]byte("total-value"))
)

// Mode selects how a source accounts balances.
type Mode uint8

const (
	// ModeLegacy settles against raw balances.
	ModeLegacy Mode = iota
	// ModeBoosted settles against boost adjusted working balances.
	ModeBoosted
)

func (m Mode) String() string {
	switch m {
	case ModeLegacy:
		return "legacy"
	case ModeBoosted:
		return "boosted"
	default:
		return "unknown"
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "legacy":
		return ModeLegacy, nil
	case "boosted":
		return ModeBoosted, nil
	}
	return 0, reverts.Newf("unknown mode %q", s)
}

// Source is the registry entry of a reward source.
type Source struct {
	Name        string
	Contract    thor.Address
	Mode        Mode
	Day         uint64   // day of the last value snapshot
	DistPercent *big.Int // deprecated flat distribution share, unbounded
	Active      bool
}

// Address is the storage namespace of the source.
func (s *Source) Address() thor.Address {
	return thor.CreateSourceAddress(s.Name)
}

// Registry maps source names to their configuration.
type Registry struct {
	context *solidity.Context
	sources *solidity.Mapping[solidity.StringKey, *Source]
	names   *solidity.Mapping[solidity.Uint64Key, string]
	count   *solidity.Uint256
}

func New(sctx *solidity.Context) *Registry {
	return &Registry{
		context: sctx,
		sources: solidity.NewMapping[solidity.StringKey, *Source](sctx, slotSources),
		names:   solidity.NewMapping[solidity.Uint64Key, string](sctx, slotNames),
		count:   solidity.NewUint256(sctx, slotCount),
	}
}

// ValidateName rejects empty, oversized or non printable names.
func ValidateName(name string) error {
	if name == "" {
		return reverts.New("empty source name")
	}
	if len(name) > thor.MaxSourceNameLength {
		return reverts.Newf("source name longer than %d bytes", thor.MaxSourceNameLength)
	}
	if !utf8.ValidString(name) {
		return reverts.Newf("source name %q is not valid utf-8", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return reverts.Newf("source name %q contains control characters", name)
		}
	}
	return nil
}

// Register adds an active source.
func (r *Registry) Register(name string, contract thor.Address, mode Mode) (*Source, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if mode > ModeBoosted {
		return nil, reverts.Newf("unknown mode %d", mode)
	}
	if _, ok, err := r.sources.Lookup(solidity.StringKey(name)); err != nil {
		return nil, err
	} else if ok {
		return nil, reverts.Newf("source %q already registered", name)
	}

	src := &Source{
		Name:     name,
		Contract: contract,
		Mode:     mode,
		Active:   true,
	}
	if err := r.sources.Set(solidity.StringKey(name), src); err != nil {
		return nil, err
	}
	count, err := r.count.Get()
	if err != nil {
		return nil, err
	}
	if err := r.names.Set(solidity.Uint64Key(count.Uint64()), name); err != nil {
		return nil, err
	}
	if err := r.count.Add(big.NewInt(1)); err != nil {
		return nil, err
	}

	logger.Debug("source registered", "name", name, "contract", contract, "mode", mode)
	return src, nil
}

// Lookup returns the source registered under name, if any.
func (r *Registry) Lookup(name string) (*Source, bool, error) {
	return r.sources.Lookup(solidity.StringKey(name))
}

// Get returns the source registered under name, reverting if unknown.
func (r *Registry) Get(name string) (*Source, error) {
	src, ok, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.Newf("unknown source %q", name)
	}
	return src, nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() ([]string, error) {
	count, err := r.count.Get()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, count.Uint64())
	for i := range count.Uint64() {
		name, err := r.names.Get(solidity.Uint64Key(i))
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// All returns every registered source in registration order.
func (r *Registry) All() ([]*Source, error) {
	names, err := r.Names()
	if err != nil {
		return nil, err
	}
	sources := make([]*Source, 0, len(names))
	for _, name := range names {
		src, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// Active returns the active sources in registration order.
func (r *Registry) Active() ([]*Source, error) {
	all, err := r.All()
	if err != nil {
		return nil, err
	}
	active := all[:0]
	for _, src := range all {
		if src.Active {
			active = append(active, src)
		}
	}
	return active, nil
}

func (r *Registry) update(name string, fn func(*Source) error) error {
	src, err := r.Get(name)
	if err != nil {
		return err
	}
	if err := fn(src); err != nil {
		return err
	}
	return r.sources.Set(solidity.StringKey(name), src)
}

// SetMode switches the accounting mode. Only the legacy to boosted switch is allowed.
func (r *Registry) SetMode(name string, mode Mode) error {
	return r.update(name, func(src *Source) error {
		if src.Mode == mode {
			return nil
		}
		if src.Mode != ModeLegacy || mode != ModeBoosted {
			return reverts.Newf("cannot switch %q from %v to %v", name, src.Mode, mode)
		}
		src.Mode = mode
		logger.Info("source switched to boosted accounting", "name", name)
		return nil
	})
}

func (r *Registry) SetDistPercent(name string, percent *big.Int) error {
	if percent == nil || percent.Sign() < 0 {
		return reverts.Newf("distribution percent %v must not be negative", percent)
	}
	return r.update(name, func(src *Source) error {
		src.DistPercent = new(big.Int).Set(percent)
		return nil
	})
}

func (r *Registry) SetContract(name string, contract thor.Address) error {
	return r.update(name, func(src *Source) error {
		src.Contract = contract
		return nil
	})
}

// Deactivate excludes the source from claims over all sources. Its state is kept.
func (r *Registry) Deactivate(name string) error {
	return r.update(name, func(src *Source) error {
		src.Active = false
		return nil
	})
}

func (r *Registry) totalValue(name string) *solidity.Mapping[solidity.Uint64Key, *big.Int] {
	sctx := r.context.WithAddress(thor.CreateSourceAddress(name))
	return solidity.NewMapping[solidity.Uint64Key, *big.Int](sctx, slotTotalValue)
}

// TotalValue returns the snapshotted value of the source on day, zero if none.
func (r *Registry) TotalValue(name string, day uint64) (*big.Int, error) {
	v, ok, err := r.totalValue(name).Lookup(solidity.Uint64Key(day))
	if err != nil {
		return nil, err
	}
	if !ok {
		return new(big.Int), nil
	}
	return v, nil
}

// SnapshotValue records the oracle value of the source for day. The value is
// informational, an unreachable oracle records zero.
func (r *Registry) SnapshotValue(name string, day uint64, balances oracle.BalanceOracle) (*big.Int, error) {
	if _, err := r.Get(name); err != nil {
		return nil, err
	}
	value, err := balances.Value(name)
	if err != nil || value == nil || value.Sign() < 0 {
		logger.Warn("source value unavailable, recording zero", "name", name, "day", day, "err", err)
		value = new(big.Int)
	}
	if err := r.totalValue(name).Set(solidity.Uint64Key(day), value); err != nil {
		return nil, err
	}
	if err := r.update(name, func(src *Source) error {
		if day > src.Day {
			src.Day = day
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return value, nil
}
