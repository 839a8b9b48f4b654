// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/rewarder/builtin/rewards"
	"github.com/vechain/rewarder/builtin/rewards/source"
	"github.com/vechain/rewarder/thor"
)

type Source struct {
	Name        string                `json:"name"`
	Contract    thor.Address          `json:"contract"`
	Mode        string                `json:"mode"`
	Active      bool                  `json:"active"`
	Day         uint64                `json:"day"`
	DistPercent *math.HexOrDecimal256 `json:"distPercent"`
}

type SourceData struct {
	Source
	QueriedDay    uint64                `json:"queriedDay"`
	TotalWeight   *math.HexOrDecimal256 `json:"totalWeight"`
	LastUpdate    uint64                `json:"lastUpdate"`
	WorkingSupply *math.HexOrDecimal256 `json:"workingSupply"`
	TotalValue    *math.HexOrDecimal256 `json:"totalValue"`
	TotalDist     *math.HexOrDecimal256 `json:"totalDist"`
}

type UserData struct {
	Source         string                `json:"source"`
	User           thor.Address          `json:"user"`
	Weight         *math.HexOrDecimal256 `json:"weight"`
	WorkingBalance *math.HexOrDecimal256 `json:"workingBalance"`
	// Effective values are derived from the balance oracle when nothing is stored yet.
	EffectiveBalance *math.HexOrDecimal256 `json:"effectiveBalance"`
	EffectiveSupply  *math.HexOrDecimal256 `json:"effectiveSupply"`
}

type SourcePending struct {
	Source string                `json:"source"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Pending struct {
	User      thor.Address          `json:"user"`
	Timestamp uint64                `json:"timestamp"`
	Sources   []SourcePending       `json:"sources"`
	Holdings  *math.HexOrDecimal256 `json:"holdings"`
	Total     *math.HexOrDecimal256 `json:"total"`
}

type Params struct {
	BoostWeight      *math.HexOrDecimal256 `json:"boostWeight"`
	MaxDayIterations uint64                `json:"maxDayIterations"`
}

// hexOrDecimal keeps nil as JSON null.
func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

func convertSource(src *source.Source) Source {
	return Source{
		Name:        src.Name,
		Contract:    src.Contract,
		Mode:        src.Mode.String(),
		Active:      src.Active,
		Day:         src.Day,
		DistPercent: hexOrDecimal(src.DistPercent),
	}
}

func convertSourceData(data *rewards.SourceData, day uint64) *SourceData {
	return &SourceData{
		Source: Source{
			Name:        data.Name,
			Contract:    data.Contract,
			Mode:        data.Mode.String(),
			Active:      data.Active,
			Day:         data.Day,
			DistPercent: hexOrDecimal(data.DistPercent),
		},
		QueriedDay:    day,
		TotalWeight:   hexOrDecimal(data.TotalWeight),
		LastUpdate:    data.LastUpdate,
		WorkingSupply: hexOrDecimal(data.WorkingSupply),
		TotalValue:    hexOrDecimal(data.TotalValue),
		TotalDist:     hexOrDecimal(data.TotalDist),
	}
}

func convertPending(user thor.Address, ts uint64, p *rewards.Pending) *Pending {
	sources := make([]SourcePending, 0, len(p.Sources))
	for _, s := range p.Sources {
		sources = append(sources, SourcePending{Source: s.Source, Amount: hexOrDecimal(s.Amount)})
	}
	return &Pending{
		User:      user,
		Timestamp: ts,
		Sources:   sources,
		Holdings:  hexOrDecimal(p.Holdings),
		Total:     hexOrDecimal(p.Total),
	}
}
