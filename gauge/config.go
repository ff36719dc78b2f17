// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import (
	"math"

	"github.com/pkg/errors"

	"github.com/rayforge/accrual/accrual"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/layout"
	"github.com/rayforge/accrual/number"
)

// ConfigSize is the encoded size of a Config.
const ConfigSize = 8 + 8 + number.Size + 8

// ConfigID is the address of the global gauge config.
var ConfigID = ident.Derive("gauge-config")

// Config is the global emission state. Its index is the cumulative RAY
// emitted per pledged vote.
type Config struct {
	TotalVotes        uint64        `json:"totalVotes"`
	RayEmissionPerDay uint64        `json:"rayEmissionPerDay"`
	Index             number.Number `json:"index"`
	LastUpdatedTS     uint64        `json:"lastUpdatedTs"`
}

func NewConfig(now, emissionPerDay uint64) *Config {
	return &Config{
		RayEmissionPerDay: emissionPerDay,
		LastUpdatedTS:     now,
	}
}

// UpdateIndex advances the global index to now over the current vote total.
func (c *Config) UpdateIndex(now uint64) error {
	return accrual.Advance(&c.LastUpdatedTS, now, accrual.Step{
		Index: &c.Index,
		Rate:  accrual.PerShare(c.TotalVotes, accrual.Daily(c.RayEmissionPerDay)),
	})
}

// ChangeVotes applies a signed change to the global vote total.
func (c *Config) ChangeVotes(amount int64) error {
	total, err := applyDelta(c.TotalVotes, amount)
	if err != nil {
		return errors.Wrap(err, "gauge config votes")
	}
	c.TotalVotes = total
	return nil
}

func (c *Config) MarshalBinary() ([]byte, error) {
	return layout.NewWriter(ConfigSize).
		Uint64(c.TotalVotes).
		Uint64(c.RayEmissionPerDay).
		Number(c.Index).
		Uint64(c.LastUpdatedTS).
		Bytes(), nil
}

func (c *Config) UnmarshalBinary(data []byte) error {
	r, err := layout.NewReader(data, ConfigSize)
	if err != nil {
		return errors.Wrap(err, "gauge config")
	}
	c.TotalVotes = r.Uint64()
	c.RayEmissionPerDay = r.Uint64()
	c.Index = r.Number()
	c.LastUpdatedTS = r.Uint64()
	return nil
}

// applyDelta adds a signed amount to an unsigned total.
func applyDelta(total uint64, amount int64) (uint64, error) {
	if amount >= 0 {
		return accrual.Add64(total, uint64(amount))
	}
	abs, err := magnitude(amount)
	if err != nil {
		return 0, err
	}
	return accrual.Sub64(total, abs)
}

// magnitude returns |amount|. math.MinInt64 is rejected.
func magnitude(amount int64) (uint64, error) {
	if amount == math.MinInt64 {
		return 0, errors.Wrapf(accrual.ErrOverflow, "negate %d", amount)
	}
	if amount < 0 {
		return uint64(-amount), nil
	}
	return uint64(amount), nil
}
