// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reactor

import (
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/accrual"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/layout"
	"github.com/rayforge/accrual/number"
)

// ConfigSize is the encoded size of a Config.
const ConfigSize = 8 + 8 + number.Size + 2 + number.Size + 8

// ConfigID is the address of the global reactor config.
var ConfigID = ident.Derive("reactor-config")

// Config holds the two reactor-wide indices. RayRewardIndex is the RAY
// reward emitted per deposited RAY; IsoRayIndex is the isoRAY minted per
// RAY held. Both advance on the same clock.
type Config struct {
	TotalRayDeposited      uint64        `json:"totalRayDeposited"`
	RayRewardDailyEmission uint64        `json:"rayRewardDailyEmission"`
	RayRewardIndex         number.Number `json:"rayRewardIndex"`
	IsoRayAprBps           uint16        `json:"isoRayAprBps"`
	IsoRayIndex            number.Number `json:"isoRayIndex"`
	RewardsEmittedUntil    uint64        `json:"rewardsEmittedUntil"`
}

func NewConfig(now, dailyEmission uint64, aprBps uint16) *Config {
	return &Config{
		RayRewardDailyEmission: dailyEmission,
		IsoRayAprBps:           aprBps,
		RewardsEmittedUntil:    now,
	}
}

// Accrue advances both indices to now over the current deposited total.
// Nothing grows while no RAY is deposited.
func (c *Config) Accrue(now uint64) error {
	return accrual.Advance(&c.RewardsEmittedUntil, now,
		accrual.Step{
			Index: &c.RayRewardIndex,
			Rate:  accrual.PerShare(c.TotalRayDeposited, accrual.Daily(c.RayRewardDailyEmission)),
		},
		accrual.Step{
			Index: &c.IsoRayIndex,
			Rate:  c.isoRayRate,
		},
	)
}

// isoRayRate is the APR pro rata to the second. It does not depend on the
// deposited total, since isoRAY is minted per RAY held.
func (c *Config) isoRayRate(elapsed uint64) (number.Number, error) {
	if c.TotalRayDeposited == 0 {
		return number.Zero(), nil
	}
	years, err := number.FromRatio(elapsed, accrual.SecondsPerYear)
	if err != nil {
		return number.Number{}, err
	}
	return years.Mul(number.FromBps(c.IsoRayAprBps))
}

// DepositRay accrues, then grows the deposited total.
func (c *Config) DepositRay(now, amount uint64) error {
	if err := c.Accrue(now); err != nil {
		return err
	}
	total, err := accrual.Add64(c.TotalRayDeposited, amount)
	if err != nil {
		return errors.Wrap(err, "total ray deposited")
	}
	c.TotalRayDeposited = total
	return nil
}

// WithdrawRay accrues, then shrinks the deposited total.
func (c *Config) WithdrawRay(now, amount uint64) error {
	if err := c.Accrue(now); err != nil {
		return err
	}
	total, err := accrual.Sub64(c.TotalRayDeposited, amount)
	if err != nil {
		return errors.Wrap(err, "total ray deposited")
	}
	c.TotalRayDeposited = total
	return nil
}

func (c *Config) MarshalBinary() ([]byte, error) {
	return layout.NewWriter(ConfigSize).
		Uint64(c.TotalRayDeposited).
		Uint64(c.RayRewardDailyEmission).
		Number(c.RayRewardIndex).
		Uint16(c.IsoRayAprBps).
		Number(c.IsoRayIndex).
		Uint64(c.RewardsEmittedUntil).
		Bytes(), nil
}

func (c *Config) UnmarshalBinary(data []byte) error {
	r, err := layout.NewReader(data, ConfigSize)
	if err != nil {
		return errors.Wrap(err, "reactor config")
	}
	c.TotalRayDeposited = r.Uint64()
	c.RayRewardDailyEmission = r.Uint64()
	c.RayRewardIndex = r.Number()
	c.IsoRayAprBps = r.Uint16()
	c.IsoRayIndex = r.Number()
	c.RewardsEmittedUntil = r.Uint64()
	return nil
}
