// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import (
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/layout"
)

// PersonalGaugeSize is the encoded size of a PersonalGauge.
const PersonalGaugeSize = ident.Size*2 + 8

// PersonalGaugeID returns the address of owner's votes on a pool gauge.
func PersonalGaugeID(poolGauge, owner ident.ID) ident.ID {
	return ident.Derive("personal-gauge", poolGauge, owner)
}

// PersonalGauge holds the votes one owner pledged to one pool.
type PersonalGauge struct {
	Owner     ident.ID `json:"owner"`
	PoolGauge ident.ID `json:"poolGauge"`
	Votes     uint64   `json:"votes"`
}

func NewPersonalGauge(poolGauge, owner ident.ID) *PersonalGauge {
	return &PersonalGauge{Owner: owner, PoolGauge: poolGauge}
}

// ChangeVotes applies a signed change to the pledged votes.
func (p *PersonalGauge) ChangeVotes(amount int64) error {
	votes, err := applyDelta(p.Votes, amount)
	if err != nil {
		return errors.Wrap(err, "personal gauge votes")
	}
	p.Votes = votes
	return nil
}

func (p *PersonalGauge) MarshalBinary() ([]byte, error) {
	return layout.NewWriter(PersonalGaugeSize).
		ID(p.Owner).
		ID(p.PoolGauge).
		Uint64(p.Votes).
		Bytes(), nil
}

func (p *PersonalGauge) UnmarshalBinary(data []byte) error {
	r, err := layout.NewReader(data, PersonalGaugeSize)
	if err != nil {
		return errors.Wrap(err, "personal gauge")
	}
	p.Owner = r.ID()
	p.PoolGauge = r.ID()
	p.Votes = r.Uint64()
	return nil
}
