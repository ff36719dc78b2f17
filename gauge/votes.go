// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

// VoteLocker holds the vote power pledges are drawn from.
type VoteLocker interface {
	FreeVotes() (uint64, error)
	LockVotes(amount uint64) (uint64, error)
	UnlockVotes(amount uint64) (uint64, error)
}

// VotesChanged reports the vote totals after a pledge change.
type VotesChanged struct {
	Amount   int64  `json:"amount"`
	Personal uint64 `json:"personal"`
	Pool     uint64 `json:"pool"`
	Global   uint64 `json:"global"`
}

// ChangeVotes pledges (amount > 0) or unpledges (amount < 0) votes on a pool.
// The votes are locked on, or released back to, locker first. Both indices
// are then brought up to now under the old totals before any total changes.
func ChangeVotes(now uint64, cfg *Config, g *Gauge, p *PersonalGauge, locker VoteLocker, amount int64) (VotesChanged, error) {
	abs, err := magnitude(amount)
	if err != nil {
		return VotesChanged{}, err
	}

	switch {
	case amount > 0:
		free, err := locker.FreeVotes()
		if err != nil {
			return VotesChanged{}, err
		}
		if free < abs {
			return VotesChanged{}, ErrInsufficientRayToPledge
		}
		if _, err := locker.LockVotes(abs); err != nil {
			return VotesChanged{}, err
		}
	case amount < 0:
		if p.Votes < abs {
			return VotesChanged{}, ErrInsufficientRayToUnpledge
		}
		if _, err := locker.UnlockVotes(abs); err != nil {
			return VotesChanged{}, err
		}
	}

	if err := Sync(now, cfg, g); err != nil {
		return VotesChanged{}, err
	}
	if err := cfg.ChangeVotes(amount); err != nil {
		return VotesChanged{}, err
	}
	if err := g.ChangeVotes(amount); err != nil {
		return VotesChanged{}, err
	}
	if err := p.ChangeVotes(amount); err != nil {
		return VotesChanged{}, err
	}

	return VotesChanged{
		Amount:   amount,
		Personal: p.Votes,
		Pool:     g.TotalVotes,
		Global:   cfg.TotalVotes,
	}, nil
}
