// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reactor

import "github.com/rayforge/accrual/reverts"

var (
	ErrInsufficientRayBalance      = reverts.New("insufficient RAY balance")
	ErrInsufficientVotesToLock     = reverts.New("insufficient votes to lock")
	ErrInsufficientVotesToUnlock   = reverts.New("insufficient votes to unlock")
	ErrInsufficientVotesToWithdraw = reverts.New("insufficient votes to withdraw")
	ErrIsoRayNotUpToDate           = reverts.New("isoRAY is not up to date")
)
