// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import "github.com/rayforge/accrual/reverts"

var (
	ErrInsufficientRayToPledge   = reverts.New("insufficient RAY to pledge")
	ErrInsufficientRayToUnpledge = reverts.New("insufficient RAY to unpledge")
	ErrTimeTrackerRewardNotFound = reverts.New("time tracker reward not found")
	ErrPositionPoolMismatch      = reverts.New("position belongs to another pool")
)
