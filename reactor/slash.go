// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reactor

import (
	"github.com/holiman/uint256"
)

// SlashAmount is the isoRAY forfeited when decrease RAY is withdrawn out of
// balance: ceil(decrease * isoRay / balance), capped at isoRay. Any nonzero
// withdrawal slashes at least one unit when isoRAY is held.
func SlashAmount(balance, decrease, isoRay uint64) (uint64, error) {
	switch {
	case balance == 0 || decrease == 0 || isoRay == 0:
		return 0, nil
	case decrease >= balance:
		return isoRay, nil
	}

	var slash, rem uint256.Int
	// product of two u64 always fits
	prod := new(uint256.Int).Mul(uint256.NewInt(decrease), uint256.NewInt(isoRay))
	slash.DivMod(prod, uint256.NewInt(balance), &rem)
	if !rem.IsZero() {
		slash.AddUint64(&slash, 1)
	}
	if slash.GtUint64(isoRay) {
		return isoRay, nil
	}
	return slash.Uint64(), nil
}
