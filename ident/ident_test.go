// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ident

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	id := BytesToID([]byte{0xab, 0xcd})
	s := id.String()
	assert.Equal(t, "0x000000000000000000000000000000000000000000000000000000000000abcd", s)

	parsed, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	parsed, err = Parse(s[2:])
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = Parse("0x1234")
	assert.Error(t, err)
	_, err = Parse("zz" + s[2:])
	assert.Error(t, err)

	assert.Panics(t, func() { MustParse("nope") })
	assert.True(t, ID{}.IsZero())
	assert.False(t, id.IsZero())
}

func TestJSON(t *testing.T) {
	id := Named("alice")
	data, err := json.Marshal(&id)
	require.NoError(t, err)

	var back ID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, id, back)
}

func TestDerive(t *testing.T) {
	pool := Named("pool")
	owner := Named("alice")

	a := Derive("personal-gauge", pool, owner)
	assert.Equal(t, a, Derive("personal-gauge", pool, owner))
	assert.NotEqual(t, a, Derive("personal-gauge", owner, pool))
	assert.NotEqual(t, a, Derive("personal-rewarder-cp", pool, owner))
	assert.NotEqual(t, Derive("reactor"), Derive("reactor", ID{}))
}

func TestNamed(t *testing.T) {
	assert.Equal(t, Named("bob"), Named("bob"))
	assert.NotEqual(t, Named("bob"), Named("alice"))

	id := Named("bob")
	assert.Equal(t, id, Named(id.String()))
}
