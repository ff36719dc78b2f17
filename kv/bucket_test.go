// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucket(t *testing.T) {
	b := Bucket("gg/")
	key := b.Key([]byte("abc"))
	assert.Equal(t, []byte("gg/abc"), key)
	assert.Equal(t, []byte("abc"), b.Strip(key))

	r := b.Range()
	assert.Equal(t, []byte("gg/"), r.From)
	assert.Equal(t, []byte("gg0"), r.To)
}
