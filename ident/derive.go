// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ident

import (
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

var blake2bPool = sync.Pool{
	New: func() any {
		h, _ := blake2b.New256(nil)
		return h
	},
}

// Derive returns the address of the record identified by seed and parts.
// Distinct (seed, parts) pairs never share an address in practice, so a
// record's address also proves which parent records it belongs to.
func Derive(seed string, parts ...ID) (id ID) {
	h := blake2bPool.Get().(hash.Hash)
	h.Write([]byte(seed))
	for _, p := range parts {
		h.Write(p[:])
	}
	h.Sum(id[:0])
	h.Reset()
	blake2bPool.Put(h)
	return
}

// Named maps a human readable label to an ID. Labels that already are hex
// encoded IDs are decoded as is.
func Named(label string) ID {
	if id, err := Parse(label); err == nil {
		return id
	}
	var id ID
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(label))
	h.Sum(id[:0])
	return id
}
