// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import lru "github.com/hashicorp/golang-lru"

// cache holds encoded records by key. Values are never handed out
// directly, callers always decode into their own record.
type cache struct {
	*lru.Cache
}

func newCache(size int) (*cache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &cache{c}, nil
}

// getOrLoad first tries the cache and calls load on a miss. Loaded values
// are cached only when found.
func (c *cache) getOrLoad(key string, load func() ([]byte, bool, error)) ([]byte, bool, error) {
	if v, ok := c.Get(key); ok {
		return v.([]byte), true, nil
	}
	v, found, err := load()
	if err != nil || !found {
		return nil, found, err
	}
	c.Add(key, v)
	return v, true, nil
}
