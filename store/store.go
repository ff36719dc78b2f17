// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package store persists fixed-width records by bucket and id. Writes are
// staged in a Tx and reach the database in one batch on Commit, or not at
// all.
package store

import (
	"encoding"

	"github.com/pkg/errors"

	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/kv"
	"github.com/rayforge/accrual/reverts"
)

var (
	ErrNotFound = reverts.New("record not found")
	ErrExists   = reverts.New("record already exists")
)

// Record is a value with a fixed binary layout.
type Record interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// Store reads committed records through an LRU cache.
type Store struct {
	db    kv.GetPutter
	cache *cache
}

// New creates a store over db caching up to cacheSize encoded records.
func New(db kv.GetPutter, cacheSize int) (*Store, error) {
	c, err := newCache(max(cacheSize, 1))
	if err != nil {
		return nil, errors.Wrap(err, "record cache")
	}
	return &Store{db: db, cache: c}, nil
}

// cacheKey is the database key of (b, id), as a string.
func cacheKey(b kv.Bucket, id ident.ID) string {
	return string(b.Key(id[:]))
}

// load returns the committed encoding of a record.
func (s *Store) load(b kv.Bucket, id ident.ID) ([]byte, bool, error) {
	return s.cache.getOrLoad(cacheKey(b, id), func() ([]byte, bool, error) {
		data, err := s.db.Get(b.Key(id[:]))
		if err != nil {
			if s.db.IsNotFound(err) {
				return nil, false, nil
			}
			return nil, false, errors.Wrap(err, "load record")
		}
		return data, true, nil
	})
}

// Get decodes the committed record at (b, id) into rec.
func (s *Store) Get(b kv.Bucket, id ident.ID, rec Record) error {
	data, found, err := s.load(b, id)
	if err != nil {
		return err
	}
	if !found {
		return errors.WithMessagef(ErrNotFound, "%s %v", b, id)
	}
	return rec.UnmarshalBinary(data)
}

// Iterate calls fn with every committed record id in bucket b, in key
// order, until fn returns false.
func (s *Store) Iterate(b kv.Bucket, fn func(id ident.ID, data []byte) bool) error {
	it := s.db.NewIterator(b.Range())
	defer it.Release()
	for it.Next() {
		id := ident.BytesToID(b.Strip(it.Key()))
		if !fn(id, it.Value()) {
			break
		}
	}
	return it.Error()
}

// Begin starts a transaction.
func (s *Store) Begin() *Tx {
	return &Tx{store: s, staged: newOverlay()}
}

// Update runs fn in a transaction and commits it only if fn succeeds.
func (s *Store) Update(fn func(tx *Tx) error) error {
	tx := s.Begin()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
