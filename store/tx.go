// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"github.com/pkg/errors"

	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/kv"
)

// Tx stages record writes on top of the committed state. Reads see the
// transaction's own writes. A Tx is not safe for concurrent use.
type Tx struct {
	store  *Store
	staged *overlay
	done   bool
}

func (tx *Tx) read(b kv.Bucket, id ident.ID) ([]byte, bool, error) {
	if data, ok := tx.staged.get(cacheKey(b, id)); ok {
		return data, true, nil
	}
	return tx.store.load(b, id)
}

// Get decodes the record at (b, id) into rec.
func (tx *Tx) Get(b kv.Bucket, id ident.ID, rec Record) error {
	data, found, err := tx.read(b, id)
	if err != nil {
		return err
	}
	if !found {
		return errors.WithMessagef(ErrNotFound, "%s %v", b, id)
	}
	return rec.UnmarshalBinary(data)
}

func (tx *Tx) Has(b kv.Bucket, id ident.ID) (bool, error) {
	_, found, err := tx.read(b, id)
	return found, err
}

// Put stages rec at (b, id).
func (tx *Tx) Put(b kv.Bucket, id ident.ID, rec Record) error {
	if tx.done {
		return errors.New("transaction already finished")
	}
	data, err := rec.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	tx.staged.put(cacheKey(b, id), data)
	return nil
}

// Create stages rec at (b, id), which must not exist yet.
func (tx *Tx) Create(b kv.Bucket, id ident.ID, rec Record) error {
	exists, err := tx.Has(b, id)
	if err != nil {
		return err
	}
	if exists {
		return errors.WithMessagef(ErrExists, "%s %v", b, id)
	}
	return tx.Put(b, id, rec)
}

// Checkpoint marks the current staged state and returns a handle for Revert.
func (tx *Tx) Checkpoint() int {
	return tx.staged.push()
}

// Revert drops every write staged since the checkpoint.
func (tx *Tx) Revert(checkpoint int) {
	tx.staged.popTo(checkpoint)
	if tx.staged.depth() == 0 {
		tx.staged.push()
	}
}

// Commit writes all staged records in one batch.
func (tx *Tx) Commit() error {
	if tx.done {
		return errors.New("transaction already finished")
	}
	tx.done = true

	journal := tx.staged.journal()
	if len(journal) == 0 {
		return nil
	}
	batch := tx.store.db.NewBatch()
	latest := make(map[string][]byte, len(journal))
	for _, e := range journal {
		if err := batch.Put([]byte(e.key), e.value); err != nil {
			return errors.Wrap(err, "stage batch")
		}
		latest[e.key] = e.value
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit")
	}
	for key, value := range latest {
		tx.store.cache.Add(key, value)
	}
	return nil
}
