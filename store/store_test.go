// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/kv"
	"github.com/rayforge/accrual/lvldb"
	"github.com/rayforge/accrual/reverts"
)

const bucket = kv.Bucket("t/")

type counter struct {
	N uint64
}

func (c *counter) MarshalBinary() ([]byte, error) {
	return binary.LittleEndian.AppendUint64(nil, c.N), nil
}

func (c *counter) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return errors.New("bad counter")
	}
	c.N = binary.LittleEndian.Uint64(data)
	return nil
}

func newStore(t *testing.T) (*Store, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err := New(db, 16)
	require.NoError(t, err)
	return s, db
}

func TestTxCommit(t *testing.T) {
	s, db := newStore(t)
	id := ident.Named("a")

	tx := s.Begin()
	require.NoError(t, tx.Put(bucket, id, &counter{1}))

	var c counter
	require.NoError(t, tx.Get(bucket, id, &c))
	assert.Equal(t, uint64(1), c.N)

	err := s.Get(bucket, id, &c)
	assert.True(t, errors.Is(err, ErrNotFound), "not visible before commit")
	assert.True(t, reverts.IsRevertErr(err))

	require.NoError(t, tx.Commit())
	require.NoError(t, s.Get(bucket, id, &c))
	assert.Equal(t, uint64(1), c.N)

	has, err := db.Has(bucket.Key(id[:]))
	require.NoError(t, err)
	assert.True(t, has)

	assert.Error(t, tx.Commit())
	assert.Error(t, tx.Put(bucket, id, &c))
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s, _ := newStore(t)
	id := ident.Named("a")
	require.NoError(t, s.Update(func(tx *Tx) error {
		return tx.Put(bucket, id, &counter{1})
	}))

	boom := errors.New("boom")
	err := s.Update(func(tx *Tx) error {
		var c counter
		if err := tx.Get(bucket, id, &c); err != nil {
			return err
		}
		c.N++
		if err := tx.Put(bucket, id, &c); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, err)

	var c counter
	require.NoError(t, s.Get(bucket, id, &c))
	assert.Equal(t, uint64(1), c.N)
}

func TestCheckpointRevert(t *testing.T) {
	s, _ := newStore(t)
	a, b := ident.Named("a"), ident.Named("b")

	tx := s.Begin()
	require.NoError(t, tx.Put(bucket, a, &counter{1}))
	cp := tx.Checkpoint()
	require.NoError(t, tx.Put(bucket, a, &counter{2}))
	require.NoError(t, tx.Put(bucket, a, &counter{3}))
	require.NoError(t, tx.Put(bucket, b, &counter{9}))

	var c counter
	require.NoError(t, tx.Get(bucket, a, &c))
	assert.Equal(t, uint64(3), c.N)

	tx.Revert(cp)
	require.NoError(t, tx.Get(bucket, a, &c))
	assert.Equal(t, uint64(1), c.N)
	has, err := tx.Has(bucket, b)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, tx.Put(bucket, b, &counter{4}))
	require.NoError(t, tx.Commit())

	require.NoError(t, s.Get(bucket, a, &c))
	assert.Equal(t, uint64(1), c.N)
	require.NoError(t, s.Get(bucket, b, &c))
	assert.Equal(t, uint64(4), c.N)
}

func TestCreate(t *testing.T) {
	s, _ := newStore(t)
	id := ident.Named("a")
	require.NoError(t, s.Update(func(tx *Tx) error {
		return tx.Create(bucket, id, &counter{1})
	}))
	err := s.Update(func(tx *Tx) error {
		return tx.Create(bucket, id, &counter{2})
	})
	assert.True(t, errors.Is(err, ErrExists))
}

func TestIterate(t *testing.T) {
	s, db := newStore(t)
	ids := []ident.ID{ident.BytesToID([]byte{1}), ident.BytesToID([]byte{2}), ident.BytesToID([]byte{3})}
	require.NoError(t, s.Update(func(tx *Tx) error {
		for i, id := range ids {
			if err := tx.Put(bucket, id, &counter{uint64(i)}); err != nil {
				return err
			}
		}
		return nil
	}))
	require.NoError(t, db.Put([]byte("u/other"), []byte{0}))

	var seen []ident.ID
	require.NoError(t, s.Iterate(bucket, func(id ident.ID, data []byte) bool {
		seen = append(seen, id)
		return true
	}))
	assert.Equal(t, ids, seen)

	seen = nil
	require.NoError(t, s.Iterate(bucket, func(id ident.ID, data []byte) bool {
		seen = append(seen, id)
		return false
	}))
	assert.Len(t, seen, 1)
}

func TestOverlay(t *testing.T) {
	o := newOverlay()
	o.put("k", []byte{1})
	d := o.push()
	o.put("k", []byte{2})
	o.put("k", []byte{3})
	v, ok := o.get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte{3}, v)
	assert.Len(t, o.journal(), 3)

	o.popTo(d)
	v, ok = o.get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte{1}, v)
	assert.Len(t, o.journal(), 1)

	o.popTo(0)
	_, ok = o.get("k")
	assert.False(t, ok)
}
