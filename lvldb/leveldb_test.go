// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayforge/accrual/kv"
)

func TestGetPut(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Get([]byte("k"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("k")))
	has, err = db.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBatchAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	b := kv.Bucket("b/")
	batch := db.NewBatch()
	for _, k := range []string{"1", "2", "3"} {
		require.NoError(t, batch.Put(b.Key([]byte(k)), []byte(k)))
	}
	require.NoError(t, db.Put([]byte("c/1"), []byte("x")))
	assert.Equal(t, 3, batch.Len())

	has, err := db.Has(b.Key([]byte("1")))
	require.NoError(t, err)
	assert.False(t, has, "batch not written yet")

	require.NoError(t, batch.Write())

	var keys []string
	it := db.NewIterator(b.Range())
	for it.Next() {
		keys = append(keys, string(b.Strip(it.Key())))
	}
	it.Release()
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"1", "2", "3"}, keys)
}

func TestPersistent(t *testing.T) {
	dir := t.TempDir()
	db, err := New(dir, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = New(dir, Options{ReadOnly: true})
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
