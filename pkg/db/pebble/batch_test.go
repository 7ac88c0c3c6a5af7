package pebble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	t.Run("commit applies all operations", func(t *testing.T) {
		store, err := NewInMemoryKVStore()
		require.NoError(t, err)
		defer store.Close() //nolint:errcheck

		batch := store.NewBatch()
		defer batch.Close() //nolint:errcheck

		require.NoError(t, batch.Put([]byte("key1"), []byte("value1")))
		require.NoError(t, batch.Put([]byte("key2"), []byte("value2")))
		require.NoError(t, batch.Delete([]byte("key2")))

		// Nothing is visible before commit
		_, err = store.Get([]byte("key1"))
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, batch.Commit())

		v, err := store.Get([]byte("key1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("value1"), v)

		_, err = store.Get([]byte("key2"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("closed batch discards operations", func(t *testing.T) {
		store, err := NewInMemoryKVStore()
		require.NoError(t, err)
		defer store.Close() //nolint:errcheck

		batch := store.NewBatch()
		require.NoError(t, batch.Put([]byte("key"), []byte("value")))
		require.NoError(t, batch.Close())

		assert.ErrorIs(t, batch.Put([]byte("key"), []byte("value")), ErrBatchDone)
		assert.ErrorIs(t, batch.Commit(), ErrBatchDone)

		_, err = store.Get([]byte("key"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
