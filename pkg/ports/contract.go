package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/triprules/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKVStoreContract runs a suite of tests to verify that a KVStore implementation
// adheres to the defined interface contract.
func RunKVStoreContract(t *testing.T, store KVStore) {
	ctx := context.Background()
	key := "contract_" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, "value-1"), "Set should not return error")

		got, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, "value-1", got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, "value-2"))

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "value-2", got)
	})

	t.Run("Preserves Content", func(t *testing.T) {
		payload := "{\"city\":\"Goa\",\"notes\":\"line 1\nline 2 ₹\"}"
		require.NoError(t, store.Set(ctx, key+"_json", payload))
		defer func() { _ = store.Remove(ctx, key+"_json") }()

		got, err := store.Get(ctx, key+"_json")
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("Empty Value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key+"_empty", ""))
		defer func() { _ = store.Remove(ctx, key+"_empty") }()

		got, err := store.Get(ctx, key+"_empty")
		require.NoError(t, err, "an empty value is still a value")
		assert.Equal(t, "", got)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "missing_"+key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, key), "Remove should not return error")

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound, "Get after Remove should return ErrKeyNotFound")
	})

	t.Run("Remove Non-Existent", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, "missing_"+key))
	})

	if lister, ok := store.(Lister); ok {
		t.Run("List", func(t *testing.T) {
			k1, k2 := key+"_a", key+"_b"
			_ = store.Set(ctx, k1, "1")
			_ = store.Set(ctx, k2, "2")
			defer func() {
				_ = store.Remove(ctx, k1)
				_ = store.Remove(ctx, k2)
			}()

			keys, err := lister.List(ctx)
			require.NoError(t, err)
			assert.Contains(t, keys, k1)
			assert.Contains(t, keys, k2)
		})
	}
}
