package file_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/triprules/pkg/adapters/file"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements KVStore
var _ ports.KVStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunKVStoreContract(t, store)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, file.New(dir).Set(ctx, "audience", "team"))

	// A fresh instance over the same directory models a process restart.
	got, err := file.New(dir).Get(ctx, "audience")
	require.NoError(t, err)
	assert.Equal(t, "team", got)
}

func TestFileStore_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Set(ctx, "trip_rules_v1", "{}"))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "trip_rules_v1.kv", entries[0].Name())

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"trip_rules_v1"}, keys)
}

func TestFileStore_OverwriteNeverHidesValue(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, domain.KeyItineraryText, "v0"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 200; i++ {
			_ = store.Set(ctx, domain.KeyItineraryText, fmt.Sprintf("v%d", i))
		}
	}()

	for {
		select {
		case <-done:
			got, err := store.Get(ctx, domain.KeyItineraryText)
			require.NoError(t, err)
			assert.Equal(t, "v200", got)
			return
		default:
		}
		_, err := store.Get(ctx, domain.KeyItineraryText)
		require.NoError(t, err, "value must stay readable while it is overwritten")
	}
}

func TestFileStore_InvalidKey(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", "../escape", filepath.Join("a", "b"), "tmp-x"} {
		err := store.Set(ctx, key, "v")
		assert.True(t, errors.Is(err, file.ErrInvalidKey), "key %q: got %v", key, err)
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "not-yet"))
	keys, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}
