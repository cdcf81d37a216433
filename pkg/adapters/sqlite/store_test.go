package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/triprules/pkg/adapters/sqlite"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer store.Close()

	ports.RunKVStoreContract(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	ctx := context.Background()

	first, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "itinerary_text_v1", "Day 1"))
	require.NoError(t, first.Close())

	second, err := sqlite.Open(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "itinerary_text_v1")
	require.NoError(t, err)
	assert.Equal(t, "Day 1", got)
}
