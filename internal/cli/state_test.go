package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/triprules/pkg/adapters/memory"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateCommands(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var out bytes.Buffer
	require.NoError(t, ListState(ctx, store, &out))
	assert.Contains(t, out.String(), "No saved progress found.")

	require.NoError(t, store.Set(ctx, domain.KeyAudience, "team"))

	out.Reset()
	require.NoError(t, ListState(ctx, store, &out))
	assert.Contains(t, out.String(), "- audience")

	out.Reset()
	require.NoError(t, ShowState(ctx, store, &out))
	var snap map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	assert.Equal(t, "rules_entry", snap["step"])
	assert.Equal(t, "team", snap["audience"])

	out.Reset()
	require.NoError(t, RemoveState(ctx, store, &out))
	assert.Contains(t, out.String(), "Removed 'audience'")
	_, err := store.Get(ctx, domain.KeyAudience)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}
