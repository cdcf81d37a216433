package cli

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/triprules/internal/config"
	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/adapters/file"
	"github.com/aretw0/triprules/pkg/adapters/remote"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/itinerary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Types(t *testing.T) {
	mr := miniredis.RunT(t)

	cases := []struct {
		name string
		cfg  config.StoreConfig
	}{
		{"memory", config.StoreConfig{Type: config.StoreMemory}},
		{"file", config.StoreConfig{Type: config.StoreFile, Path: t.TempDir()}},
		{"sqlite", config.StoreConfig{Type: config.StoreSQLite, Path: filepath.Join(t.TempDir(), "state.db")}},
		{"redis", config.StoreConfig{Type: config.StoreRedis, Redis: config.RedisConfig{Address: mr.Addr(), Prefix: "t:"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store, closer, err := OpenStore(tc.cfg, logging.NewNop())
			require.NoError(t, err)
			if closer != nil {
				defer closer()
			}

			require.NoError(t, store.Set(ctx, domain.KeyAudience, "team"))
			got, err := store.Get(ctx, domain.KeyAudience)
			require.NoError(t, err)
			assert.Equal(t, "team", got)
		})
	}
}

func TestOpenStore_UnknownType(t *testing.T) {
	_, _, err := OpenStore(config.StoreConfig{Type: "etcd"}, logging.NewNop())
	assert.Error(t, err)
}

func TestOpenStore_EncryptsAtRest(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := config.StoreConfig{
		Type: config.StoreFile,
		Path: dir,
		Encryption: config.EncryptionConfig{
			Passphrase: "correct horse",
			Salt:       "triprules",
		},
	}

	store, _, err := OpenStore(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, domain.KeyAudience, "personal"))

	raw, err := file.New(dir).Get(ctx, domain.KeyAudience)
	require.NoError(t, err)
	assert.NotContains(t, raw, "personal")

	got, err := store.Get(ctx, domain.KeyAudience)
	require.NoError(t, err)
	assert.Equal(t, "personal", got)
}

func TestOpenStore_RotatedKey(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	oldKey := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("a", 32)))
	newKey := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("b", 32)))

	oldStore, _, err := OpenStore(config.StoreConfig{
		Type: config.StoreFile, Path: dir,
		Encryption: config.EncryptionConfig{Key: oldKey},
	}, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, oldStore.Set(ctx, domain.KeyAudience, "team"))

	newStore, _, err := OpenStore(config.StoreConfig{
		Type: config.StoreFile, Path: dir,
		Encryption: config.EncryptionConfig{Key: newKey, FallbackKeys: []string{oldKey}},
	}, logging.NewNop())
	require.NoError(t, err)

	got, err := newStore.Get(ctx, domain.KeyAudience)
	require.NoError(t, err)
	assert.Equal(t, "team", got)
}

func TestOpenStore_InvalidKey(t *testing.T) {
	_, _, err := OpenStore(config.StoreConfig{
		Type:       config.StoreMemory,
		Encryption: config.EncryptionConfig{Key: "c2hvcnQ="},
	}, logging.NewNop())
	assert.ErrorContains(t, err, "invalid encryption key")
}

func TestNewGenerator(t *testing.T) {
	gen, err := NewGenerator(config.GeneratorConfig{Mode: config.GeneratorLocal}, logging.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &itinerary.Generator{}, gen)

	gen, err = NewGenerator(config.GeneratorConfig{Mode: config.GeneratorRemote, URL: "http://localhost:5000"}, logging.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &remote.Client{}, gen)

	_, err = NewGenerator(config.GeneratorConfig{Mode: config.GeneratorLocal, Catalog: filepath.Join(t.TempDir(), "missing.yaml")}, logging.NewNop())
	assert.Error(t, err)
}
