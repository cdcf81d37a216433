package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/triprules"
	"github.com/aretw0/triprules/internal/config"
	"github.com/aretw0/triprules/pkg/adapters/file"
	"github.com/aretw0/triprules/pkg/adapters/memory"
	"github.com/aretw0/triprules/pkg/adapters/redis"
	"github.com/aretw0/triprules/pkg/adapters/remote"
	"github.com/aretw0/triprules/pkg/adapters/sqlite"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/export"
	"github.com/aretw0/triprules/pkg/itinerary"
	"github.com/aretw0/triprules/pkg/persistence/middleware"
	"github.com/aretw0/triprules/pkg/ports"
)

// Resources bundles the adapters built from configuration.
type Resources struct {
	Store     ports.KVStore
	Generator ports.Generator
	Exporter  *export.Exporter

	closers []func() error
}

// Close releases any connections held by the store.
func (r *Resources) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Open builds the store, generator and exporter described by cfg.
func Open(cfg *config.Config, logger *slog.Logger) (*Resources, error) {
	store, closer, err := OpenStore(cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	res := &Resources{Store: store}
	if closer != nil {
		res.closers = append(res.closers, closer)
	}

	gen, err := NewGenerator(cfg.Generator, logger)
	if err != nil {
		_ = res.Close()
		return nil, err
	}
	res.Generator = gen
	res.Exporter = export.New(cfg.Export.Dir, export.WithLogger(logger))
	return res, nil
}

// OpenStore creates the configured KVStore, wrapped with encryption when key
// material is present. The returned closer may be nil.
func OpenStore(cfg config.StoreConfig, logger *slog.Logger) (ports.KVStore, func() error, error) {
	var (
		store  ports.KVStore
		closer func() error
	)

	switch cfg.Type {
	case config.StoreMemory:
		store = memory.NewStore()
	case config.StoreFile:
		store = file.New(cfg.Path)
	case config.StoreRedis:
		s := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		store, closer = s, s.Close
	case config.StoreSQLite:
		s, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		store, closer = s, s.Close
	default:
		return nil, nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
	logger.Debug("Store opened", "type", cfg.Type, "path", cfg.Path)

	if !cfg.Encryption.Enabled() {
		return store, closer, nil
	}
	encCfg, err := encryptionConfig(cfg.Encryption)
	if err != nil {
		if closer != nil {
			_ = closer()
		}
		return nil, nil, err
	}
	logger.Debug("Store encryption enabled", "fallback_keys", len(encCfg.FallbackKeys))
	return middleware.Chain(store, middleware.NewEncryptionMiddleware(encCfg)), closer, nil
}

func encryptionConfig(cfg config.EncryptionConfig) (middleware.EncryptionConfig, error) {
	var out middleware.EncryptionConfig

	if cfg.Key != "" {
		key, err := decodeKey(cfg.Key)
		if err != nil {
			return out, fmt.Errorf("invalid encryption key: %w", err)
		}
		out.ActiveKey = key
	} else {
		key, err := middleware.DeriveKey(cfg.Passphrase, cfg.Salt)
		if err != nil {
			return out, err
		}
		out.ActiveKey = key
	}

	for i, k := range cfg.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return out, fmt.Errorf("invalid fallback key %d: %w", i, err)
		}
		out.FallbackKeys = append(out.FallbackKeys, key)
	}
	return out, nil
}

func decodeKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(key) != middleware.KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", middleware.KeySize, len(key))
	}
	return key, nil
}

// NewGenerator creates the local template generator or the remote client.
func NewGenerator(cfg config.GeneratorConfig, logger *slog.Logger) (ports.Generator, error) {
	if cfg.Mode == config.GeneratorRemote {
		return remote.New(cfg.URL,
			remote.WithTimeout(cfg.Timeout),
			remote.WithLogger(logger),
		), nil
	}
	return NewLocalGenerator(cfg.Catalog, logger)
}

// NewLocalGenerator creates the template generator, optionally overriding the
// embedded catalog with the file at catalogPath.
func NewLocalGenerator(catalogPath string, logger *slog.Logger) (*itinerary.Generator, error) {
	opts := []itinerary.Option{itinerary.WithLogger(logger)}
	if catalogPath != "" {
		catalog, err := itinerary.LoadCatalog(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load itinerary catalog: %w", err)
		}
		opts = append(opts, itinerary.WithCatalog(catalog))
	}
	return itinerary.New(opts...)
}

// NewPlanner resumes the wizard session held by res.Store.
func NewPlanner(ctx context.Context, res *Resources, hooks domain.LifecycleHooks, logger *slog.Logger) (*triprules.Planner, error) {
	p, err := triprules.New(ctx,
		triprules.WithStore(res.Store),
		triprules.WithGenerator(res.Generator),
		triprules.WithExporter(res.Exporter),
		triprules.WithLifecycleHooks(hooks),
		triprules.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing planner: %w", err)
	}
	return p, nil
}
