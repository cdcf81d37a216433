package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete triprules configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Server    ServerConfig    `mapstructure:"server"`
	Export    ExportConfig    `mapstructure:"export"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
}

// StoreConfig selects and configures the session store.
type StoreConfig struct {
	// Type is one of memory, file, redis, sqlite.
	Type string `mapstructure:"type"`
	// Path is the directory (file) or database file (sqlite).
	Path       string           `mapstructure:"path"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
}

// RedisConfig configures the redis store.
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// EncryptionConfig enables at-rest encryption of stored values.
// Key wins over Passphrase when both are set.
type EncryptionConfig struct {
	// Key is a base64 encoded 32 byte AES key.
	Key string `mapstructure:"key"`
	// Passphrase is stretched into a key with HKDF.
	Passphrase string `mapstructure:"passphrase"`
	// Salt scopes the passphrase derived key.
	Salt string `mapstructure:"salt"`
	// FallbackKeys are base64 keys still accepted for decryption.
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// Enabled reports whether any key material is configured.
func (e EncryptionConfig) Enabled() bool {
	return e.Key != "" || e.Passphrase != ""
}

// GeneratorConfig selects where itineraries come from.
type GeneratorConfig struct {
	// Mode is local (templates) or remote (HTTP backend).
	Mode string `mapstructure:"mode"`
	// URL is the remote backend base URL.
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// Catalog optionally overrides the embedded itinerary templates.
	Catalog string `mapstructure:"catalog"`
}

// ServerConfig configures the itinerary HTTP backend.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	Metrics         bool          `mapstructure:"metrics"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ExportConfig configures itinerary downloads.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"

	GeneratorLocal  = "local"
	GeneratorRemote = "remote"
)

// EnvPrefix prefixes every environment override (e.g. TRIPRULES_STORE_TYPE).
const EnvPrefix = "TRIPRULES"

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Store: StoreConfig{
			Type: StoreFile,
			Path: filepath.Join(".triprules", "state"),
			Redis: RedisConfig{
				Address: "localhost:6379",
				Prefix:  "triprules:",
			},
			Encryption: EncryptionConfig{
				Salt:         "triprules",
				FallbackKeys: []string{},
			},
		},
		Generator: GeneratorConfig{
			Mode:    GeneratorLocal,
			Timeout: 60 * time.Second,
		},
		Server: ServerConfig{
			Address: ":5000",
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
			Metrics:         true,
			ShutdownTimeout: 5 * time.Second,
		},
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("log.level", defaults.Log.Level)

	v.SetDefault("store.type", defaults.Store.Type)
	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("store.redis.address", defaults.Store.Redis.Address)
	v.SetDefault("store.redis.password", defaults.Store.Redis.Password)
	v.SetDefault("store.redis.db", defaults.Store.Redis.DB)
	v.SetDefault("store.redis.prefix", defaults.Store.Redis.Prefix)
	v.SetDefault("store.redis.ttl", defaults.Store.Redis.TTL)
	v.SetDefault("store.encryption.key", defaults.Store.Encryption.Key)
	v.SetDefault("store.encryption.passphrase", defaults.Store.Encryption.Passphrase)
	v.SetDefault("store.encryption.salt", defaults.Store.Encryption.Salt)
	v.SetDefault("store.encryption.fallback_keys", defaults.Store.Encryption.FallbackKeys)

	v.SetDefault("generator.mode", defaults.Generator.Mode)
	v.SetDefault("generator.url", defaults.Generator.URL)
	v.SetDefault("generator.timeout", defaults.Generator.Timeout)
	v.SetDefault("generator.catalog", defaults.Generator.Catalog)

	v.SetDefault("server.address", defaults.Server.Address)
	v.SetDefault("server.allowed_origins", defaults.Server.AllowedOrigins)
	v.SetDefault("server.metrics", defaults.Server.Metrics)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)

	v.SetDefault("export.dir", defaults.Export.Dir)
}

// New returns a viper instance with defaults, the TRIPRULES_ environment
// mapping and, if found, the config file applied. An explicit cfgFile must exist.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		return v, nil
	}

	v.SetConfigName("triprules")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(ConfigDir())
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// Load reads the configuration from v into a Config struct and validates it.
// FRONTEND_URL and PORT are honoured for compatibility with hosted deployments.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	cfg.Store.Encryption.FallbackKeys = splitList(cfg.Store.Encryption.FallbackKeys)
	if frontend := strings.TrimSpace(os.Getenv("FRONTEND_URL")); frontend != "" {
		cfg.Server.AllowedOrigins = append([]string{frontend}, cfg.Server.AllowedOrigins...)
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && !explicit(v, "server.address") {
		cfg.Server.Address = ":" + port
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// explicit reports whether key was set by the config file or the environment.
// IsSet cannot tell, because it also reports keys that only have a default.
func explicit(v *viper.Viper, key string) bool {
	if v.InConfig(key) {
		return true
	}
	env := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	_, ok := os.LookupEnv(env)
	return ok
}

// splitList flattens comma separated entries, which is how list values
// arrive from environment variables.
func splitList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "triprules")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".triprules"
	}
	return filepath.Join(home, ".config", "triprules")
}
