package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidStoreTypes returns the list of supported store backends.
func ValidStoreTypes() []string {
	return []string{StoreMemory, StoreFile, StoreRedis, StoreSQLite}
}

// ValidGeneratorModes returns the list of supported generator modes.
func ValidGeneratorModes() []string {
	return []string{GeneratorLocal, GeneratorRemote}
}

// Validate checks the Config for invalid values and returns all errors found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, c.validateLog()...)
	errs = append(errs, c.validateStore()...)
	errs = append(errs, c.validateGenerator()...)
	errs = append(errs, c.validateServer()...)
	return errs
}

func (c *Config) validateLog() []ValidationError {
	if !slices.Contains(ValidLogLevels(), c.Log.Level) {
		return []ValidationError{{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		}}
	}
	return nil
}

func (c *Config) validateStore() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidStoreTypes(), c.Store.Type) {
		errs = append(errs, ValidationError{
			Field:   "store.type",
			Value:   c.Store.Type,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidStoreTypes(), ", ")),
		})
	}
	if (c.Store.Type == StoreFile || c.Store.Type == StoreSQLite) && strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, ValidationError{
			Field:   "store.path",
			Value:   c.Store.Path,
			Message: "is required for file and sqlite stores",
		})
	}
	if c.Store.Type == StoreRedis && strings.TrimSpace(c.Store.Redis.Address) == "" {
		errs = append(errs, ValidationError{
			Field:   "store.redis.address",
			Value:   c.Store.Redis.Address,
			Message: "is required for the redis store",
		})
	}
	if c.Store.Redis.TTL < 0 {
		errs = append(errs, ValidationError{
			Field:   "store.redis.ttl",
			Value:   c.Store.Redis.TTL,
			Message: "must be non-negative",
		})
	}

	enc := c.Store.Encryption
	if enc.Key != "" {
		if err := checkKey(enc.Key); err != nil {
			errs = append(errs, ValidationError{Field: "store.encryption.key", Value: "<redacted>", Message: err.Error()})
		}
	}
	for i, k := range enc.FallbackKeys {
		if err := checkKey(k); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("store.encryption.fallback_keys[%d]", i),
				Value:   "<redacted>",
				Message: err.Error(),
			})
		}
	}
	if len(enc.FallbackKeys) > 0 && !enc.Enabled() {
		errs = append(errs, ValidationError{
			Field:   "store.encryption.fallback_keys",
			Value:   len(enc.FallbackKeys),
			Message: "require an active key or passphrase",
		})
	}
	return errs
}

func (c *Config) validateGenerator() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidGeneratorModes(), c.Generator.Mode) {
		errs = append(errs, ValidationError{
			Field:   "generator.mode",
			Value:   c.Generator.Mode,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidGeneratorModes(), ", ")),
		})
	}
	if c.Generator.Mode == GeneratorRemote {
		u, err := url.Parse(c.Generator.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "generator.url",
				Value:   c.Generator.URL,
				Message: "must be an absolute http(s) URL in remote mode",
			})
		}
	}
	if c.Generator.Timeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "generator.timeout",
			Value:   c.Generator.Timeout,
			Message: "must be non-negative",
		})
	}
	return errs
}

func (c *Config) validateServer() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(c.Server.Address) == "" {
		errs = append(errs, ValidationError{
			Field:   "server.address",
			Value:   c.Server.Address,
			Message: "cannot be empty",
		})
	}
	for i, origin := range c.Server.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("server.allowed_origins[%d]", i),
				Value:   origin,
				Message: "must be an origin such as https://example.com",
			})
		}
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.shutdown_timeout",
			Value:   c.Server.ShutdownTimeout,
			Message: "must be positive",
		})
	}
	return errs
}

func checkKey(encoded string) error {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("must be base64: %w", err)
	}
	if len(key) != 32 {
		return fmt.Errorf("must decode to 32 bytes, got %d", len(key))
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
