package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/ports"
	"golang.org/x/crypto/hkdf"
)

// envelopePrefix marks values written by this middleware.
const envelopePrefix = "enc:v1:"

// KeySize is the length of every key accepted by the middleware (AES-256).
const KeySize = 32

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey seals every new value.
	ActiveKey []byte

	// FallbackKeys are only used to open values sealed before a key rotation.
	FallbackKeys [][]byte
}

// sealer encrypts values with AES-GCM. The storage key is bound as
// additional data, so a ciphertext moved to another key does not open.
type sealer struct {
	next ports.KVStore
	// keys[0] is the active key.
	keys []cipher.AEAD
}

// NewEncryptionMiddleware creates a middleware that encrypts values using AES-GCM.
// It panics when a key is not KeySize bytes long; callers validate configuration first.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	keys := make([]cipher.AEAD, 0, 1+len(config.FallbackKeys))
	for i, k := range append([][]byte{config.ActiveKey}, config.FallbackKeys...) {
		aead, err := newAEAD(k)
		if err != nil {
			panic(fmt.Sprintf("encryption key %d: %v", i, err))
		}
		keys = append(keys, aead)
	}
	return func(next ports.KVStore) ports.KVStore {
		return &sealer{next: next, keys: keys}
	}
}

// DeriveKey stretches a passphrase into a KeySize key with HKDF-SHA256.
// The salt scopes the key (e.g. to a profile name).
func DeriveKey(passphrase, salt string) ([]byte, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase cannot be empty")
	}
	key := make([]byte, KeySize)
	r := hkdf.New(sha256.New, []byte(passphrase), []byte(salt), []byte("triprules state encryption"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (s *sealer) Set(ctx context.Context, key, value string) error {
	aead := s.keys[0]
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return s.next.Set(ctx, key, envelopePrefix+base64.StdEncoding.EncodeToString(sealed))
}

func (s *sealer) Get(ctx context.Context, key string) (string, error) {
	envelope, err := s.next.Get(ctx, key)
	if err != nil {
		return "", err
	}

	// Plaintext written before encryption was enabled is not trusted.
	encoded, ok := strings.CutPrefix(envelope, envelopePrefix)
	if !ok {
		return "", fmt.Errorf("%w: value is missing encryption envelope", domain.ErrPersistenceCorrupt)
	}
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode ciphertext base64: %v", domain.ErrPersistenceCorrupt, err)
	}

	for _, aead := range s.keys {
		n := aead.NonceSize()
		if len(sealed) < n+aead.Overhead() {
			return "", fmt.Errorf("%w: ciphertext too short", domain.ErrPersistenceCorrupt)
		}
		if plain, err := aead.Open(nil, sealed[:n], sealed[n:], []byte(key)); err == nil {
			return string(plain), nil
		}
	}
	return "", fmt.Errorf("%w: decryption failed with all available keys", domain.ErrPersistenceCorrupt)
}

func (s *sealer) Remove(ctx context.Context, key string) error {
	return s.next.Remove(ctx, key)
}

func (s *sealer) List(ctx context.Context) ([]string, error) {
	if l, ok := s.next.(ports.Lister); ok {
		return l.List(ctx)
	}
	return nil, errors.New("underlying store cannot list keys")
}
