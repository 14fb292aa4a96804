package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yndnr/hireflow-go/internal/storage"
	"github.com/yndnr/hireflow-go/pkg/crypto/adaptive"
)

// Fixed storage keys.
const (
	TokenKey  = "auth_token"
	UserIDKey = "user_id"
)

// sealPurpose binds derived sealing keys to this store.
const sealPurpose = "hireflow/token-store/v1"

const opTimeout = 5 * time.Second

// Store reads and writes the session.
//
// There is no lock spanning Get, Set and Remove. Each KV operation is
// atomic on its own and the last write wins.
type Store struct {
	kv     storage.KV
	cipher adaptive.Cipher
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithSecret seals stored values with a key derived from secret.
// An empty secret leaves values unsealed.
func WithSecret(secret string) Option {
	return func(s *Store) error {
		if secret == "" {
			return nil
		}
		key, err := adaptive.DeriveKey([]byte(secret), sealPurpose)
		if err != nil {
			return fmt.Errorf("derive sealing key: %w", err)
		}
		c, err := adaptive.New(key)
		if err != nil {
			return fmt.Errorf("create cipher: %w", err)
		}
		s.cipher = c
		return nil
	}
}

// WithCipher seals stored values with c.
func WithCipher(c adaptive.Cipher) Option {
	return func(s *Store) error {
		s.cipher = c
		return nil
	}
}

// Open creates a Store over kv. The Store takes ownership of kv.
func Open(kv storage.KV, opts ...Option) (*Store, error) {
	if kv == nil {
		return nil, errors.New("tokenstore: kv is required")
	}

	s := &Store{
		kv:     kv,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("tokenstore: %w", err)
		}
	}
	return s, nil
}

// Get returns the stored token and whether one is present.
func (s *Store) Get() (string, bool) {
	return s.read(TokenKey)
}

// UserID returns the stored user id and whether one is present.
func (s *Store) UserID() (string, bool) {
	return s.read(UserIDKey)
}

// IsAuthenticated reports whether a token is stored.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Get()
	return ok
}

// Set stores token. userID is stored as fmt.Sprint(userID) unless it is
// nil or formats to the empty string, in which case the previous user id
// is left unchanged.
func (s *Store) Set(token string, userID any) error {
	if token == "" {
		return errors.New("tokenstore: empty token")
	}
	if err := s.write(TokenKey, token); err != nil {
		return err
	}

	if userID == nil {
		return nil
	}
	id := fmt.Sprint(userID)
	if id == "" {
		return nil
	}
	return s.write(UserIDKey, id)
}

// Remove deletes the token and user id. Removing an empty store is a no-op.
func (s *Store) Remove() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var errs []error
	for _, key := range []string{TokenKey, UserIDKey} {
		if err := s.kv.Delete(ctx, []byte(key)); err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("tokenstore: %w", errors.Join(errs...))
	}
	return nil
}

// Teardown ends the session on logout.
func (s *Store) Teardown() error {
	if err := s.Remove(); err != nil {
		return err
	}
	s.logger.Info("session cleared")
	return nil
}

// Close releases the underlying medium.
func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) read(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := s.kv.Get(ctx, []byte(key))
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn("session read failed", "key", key, "error", err)
		}
		return "", false
	}

	if s.cipher != nil {
		raw, err = s.cipher.Decrypt(raw, []byte(key))
		if err != nil {
			s.logger.Warn("session value could not be opened", "key", key, "error", err)
			return "", false
		}
	}

	if len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

func (s *Store) write(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw := []byte(value)
	if s.cipher != nil {
		sealed, err := s.cipher.Encrypt(raw, []byte(key))
		if err != nil {
			return fmt.Errorf("tokenstore: seal %s: %w", key, err)
		}
		raw = sealed
	}

	if err := s.kv.Set(ctx, []byte(key), raw); err != nil {
		return fmt.Errorf("tokenstore: write %s: %w", key, err)
	}
	return nil
}
