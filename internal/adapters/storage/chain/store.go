package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/iot-warehouse-cli/internal/adapters/storage/file"
	passstore "github.com/bnema/iot-warehouse-cli/internal/adapters/storage/pass"
	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports"
)

// Store keeps each session key in one place: the primary when it is reachable, the
// fallback otherwise. A key found only in the fallback is moved to the primary on
// read, and a successful primary write drops the fallback copy.
type Store struct {
	primary  ports.Storage
	fallback ports.Storage
}

var _ ports.Storage = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary storage is nil")
	errNilFallbackStore = errors.New("fallback storage is nil")
)

func New(primary ports.Storage, fallback ports.Storage) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}
	return &Store{primary: primary, fallback: fallback}, nil
}

// NewPassFirstWithFileFallback keeps the session in pass and only spills to plain
// files under fileRoot while pass is unusable.
func NewPassFirstWithFileFallback(passPrefix string, fileRoot string) (*Store, error) {
	return New(passstore.NewStore(passPrefix), filestore.NewStore(fileRoot))
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, primaryErr := s.primary.Get(ctx, key)
	if primaryErr == nil {
		return value, nil
	}
	if isContextErr(primaryErr) {
		return "", primaryErr
	}

	value, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr != nil {
		if errors.Is(primaryErr, domain.ErrKeyNotFound) && errors.Is(fallbackErr, domain.ErrKeyNotFound) {
			return "", fmt.Errorf("session key %q: %w", key, domain.ErrKeyNotFound)
		}
		return "", fmt.Errorf("get %q: primary: %w; fallback: %w", key, primaryErr, fallbackErr)
	}

	if errors.Is(primaryErr, domain.ErrKeyNotFound) {
		s.promote(ctx, key, value)
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	primaryErr := s.primary.Put(ctx, key, value)
	if primaryErr == nil {
		_ = s.fallback.Delete(ctx, key)
		return nil
	}
	if isContextErr(primaryErr) {
		return primaryErr
	}

	if err := s.fallback.Put(ctx, key, value); err != nil {
		return fmt.Errorf("put %q: primary: %w; fallback: %w", key, primaryErr, err)
	}
	return nil
}

// Delete clears the key from both backends. It fails only when neither backend
// could delete it.
func (s *Store) Delete(ctx context.Context, key string) error {
	primaryErr := s.primary.Delete(ctx, key)
	if isContextErr(primaryErr) {
		return primaryErr
	}
	fallbackErr := s.fallback.Delete(ctx, key)

	if primaryErr != nil && fallbackErr != nil {
		return fmt.Errorf("delete %q: primary: %w; fallback: %w", key, primaryErr, fallbackErr)
	}
	return nil
}

// promote copies a fallback-only value into the primary. Failures leave the value
// where it was.
func (s *Store) promote(ctx context.Context, key, value string) {
	if err := s.primary.Put(ctx, key, value); err != nil {
		return
	}
	_ = s.fallback.Delete(ctx, key)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
