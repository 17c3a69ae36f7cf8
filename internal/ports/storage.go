package ports

import "context"

// Storage is durable key-value text storage that survives restarts.
// Get returns domain.ErrKeyNotFound (possibly wrapped) for absent keys; Delete is idempotent.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
