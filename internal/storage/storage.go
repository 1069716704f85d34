package storage

import (
	"context"
	"errors"
	"time"
)

// Store is the key-value contract used for session state: cart envelopes,
// checkout sessions, guest address books and lookup caches.
// Consumers define this interface, not the Redis implementation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
