package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent or its entry has expired.
var ErrCacheMiss = errors.New("cache miss")

// DefaultTTL is how long a cached payload stays fresh. Live tournament
// state changes on the order of minutes.
const DefaultTTL = 180 * time.Second

// Store is the cache backend contract. Get returns ErrCacheMiss for
// absent or expired entries; implementations evaluate TTL at read time.
type Store interface {
	Get(ctx context.Context, key Key) (*Entry, error)
	Set(ctx context.Context, key Key, entry *Entry) error
	Delete(ctx context.Context, key Key) error
}
