package cache

import (
	"context"
	"time"
)

// Cache is the JSON key/value surface the services use for history
// listings and synthesized feedback. A miss is (false, nil), never an
// error; callers must always be able to fall through to the store.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
