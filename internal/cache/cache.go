package cache

import "context"

// Cache stores rendered views by key until the next Flush.
// A miss is reported with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Flush(ctx context.Context) error
}
