package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultViewTTL bounds how long a view survives when no flush happens
	DefaultViewTTL = 24 * time.Hour
)

// Store is the Redis-backed view cache shared by every replica.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis view cache
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
	}
}
