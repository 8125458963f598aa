package redis

import "strings"

const (
	// KeyPrefixView is the prefix for cached view keys
	KeyPrefixView = "folio:view:"
)

// ViewKey returns the Redis key for a cached view
func ViewKey(name string) string {
	return KeyPrefixView + name
}

// ViewName extracts the view name from a Redis key
func ViewName(key string) (string, bool) {
	if !strings.HasPrefix(key, KeyPrefixView) || len(key) == len(KeyPrefixView) {
		return "", false
	}
	return key[len(KeyPrefixView):], true
}
