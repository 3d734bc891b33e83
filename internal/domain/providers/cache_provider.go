package providers

import (
	"context"
)

// CacheProvider is the port for the response cache used by the audit and
// dashboard routes. Redis backs it in production; tests substitute stubs.
type CacheProvider interface {
	// Get retrieves a cached response body
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a response body with a TTL
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a cached entry
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}
