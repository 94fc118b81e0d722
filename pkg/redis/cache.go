package redis

import (
	"context"
	"fmt"
	"time"
)

// FingerprintCache remembers the input/config fingerprint of the last
// committed run per year, so an unchanged rerun can be skipped. A disabled
// client degrades to permanent cache misses; correctness never depends on
// Redis being up.
type FingerprintCache struct {
	client *Client
	prefix string
	ttl    time.Duration
}

// NewFingerprintCache creates a fingerprint cache helper.
func NewFingerprintCache(client *Client, prefix string, ttl time.Duration) *FingerprintCache {
	return &FingerprintCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// LastFingerprint returns the stored fingerprint for a year, with a found
// flag. A disabled cache or missing key is a miss, not an error.
func (c *FingerprintCache) LastFingerprint(ctx context.Context, year int) (string, bool, error) {
	if !c.client.Enabled() {
		return "", false, nil
	}

	val, err := c.client.Redis().Get(ctx, c.key(year)).Result()
	if err != nil {
		// Key not found and transient errors are both misses; the
		// pipeline just recomputes.
		return "", false, nil
	}

	return val, true, nil
}

// StoreFingerprint records the fingerprint of a committed run.
func (c *FingerprintCache) StoreFingerprint(ctx context.Context, year int, fingerprint string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.Redis().Set(ctx, c.key(year), fingerprint, c.ttl).Err()
}

func (c *FingerprintCache) key(year int) string {
	return fmt.Sprintf("%s:fingerprint:%d", c.prefix, year)
}
