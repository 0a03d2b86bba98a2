// Package cache stores rendered projection results keyed by a fingerprint of
// their inputs.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// KeyPrefix namespaces every key written by this package.
const KeyPrefix = "rental-cashflow:projection:"

// Cache is a string key/value store with per-entry expiry. A ttl of zero
// means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Fingerprint returns a stable cache key for v. Inputs that encode to the
// same JSON share a key.
func Fingerprint(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprinting cache key: %w", err)
	}
	return fmt.Sprintf("%s%016x", KeyPrefix, xxhash.Sum64(data)), nil
}
