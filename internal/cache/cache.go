// Package cache stores extracted records per source document so unchanged
// files are not re-parsed on the next run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache is a byte-oriented cache with TTL expiry.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// FileKey builds a cache key from a document's identity plus the policy the
// records were extracted under. Size and mtime are part of the key, so an
// edited document misses the cache naturally instead of needing explicit
// invalidation; the policy string does the same for configuration changes
// that alter extraction results (the reference year, for one).
func FileKey(path string, size int64, mtime time.Time, policy string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d|%s", path, size, mtime.UnixNano(), policy)))
	return "radiance:v1:" + hex.EncodeToString(h[:])
}
