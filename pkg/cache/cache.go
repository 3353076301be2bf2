// Package cache stores finished solve results so repeated requests for the
// same board and search configuration skip the search.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON files under a directory, for CLI usage
//   - [RedisCache]: a shared Redis instance, for the HTTP API
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are produced by a [Keyer] so that backends never interpret them.
package cache

import (
	"context"
	"time"
)

// TTLSolve is the default lifetime of a cached solve result. Results are
// deterministic for a given key, so the TTL only bounds disk usage.
const TTLSolve = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// SolveKeyOpts are the inputs that determine a solve result.
type SolveKeyOpts struct {
	Strategy      string `json:"strategy"`
	Heuristic     string `json:"heuristic"`
	MaxExpansions int    `json:"max_expansions"`
}

// Keyer builds cache keys.
type Keyer interface {
	// SolveKey returns the key for solving board (in its compact text form)
	// with the given options.
	SolveKey(board string, opts SolveKeyOpts) string
}

// DefaultKeyer hashes key inputs so keys have a fixed length.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey implements Keyer.
func (DefaultKeyer) SolveKey(board string, opts SolveKeyOpts) string {
	return hashKey("solve", board, opts)
}
