package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The HTTP server scopes its keys so a shared Redis can hold results
// from several deployments, and so CLI and server entries never collide.
//
// Example usage:
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "npuzzle:api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SolveKey generates a prefixed key for solve results.
func (k *ScopedKeyer) SolveKey(board string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(board, opts)
}
