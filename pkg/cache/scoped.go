package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating projects or tools that
// share one cache backend.
//
// Example usage:
//
//	// Keys for one project on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "moxygen:myproject:")
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

// RecordsKey generates a prefixed key for record set caching.
func (k *ScopedKeyer) RecordsKey(fingerprint string, opts RecordsKeyOpts) string {
	return k.prefix + k.inner.RecordsKey(fingerprint, opts)
}
