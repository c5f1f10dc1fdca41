package cache

// ScopedKeyer wraps a Keyer with a prefix.
// A shared Redis cache serving several polyfill libraries uses one scope per
// library so entries are easy to inspect and flush separately.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "polybuild:")
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

// MinifyKey generates a prefixed key for a minified source.
func (k *ScopedKeyer) MinifyKey(sourceHash string, opts MinifyKeyOpts) string {
	return k.prefix + k.inner.MinifyKey(sourceHash, opts)
}
