package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments (or
// projects) can share one Redis instance without colliding.
//
// Example usage:
//
//	// Per-project keys on a shared cache
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:shooter:")
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

// ScanKey generates a prefixed key for scan result caching.
func (k *ScopedKeyer) ScanKey(snapshotDigest, blueprint string, opts ScanKeyOpts) string {
	return k.prefix + k.inner.ScanKey(snapshotDigest, blueprint, opts)
}

// ReportKey generates a prefixed key for rendered report caching.
func (k *ScopedKeyer) ReportKey(resultHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(resultHash, opts)
}
