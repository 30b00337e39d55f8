// Package cache provides the byte caches behind repeated scans and reports.
//
// Scan results are a pure function of the snapshot contents, the chosen
// blueprint and the scan options, so a content hash of those inputs is a
// safe cache key. Three backends are available:
//
//   - [FileCache]: JSON entry files under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: caching disabled
//
// Keys are generated by a [Keyer] so deployments can namespace them with
// [NewScopedKeyer].
package cache

import (
	"context"
	"strings"
	"time"
)

// Default time-to-live values per entry kind.
const (
	TTLScan   = 7 * 24 * time.Hour
	TTLReport = 7 * 24 * time.Hour
)

// Cache stores opaque byte values by key.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key families. Every key a [Keyer] produces belongs to one of them, which
// lets [FileCache.Clear] drop scans without touching rendered reports.
const (
	FamilyScan   = "scan"
	FamilyReport = "report"
	FamilyOther  = "other"
)

// KeyFamily returns the family of key. Scoped prefixes are ignored: the
// family is the segment right before the content hash.
func KeyFamily(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return FamilyOther
	}
	switch f := parts[len(parts)-2]; f {
	case FamilyScan, FamilyReport:
		return f
	}
	return FamilyOther
}

// ScanKeyOpts are the scan options that change a scan result.
type ScanKeyOpts struct {
	SkipFunctionLocals bool `json:"skip_function_locals"`
}

// ReportKeyOpts are the options that change a rendered report.
type ReportKeyOpts struct {
	Format string `json:"format"`
	Sites  bool   `json:"sites,omitempty"`
	Sizes  bool   `json:"sizes,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ScanKey identifies a scan of one blueprint in one snapshot.
	ScanKey(snapshotDigest, blueprint string, opts ScanKeyOpts) string
	// ReportKey identifies a rendered report of one scan result.
	ReportKey(resultHash string, opts ReportKeyOpts) string
}

// DefaultKeyer generates content-addressed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ScanKey implements [Keyer].
func (DefaultKeyer) ScanKey(snapshotDigest, blueprint string, opts ScanKeyOpts) string {
	return hashKey("scan", snapshotDigest, blueprint, opts)
}

// ReportKey implements [Keyer].
func (DefaultKeyer) ReportKey(resultHash string, opts ReportKeyOpts) string {
	return hashKey("report", resultHash, opts)
}

// NullCache never stores anything. It stands in when caching is disabled
// or the configured backend is unreachable, so a scan always runs.
type NullCache struct{}

// NewNullCache creates a disabled cache.
func NewNullCache() Cache { return NullCache{} }

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete is a no-op.
func (NullCache) Delete(context.Context, string) error { return nil }

// Close is a no-op.
func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
