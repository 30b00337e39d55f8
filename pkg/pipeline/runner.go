package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/hardref/pkg/cache"
	"github.com/matzehuels/hardref/pkg/errors"
	"github.com/matzehuels/hardref/pkg/hardref"
	"github.com/matzehuels/hardref/pkg/observability"
	"github.com/matzehuels/hardref/pkg/report"
	"github.com/matzehuels/hardref/pkg/snapshot"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options. Identical concurrent scans are collapsed
// into one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	scans singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → scan → report pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	snap, err := r.LoadSnapshot(opts)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	scanStart := time.Now()
	res, scanHit, err := r.ScanWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, err
	}
	result.Scan = res
	result.Stats.ScanTime = time.Since(scanStart)
	result.Stats.Groups = len(res.Groups)
	result.Stats.Sites = res.SiteCount()
	result.CacheInfo.ScanHit = scanHit

	r.Logger.Info("scanned blueprint",
		"blueprint", res.Blueprint,
		"groups", result.Stats.Groups,
		"sites", result.Stats.Sites,
		"cached", scanHit,
		"duration", result.Stats.ScanTime)

	if opts.Format == "" {
		return result, nil
	}

	reportStart := time.Now()
	out, reportHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, err
	}
	result.Report = out
	result.Stats.ReportTime = time.Since(reportStart)
	result.CacheInfo.ReportHit = reportHit

	r.Logger.Debug("rendered report",
		"format", opts.Format,
		"bytes", len(out),
		"cached", reportHit,
		"duration", result.Stats.ReportTime)

	return result, nil
}

// LoadSnapshot returns opts.Snapshot or loads it from opts.SnapshotPath.
func (r *Runner) LoadSnapshot(opts Options) (*snapshot.Snapshot, error) {
	if opts.Snapshot != nil {
		return opts.Snapshot, nil
	}
	snap, err := snapshot.Load(opts.SnapshotPath)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded snapshot",
		"path", opts.SnapshotPath,
		"packages", len(snap.Packages),
		"blueprints", len(snap.Blueprints))
	return snap, nil
}

// ScanWithCacheInfo scans the selected Blueprint and reports whether the
// result came from the cache.
func (r *Runner) ScanWithCacheInfo(ctx context.Context, snap *snapshot.Snapshot, opts Options) (*hardref.Result, bool, error) {
	r.applyLogger(&opts)

	bp, err := snap.Blueprint(opts.Blueprint)
	if err != nil {
		return nil, false, err
	}

	reg := opts.Registry
	if reg == nil {
		reg = snap.Registry()
	}
	finder := hardref.NewFinder(reg, hardref.Options{
		Resolver:           snap.Resolver(),
		SkipFunctionLocals: opts.SkipFunctionLocals,
		Logger:             opts.Logger,
	})

	if !opts.Cacheable(snap) {
		res, err := finder.Find(ctx, bp)
		return res, false, err
	}

	key := r.Keyer.ScanKey(snap.Digest, string(bp.Path), opts.ScanKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var res hardref.Result
			if err := json.Unmarshal(data, &res); err == nil {
				hooks.OnCacheHit(ctx, "scan")
				return &res, true, nil
			}
			// Undecodable entries are recomputed and overwritten
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "error", err)
		}
		hooks.OnCacheMiss(ctx, "scan")
	}

	// The scan outlives any single caller: a joined caller must not lose its
	// result because the caller that started the scan went away.
	detached := context.WithoutCancel(ctx)
	ch := r.scans.DoChan(key, func() (any, error) {
		res, err := finder.Find(detached, bp)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(res); err == nil {
			if err := r.Cache.Set(detached, key, data, cache.TTLScan); err != nil {
				r.Logger.Warn("cache write failed", "key", key, "error", err)
			} else {
				hooks.OnCacheSet(detached, "scan", len(data))
			}
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case out := <-ch:
		if out.Err != nil {
			return nil, false, out.Err
		}
		if out.Shared {
			r.Logger.Debug("joined in-flight scan", "blueprint", bp.Path)
		}
		return out.Val.(*hardref.Result).Clone(), false, nil
	}
}

// Scan is a convenience wrapper that calls ScanWithCacheInfo and discards the cache hit info.
func (r *Runner) Scan(ctx context.Context, snap *snapshot.Snapshot, opts Options) (*hardref.Result, error) {
	res, _, err := r.ScanWithCacheInfo(ctx, snap, opts)
	return res, err
}

// RenderWithCacheInfo renders res in opts.Format and reports whether the
// output came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *hardref.Result, opts Options) ([]byte, bool, error) {
	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return nil, false, err
	}
	opts.Format = string(format)

	var buf bytes.Buffer

	// Text output carries terminal styling for the current session only
	if format == report.FormatText {
		if err := report.Text(&buf, res, opts.ReportOptions()); err != nil {
			return nil, false, err
		}
		return buf.Bytes(), false, nil
	}

	hash, err := cache.HashJSON(res)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash scan result")
	}
	key := r.Keyer.ReportKey(hash, opts.ReportKeyOpts())
	hooks := observability.Cache()

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, "report")
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, "report")

	if err := report.Write(ctx, &buf, res, format, opts.ReportOptions()); err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLReport); err == nil {
		hooks.OnCacheSet(ctx, "report", buf.Len())
	}
	return buf.Bytes(), false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *hardref.Result, opts Options) ([]byte, error) {
	out, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return out, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
