package hardref

import (
	"context"
	"time"

	"github.com/matzehuels/hardref/pkg/asset"
	"github.com/matzehuels/hardref/pkg/blueprint"
	"github.com/matzehuels/hardref/pkg/observability"
)

// Finder runs a complete scan: resolve, scan, aggregate and build.
//
// A Finder may be reused and shared between goroutines as long as its
// registry is safe for concurrent reads; each call to Find keeps its own
// scan-local state.
type Finder struct {
	reg  asset.Registry
	opts Options
}

// NewFinder creates a Finder that queries reg.
func NewFinder(reg asset.Registry, opts Options) *Finder {
	return &Finder{reg: reg, opts: opts.WithDefaults()}
}

// Find scans bp and returns its hard references grouped by dependency
// package. Running Find twice against an unchanged Blueprint and registry
// yields identical results.
//
// A nil Blueprint or one whose package cannot be resolved yields an empty
// Result. Errors are returned only for registry backend failures and context
// cancellation.
func (f *Finder) Find(ctx context.Context, bp *blueprint.Blueprint) (res *Result, err error) {
	var path asset.ObjectRef
	if bp != nil {
		path = bp.Path
	}

	start := time.Now()
	hooks := observability.Scan()
	hooks.OnScanStart(ctx, string(path))
	defer func() {
		groups, sites := 0, 0
		if res != nil {
			groups, sites = len(res.Groups), res.SiteCount()
		}
		hooks.OnScanComplete(ctx, string(path), groups, sites, time.Since(start), err)
	}()

	logger := f.opts.Logger
	res = &Result{Blueprint: path, Groups: []Group{}}
	if bp == nil {
		return res, nil
	}

	reg := newMemoRegistry(f.reg)
	resolution, err := Resolve(ctx, reg, f.opts.Resolver, path)
	if err != nil {
		return nil, err
	}
	if resolution.Root == "" {
		logger.Warn("blueprint does not resolve to a package", "blueprint", path)
		return res, nil
	}
	res.Root = resolution.Root
	res.RootSize = resolution.RootSize
	logger.Debug("resolved", "package", resolution.Root, "size", resolution.RootSize, "dependencies", len(resolution.Dependencies))

	if resolution.Empty() {
		return res, nil
	}

	sites := NewScanner(f.opts).Scan(bp, resolution.Dependencies)
	logger.Debug("scanned", "nodes", bp.NodeCount(), "sites", sites.Count())

	groups, err := NewBuilder(reg, f.opts).Build(ctx, resolution, sites)
	if err != nil {
		return nil, err
	}
	res.Groups = groups

	logger.Info("found hard references", "blueprint", path, "groups", len(groups), "sites", res.SiteCount())
	return res, nil
}
