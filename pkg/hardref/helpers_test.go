package hardref

import (
	"context"
	"errors"

	"github.com/matzehuels/hardref/pkg/asset"
)

// pkgSpec is a compact package declaration for test registries.
type pkgSpec struct {
	id   asset.PackageID
	size int64
	typ  string
	deps []asset.PackageID
}

func newRegistry(pkgs ...pkgSpec) *asset.MemoryRegistry {
	r := asset.NewMemoryRegistry()
	for _, p := range pkgs {
		r.Add(asset.PackageMetadata{ID: p.id, Size: p.size, TypeName: p.typ}, p.deps...)
	}
	return r
}

func ids(ps ...string) []asset.PackageID {
	out := make([]asset.PackageID, len(ps))
	for i, p := range ps {
		out[i] = asset.PackageID(p)
	}
	return out
}

var errBackend = errors.New("connection refused")

// failingRegistry fails every query after the first `after` successful ones.
type failingRegistry struct {
	asset.Registry
	after int
	calls int
}

func (f *failingRegistry) fail() bool {
	f.calls++
	return f.calls > f.after
}

func (f *failingRegistry) HardDependencies(ctx context.Context, pkg asset.PackageID) ([]asset.PackageID, error) {
	if f.fail() {
		return nil, errBackend
	}
	return f.Registry.HardDependencies(ctx, pkg)
}

func (f *failingRegistry) PackageMetadata(ctx context.Context, pkg asset.PackageID) (asset.PackageMetadata, bool, error) {
	if f.fail() {
		return asset.PackageMetadata{}, false, errBackend
	}
	return f.Registry.PackageMetadata(ctx, pkg)
}

// countingRegistry counts queries per package.
type countingRegistry struct {
	asset.Registry
	deps map[asset.PackageID]int
	meta map[asset.PackageID]int
}

func newCountingRegistry(r asset.Registry) *countingRegistry {
	return &countingRegistry{
		Registry: r,
		deps:     make(map[asset.PackageID]int),
		meta:     make(map[asset.PackageID]int),
	}
}

func (c *countingRegistry) HardDependencies(ctx context.Context, pkg asset.PackageID) ([]asset.PackageID, error) {
	c.deps[pkg]++
	return c.Registry.HardDependencies(ctx, pkg)
}

func (c *countingRegistry) PackageMetadata(ctx context.Context, pkg asset.PackageID) (asset.PackageMetadata, bool, error) {
	c.meta[pkg]++
	return c.Registry.PackageMetadata(ctx, pkg)
}
