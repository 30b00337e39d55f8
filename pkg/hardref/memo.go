package hardref

import (
	"context"
	"slices"

	"github.com/matzehuels/hardref/pkg/asset"
)

// memoRegistry caches registry answers for the duration of one scan. The
// aggregator revisits shared dependencies once per top-level group, so
// without it a deep graph is queried many times over.
//
// Errors are not cached. Not safe for concurrent use.
type memoRegistry struct {
	reg  asset.Registry
	deps map[asset.PackageID][]asset.PackageID
	meta map[asset.PackageID]metaEntry
}

type metaEntry struct {
	meta asset.PackageMetadata
	ok   bool
}

func newMemoRegistry(reg asset.Registry) *memoRegistry {
	return &memoRegistry{
		reg:  reg,
		deps: make(map[asset.PackageID][]asset.PackageID),
		meta: make(map[asset.PackageID]metaEntry),
	}
}

func (m *memoRegistry) HardDependencies(ctx context.Context, pkg asset.PackageID) ([]asset.PackageID, error) {
	if deps, ok := m.deps[pkg]; ok {
		return slices.Clone(deps), nil
	}
	deps, err := m.reg.HardDependencies(ctx, pkg)
	if err != nil {
		return nil, err
	}
	m.deps[pkg] = slices.Clone(deps)
	return deps, nil
}

func (m *memoRegistry) PackageMetadata(ctx context.Context, pkg asset.PackageID) (asset.PackageMetadata, bool, error) {
	if e, ok := m.meta[pkg]; ok {
		return e.meta, e.ok, nil
	}
	meta, ok, err := m.reg.PackageMetadata(ctx, pkg)
	if err != nil {
		return asset.PackageMetadata{}, false, err
	}
	m.meta[pkg] = metaEntry{meta: meta, ok: ok}
	return meta, ok, nil
}

// AssetMetadata is requested once per scan, so it passes straight through.
func (m *memoRegistry) AssetMetadata(ctx context.Context, pkgs []asset.PackageID) (map[asset.PackageID]asset.AssetMetadata, error) {
	return m.reg.AssetMetadata(ctx, pkgs)
}

var _ asset.Registry = (*memoRegistry)(nil)
