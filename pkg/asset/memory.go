package asset

import (
	"context"
	"slices"
)

// MemoryRegistry is a [Registry] over an in-memory package table.
//
// It is the registry behind file snapshots and the fake used in tests. The
// zero value is an empty registry; use [MemoryRegistry.Add] to populate it.
// MemoryRegistry is not safe for concurrent mutation, but concurrent reads
// after population are fine.
type MemoryRegistry struct {
	packages map[PackageID]memoryPackage
}

type memoryPackage struct {
	meta        PackageMetadata
	displayPath string
	deps        []PackageID
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{packages: make(map[PackageID]memoryPackage)}
}

// Add registers (or replaces) a package with its size, type and hard dependencies.
func (r *MemoryRegistry) Add(meta PackageMetadata, deps ...PackageID) {
	r.AddWithPath(meta, "", deps...)
}

// AddWithPath is like Add but also records the display path of the primary asset.
func (r *MemoryRegistry) AddWithPath(meta PackageMetadata, displayPath string, deps ...PackageID) {
	if r.packages == nil {
		r.packages = make(map[PackageID]memoryPackage)
	}
	r.packages[meta.ID] = memoryPackage{
		meta:        meta,
		displayPath: displayPath,
		deps:        slices.Clone(deps),
	}
}

// Len returns the number of registered packages.
func (r *MemoryRegistry) Len() int { return len(r.packages) }

// Packages returns all registered package IDs in sorted order.
func (r *MemoryRegistry) Packages() []PackageID {
	ids := make([]PackageID, 0, len(r.packages))
	for id := range r.packages {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// HardDependencies implements [Registry].
func (r *MemoryRegistry) HardDependencies(_ context.Context, pkg PackageID) ([]PackageID, error) {
	p, ok := r.packages[pkg]
	if !ok {
		return nil, nil
	}
	return slices.Clone(p.deps), nil
}

// PackageMetadata implements [Registry].
func (r *MemoryRegistry) PackageMetadata(_ context.Context, pkg PackageID) (PackageMetadata, bool, error) {
	p, ok := r.packages[pkg]
	if !ok {
		return PackageMetadata{}, false, nil
	}
	return p.meta, true, nil
}

// AssetMetadata implements [Registry].
func (r *MemoryRegistry) AssetMetadata(_ context.Context, pkgs []PackageID) (map[PackageID]AssetMetadata, error) {
	out := make(map[PackageID]AssetMetadata, len(pkgs))
	for _, id := range pkgs {
		p, ok := r.packages[id]
		if !ok {
			continue
		}
		display := p.displayPath
		if display == "" {
			display = string(id)
		}
		out[id] = AssetMetadata{TypeName: p.meta.TypeName, DisplayPath: display}
	}
	return out, nil
}

// Ensure MemoryRegistry implements Registry.
var _ Registry = (*MemoryRegistry)(nil)
