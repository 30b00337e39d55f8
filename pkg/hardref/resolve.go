package hardref

import (
	"context"

	"github.com/matzehuels/hardref/pkg/asset"
	"github.com/matzehuels/hardref/pkg/errors"
)

// Resolution is the root package with its own size and first-level hard
// dependencies.
type Resolution struct {
	Root         asset.PackageID
	RootSize     int64
	Dependencies []asset.PackageID
}

// Empty reports whether the resolution has no dependencies.
func (r Resolution) Empty() bool { return len(r.Dependencies) == 0 }

// Has reports whether pkg is one of the resolved dependencies.
func (r Resolution) Has(pkg asset.PackageID) bool {
	for _, d := range r.Dependencies {
		if d == pkg {
			return true
		}
	}
	return false
}

// Resolve looks up the package owning root, its own on-disk size and its
// first-level hard dependencies.
//
// A null root, or one the resolver cannot place in a package, yields the zero
// Resolution and a nil error. A root package unknown to the registry has zero
// size. Dependencies keep registry order with duplicates and self-edges
// removed. Errors are returned only for registry backend failures.
func Resolve(ctx context.Context, reg asset.Registry, resolver asset.ObjectResolver, root asset.ObjectRef) (Resolution, error) {
	pkg, ok := resolver.OwningPackage(root)
	if !ok {
		return Resolution{}, nil
	}

	res := Resolution{Root: pkg}

	meta, found, err := reg.PackageMetadata(ctx, pkg)
	if err != nil {
		return Resolution{}, errors.Wrap(errors.ErrCodeRegistry, err, "metadata for %s", pkg)
	}
	if found {
		res.RootSize = meta.Size
	}

	deps, err := reg.HardDependencies(ctx, pkg)
	if err != nil {
		return Resolution{}, errors.Wrap(errors.ErrCodeRegistry, err, "hard dependencies of %s", pkg)
	}

	seen := make(map[asset.PackageID]bool, len(deps))
	for _, d := range deps {
		if d == "" || d == pkg || seen[d] {
			continue
		}
		seen[d] = true
		res.Dependencies = append(res.Dependencies, d)
	}
	return res, nil
}
