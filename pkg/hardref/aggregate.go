package hardref

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hardref/pkg/asset"
	"github.com/matzehuels/hardref/pkg/errors"
)

// Aggregator computes transitive on-disk sizes over the hard-dependency graph.
// A missing package is reported once per Aggregator, however many groups
// reach it. Not safe for concurrent use.
type Aggregator struct {
	reg    asset.Registry
	logger *log.Logger
	warned map[asset.PackageID]bool
}

// NewAggregator creates an Aggregator over reg.
func NewAggregator(reg asset.Registry, opts Options) *Aggregator {
	opts = opts.WithDefaults()
	return &Aggregator{reg: reg, logger: opts.Logger, warned: make(map[asset.PackageID]bool)}
}

// Size returns the own size of pkg plus the own size of every package
// reachable from it over hard edges. Each package counts once per call, so
// cycles terminate and shared (diamond) dependencies are not double counted.
//
// A package without a registry record counts as zero bytes.
func (a *Aggregator) Size(ctx context.Context, pkg asset.PackageID) (int64, error) {
	visited := map[asset.PackageID]bool{pkg: true}
	stack := []asset.PackageID{pkg}
	var total int64

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		size, err := a.ownSize(ctx, cur)
		if err != nil {
			return 0, err
		}
		total += size

		deps, err := a.reg.HardDependencies(ctx, cur)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeRegistry, err, "hard dependencies of %s", cur)
		}
		// Push in reverse so dependencies are visited in registry order.
		for i := len(deps) - 1; i >= 0; i-- {
			d := deps[i]
			if d == "" || visited[d] {
				continue
			}
			visited[d] = true
			stack = append(stack, d)
		}
	}
	return total, nil
}

func (a *Aggregator) ownSize(ctx context.Context, pkg asset.PackageID) (int64, error) {
	meta, ok, err := a.reg.PackageMetadata(ctx, pkg)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeRegistry, err, "metadata for %s", pkg)
	}
	if !ok {
		if a.warned[pkg] {
			return 0, nil
		}
		a.warned[pkg] = true
		a.logger.Warn("package missing from registry, counting as 0 bytes", "package", pkg)
		return 0, nil
	}
	return meta.Size, nil
}
