package hardref

import (
	"cmp"
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hardref/pkg/asset"
	"github.com/matzehuels/hardref/pkg/errors"
)

// Group is the findings for one dependency package.
type Group struct {
	Package     asset.PackageID `json:"package"`
	Name        string          `json:"name"`
	TypeName    string          `json:"type_name,omitempty"`
	DisplayPath string          `json:"display_path,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	// OwnSize is the package's own on-disk size; Size adds everything it
	// transitively hard-depends on.
	OwnSize int64  `json:"own_size"`
	Size    int64  `json:"size"`
	Sites   []Site `json:"sites"`
}

// Identified reports whether the scan attributed the group to at least one
// concrete site.
func (g Group) Identified() bool {
	return len(g.Sites) > 0 && !g.Sites[0].IsPlaceholder()
}

// Result is the outcome of a scan: one group per hard dependency of the
// Blueprint's package, largest first.
type Result struct {
	Blueprint asset.ObjectRef `json:"blueprint"`
	Root      asset.PackageID `json:"root,omitempty"`
	RootSize  int64           `json:"root_size"`
	Groups    []Group         `json:"groups"`
}

// SiteCount returns the number of sites across all groups, placeholders
// included.
func (r *Result) SiteCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Sites)
	}
	return n
}

// Clone returns a deep copy of r that shares no groups or sites with it.
func (r *Result) Clone() *Result {
	out := *r
	out.Groups = make([]Group, len(r.Groups))
	for i, g := range r.Groups {
		g.Sites = slices.Clone(g.Sites)
		out.Groups[i] = g
	}
	return &out
}

// Group returns the group for pkg.
func (r *Result) Group(pkg asset.PackageID) (Group, bool) {
	for _, g := range r.Groups {
		if g.Package == pkg {
			return g, true
		}
	}
	return Group{}, false
}

// Builder assembles scanner output into sorted groups.
type Builder struct {
	reg    asset.Registry
	agg    *Aggregator
	logger *log.Logger
}

// NewBuilder creates a Builder whose sizes come from reg.
func NewBuilder(reg asset.Registry, opts Options) *Builder {
	opts = opts.WithDefaults()
	return &Builder{
		reg:    reg,
		agg:    NewAggregator(reg, opts),
		logger: opts.Logger,
	}
}

// Build creates one group per dependency in res, filled with that package's
// sites in discovery order. Groups without sites receive the [Placeholder].
// Groups are sorted by Size descending, then by package identifier.
func (b *Builder) Build(ctx context.Context, res Resolution, sites Sites) ([]Group, error) {
	display, err := b.reg.AssetMetadata(ctx, res.Dependencies)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRegistry, err, "asset metadata")
	}

	groups := make([]Group, 0, len(res.Dependencies))
	for _, pkg := range res.Dependencies {
		g := Group{
			Package:     pkg,
			Name:        pkg.ShortName(),
			DisplayPath: string(pkg),
			Sites:       slices.Clone(sites[pkg]),
		}
		if am, ok := display[pkg]; ok {
			g.TypeName = am.TypeName
			if am.DisplayPath != "" {
				g.DisplayPath = am.DisplayPath
			}
		}

		meta, ok, err := b.reg.PackageMetadata(ctx, pkg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRegistry, err, "metadata for %s", pkg)
		}
		if ok {
			g.OwnSize = meta.Size
			if g.TypeName == "" {
				g.TypeName = meta.TypeName
			}
		}
		if g.TypeName != "" {
			g.Icon = "ClassIcon." + g.TypeName
		}

		if g.Size, err = b.agg.Size(ctx, pkg); err != nil {
			return nil, err
		}

		if len(g.Sites) == 0 {
			b.logger.Debug("no site found for dependency", "package", pkg)
			g.Sites = []Site{Placeholder()}
		}
		groups = append(groups, g)
	}

	SortGroups(groups)
	return groups, nil
}

// SortGroups orders groups by Size descending, breaking ties by package
// identifier so output does not depend on registry iteration order.
func SortGroups(groups []Group) {
	slices.SortStableFunc(groups, func(a, b Group) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Package, b.Package)
	})
}
