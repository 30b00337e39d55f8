package hardref

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hardref/pkg/asset"
	"github.com/matzehuels/hardref/pkg/blueprint"
)

// Scanner walks a Blueprint and files a [Site] under every dependency
// package one of its object references resolves into.
//
// Scanner holds no state between calls; use [NewScanner] to construct one.
type Scanner struct {
	resolver asset.ObjectResolver
	locals   bool
	logger   *log.Logger
}

// NewScanner creates a Scanner from opts.
func NewScanner(opts Options) *Scanner {
	opts = opts.WithDefaults()
	return &Scanner{
		resolver: opts.Resolver,
		locals:   !opts.SkipFunctionLocals,
		logger:   opts.Logger,
	}
}

// Scan returns the sites found in bp for each package in deps. Packages
// outside deps are ignored. A nil Blueprint yields no sites.
func (s *Scanner) Scan(bp *blueprint.Blueprint, deps []asset.PackageID) Sites {
	sc := &scan{
		Scanner: s,
		deps:    make(map[asset.PackageID]bool, len(deps)),
		sites:   make(Sites),
	}
	for _, d := range deps {
		sc.deps[d] = true
	}
	if bp == nil || len(deps) == 0 {
		return sc.sites
	}

	sc.graphs(bp)
	sc.classProperties(bp)
	sc.components(bp)
	if s.locals {
		sc.functionLocals(bp)
	}
	return sc.sites
}

// scan is the per-call state of a Scanner.
type scan struct {
	*Scanner
	deps  map[asset.PackageID]bool
	sites Sites
}

// file records site under the package owning ref, if that package is a
// dependency.
func (sc *scan) file(ref asset.ObjectRef, site Site) {
	if ref.IsNull() {
		return
	}
	pkg, ok := sc.resolver.OwningPackage(ref)
	if !ok {
		sc.logger.Debug("unresolvable reference", "object", ref, "site", site.Label)
		return
	}
	if !sc.deps[pkg] {
		return
	}
	site.Object = ref
	sc.sites[pkg] = append(sc.sites[pkg], site)
}

// graphs covers call-function and dynamic-cast nodes plus pin defaults,
// event graphs first.
func (sc *scan) graphs(bp *blueprint.Blueprint) {
	for _, graphs := range [][]*blueprint.Graph{bp.EventGraphs, bp.FunctionGraphs} {
		for _, g := range graphs {
			if g == nil {
				continue
			}
			for _, n := range g.Nodes {
				if n == nil {
					continue
				}
				sc.node(n)
				sc.pins(n)
			}
		}
	}
}

func (sc *scan) node(n *blueprint.Node) {
	var cat Category
	switch n.Kind {
	case blueprint.NodeCallFunction:
		cat = CategoryFunctionCall
	case blueprint.NodeDynamicCast:
		cat = CategoryCast
	default:
		return
	}
	sc.file(n.Target, Site{
		Label:    n.Title,
		Tooltip:  string(n.Target),
		NodeID:   n.ID,
		Category: cat,
	})
}

// pins covers visible, unlinked input pins with a default object.
func (sc *scan) pins(n *blueprint.Node) {
	for _, p := range n.Pins {
		if p.Hidden || !p.IsInput() || p.Linked || p.Default.IsNull() {
			continue
		}
		sc.file(p.Default, Site{
			Label:    fmt.Sprintf("%s (%s)", p.Name, n.Title),
			Tooltip:  string(p.Default),
			NodeID:   n.ID,
			Category: CategoryPinDefault,
		})
	}
}

// classProperties covers properties declared on the generated class, read
// from the class defaults. Component instances do not live on the class
// defaults, so component-typed properties are left to the component scan.
func (sc *scan) classProperties(bp *blueprint.Blueprint) {
	for _, p := range bp.Properties {
		if !p.Variable && p.IsComponentRef() {
			continue
		}
		site := Site{
			Label:    p.Name,
			Variable: p.Name,
			Category: CategoryProperty,
			Icon:     "Kismet." + p.IconTag(),
		}
		if p.Variable {
			site.Category = CategoryMemberVariable
			site.Tooltip = VariableTooltip
		}
		for _, ref := range p.ObjectRefs(bp.Defaults) {
			sc.file(ref, site)
		}
	}
}

// components covers each construction-script component: its class, then the
// references held by its template.
func (sc *scan) components(bp *blueprint.Blueprint) {
	for _, c := range bp.Components {
		name := c.Variable
		if name == "" {
			name = c.Name
		}
		if name == "" {
			sc.logger.Debug("skipping unnamed component", "class", c.Class)
			continue
		}

		sc.file(c.Class, Site{
			Label:    name,
			Tooltip:  string(c.Class),
			Variable: name,
			Category: CategoryComponent,
		})

		// Templates are real instances, so component-typed properties count
		// here even though the class-default scan skips them.
		for _, p := range c.Properties {
			for _, ref := range p.ObjectRefs(c.Template) {
				sc.file(ref, Site{
					Label:    name,
					Tooltip:  name + "." + p.Name,
					Variable: name,
					Category: CategoryComponent,
				})
			}
		}
	}
}

// functionLocals covers the captured references of class functions that
// have an entry node in a function graph.
func (sc *scan) functionLocals(bp *blueprint.Blueprint) {
	for _, f := range bp.Functions {
		if len(f.References) == 0 {
			continue
		}
		entry := bp.FunctionEntry(f.Name)
		if entry == nil {
			sc.logger.Debug("no entry node for function", "function", f.Name)
			continue
		}
		label := entry.Title
		if label == "" {
			label = f.Name
		}
		for _, ref := range f.References {
			sc.file(ref, Site{
				Label:    label,
				Tooltip:  string(ref),
				NodeID:   entry.ID,
				Category: CategoryFunctionLocal,
			})
		}
	}
}
