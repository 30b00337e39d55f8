// Package snapshot loads captured asset-registry state and Blueprint dumps
// from TOML or JSON files.
//
// A snapshot stands in for a live editor: its package table backs an
// [asset.MemoryRegistry] and its blueprints feed the scanner.
//
//	[[packages]]
//	name = "/Game/Weapons/Rifle"
//	size = 100
//	type = "Blueprint"
//	dependencies = ["/Game/FX/Muzzle"]
//
//	[objects]
//	"/Game/Redirected.Old_C" = "/Game/Weapons/Rifle"
//
//	[[blueprints]]
//	path = "/Game/BP_Hero.BP_Hero_C"
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/hardref/pkg/asset"
	"github.com/matzehuels/hardref/pkg/blueprint"
	"github.com/matzehuels/hardref/pkg/cache"
	"github.com/matzehuels/hardref/pkg/errors"
)

// Format is a snapshot encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// nodeNamespace seeds the name-based IDs given to nodes without one.
var nodeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hardref:node"))

// Package is one registry record.
type Package struct {
	Name         string   `json:"name" toml:"name"`
	Size         int64    `json:"size" toml:"size"`
	Type         string   `json:"type,omitempty" toml:"type"`
	Dependencies []string `json:"dependencies,omitempty" toml:"dependencies"`
	DisplayPath  string   `json:"display_path,omitempty" toml:"display_path"`
}

// Snapshot is a decoded snapshot file.
type Snapshot struct {
	Packages   []Package              `json:"packages" toml:"packages"`
	Objects    map[string]string      `json:"objects,omitempty" toml:"objects"`
	Blueprints []*blueprint.Blueprint `json:"blueprints" toml:"blueprints"`

	// Digest is the SHA-256 of the encoded snapshot.
	Digest string `json:"-" toml:"-"`
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	if err := errors.ValidateSnapshotFilename(path); err != nil {
		return "", err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON, nil
	}
	return FormatTOML, nil
}

// Load reads and decodes the snapshot at path.
func Load(path string) (*Snapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "snapshot not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(data, format)
}

// Decode parses and validates snapshot data.
func Decode(data []byte, format Format) (*Snapshot, error) {
	var s Snapshot
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode toml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported snapshot format %q", format)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.assignNodeIDs()
	s.Digest = cache.Hash(data)
	return &s, nil
}

// Validate checks package and blueprint records. All problems are reported
// together.
func (s *Snapshot) Validate() error {
	var problems []string
	seen := make(map[string]bool, len(s.Packages))
	for i, p := range s.Packages {
		if err := errors.ValidatePackageID(p.Name); err != nil {
			problems = append(problems, fmt.Sprintf("packages[%d]: %s", i, errors.UserMessage(err)))
			continue
		}
		if seen[p.Name] {
			problems = append(problems, fmt.Sprintf("packages[%d]: duplicate package %s", i, p.Name))
		}
		seen[p.Name] = true
		if p.Size < 0 {
			problems = append(problems, fmt.Sprintf("packages[%d]: negative size for %s", i, p.Name))
		}
		for _, d := range p.Dependencies {
			if err := errors.ValidatePackageID(d); err != nil {
				problems = append(problems, fmt.Sprintf("packages[%d]: dependency: %s", i, errors.UserMessage(err)))
			}
		}
	}

	paths := make(map[asset.ObjectRef]bool, len(s.Blueprints))
	for i, bp := range s.Blueprints {
		if bp == nil || bp.Path.IsNull() {
			problems = append(problems, fmt.Sprintf("blueprints[%d]: missing path", i))
			continue
		}
		if err := errors.ValidateObjectPath(string(bp.Path)); err != nil {
			problems = append(problems, fmt.Sprintf("blueprints[%d]: %s", i, errors.UserMessage(err)))
		}
		if paths[bp.Path] {
			problems = append(problems, fmt.Sprintf("blueprints[%d]: duplicate blueprint %s", i, bp.Path))
		}
		paths[bp.Path] = true
	}

	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidSnapshot, "%s", strings.Join(problems, "; "))
	}
	return nil
}

// assignNodeIDs gives every node without an ID a stable, name-based one so
// sites can always be located again.
func (s *Snapshot) assignNodeIDs() {
	for _, bp := range s.Blueprints {
		for _, graphs := range [][]*blueprint.Graph{bp.EventGraphs, bp.FunctionGraphs} {
			for gi, g := range graphs {
				if g == nil {
					continue
				}
				for ni, n := range g.Nodes {
					if n == nil || n.ID != "" {
						continue
					}
					name := fmt.Sprintf("%s/%s#%d/%d", bp.Path, g.Name, gi, ni)
					n.ID = uuid.NewSHA1(nodeNamespace, []byte(name)).String()
				}
			}
		}
	}
}

// Registry returns an in-memory registry over the snapshot's packages.
func (s *Snapshot) Registry() *asset.MemoryRegistry {
	reg := asset.NewMemoryRegistry()
	for _, p := range s.Packages {
		deps := make([]asset.PackageID, len(p.Dependencies))
		for i, d := range p.Dependencies {
			deps[i] = asset.PackageID(d)
		}
		reg.AddWithPath(asset.PackageMetadata{
			ID:       asset.PackageID(p.Name),
			Size:     p.Size,
			TypeName: p.Type,
		}, p.DisplayPath, deps...)
	}
	return reg
}

// Resolver returns the object resolver for the snapshot: the explicit
// object table with path-based fallback.
func (s *Snapshot) Resolver() asset.ObjectResolver {
	m := make(asset.MapResolver, len(s.Objects))
	for obj, pkg := range s.Objects {
		m[asset.ObjectRef(obj)] = asset.PackageID(pkg)
	}
	return m
}

// Names returns the paths of all blueprints in the snapshot, sorted.
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.Blueprints))
	for _, bp := range s.Blueprints {
		names = append(names, string(bp.Path))
	}
	slices.Sort(names)
	return names
}

// Blueprint finds a blueprint by object path, package name, or short asset
// name (case-insensitive). An empty name selects the only blueprint of a
// single-blueprint snapshot.
func (s *Snapshot) Blueprint(name string) (*blueprint.Blueprint, error) {
	if name == "" {
		if len(s.Blueprints) == 1 {
			return s.Blueprints[0], nil
		}
		return nil, errors.New(errors.ErrCodeBlueprintNotFound, "snapshot holds %d blueprints; choose one", len(s.Blueprints))
	}

	resolver := s.Resolver()
	var matches []*blueprint.Blueprint
	for _, bp := range s.Blueprints {
		if string(bp.Path) == name {
			return bp, nil
		}
		pkg, ok := resolver.OwningPackage(bp.Path)
		if !ok {
			continue
		}
		if string(pkg) == name || strings.EqualFold(pkg.ShortName(), name) {
			matches = append(matches, bp)
		}
	}

	switch len(matches) {
	case 0:
		return nil, errors.New(errors.ErrCodeBlueprintNotFound, "no blueprint %q in snapshot", name)
	case 1:
		return matches[0], nil
	default:
		return nil, errors.New(errors.ErrCodeBlueprintNotFound, "blueprint name %q is ambiguous (%d matches)", name, len(matches))
	}
}
