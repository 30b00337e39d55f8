package asset

import (
	"context"
	"path"
	"strings"
)

// PackageID is the unique name of a content package (e.g. "/Game/Weapons/Rifle").
type PackageID string

// String returns the package name.
func (p PackageID) String() string { return string(p) }

// ShortName returns the last path segment of the package name, which is what
// editors display next to an asset ("/Game/Weapons/Rifle" -> "Rifle").
func (p PackageID) ShortName() string {
	s := string(p)
	if s == "" {
		return ""
	}
	return path.Base(s)
}

// ObjectRef is the path of a live object (e.g. "/Game/Weapons/Rifle.Rifle_C").
// The zero value is the null reference.
type ObjectRef string

// IsNull reports whether the reference points at nothing.
func (r ObjectRef) IsNull() bool { return strings.TrimSpace(string(r)) == "" }

// PackageMetadata is the registry record for a single package.
type PackageMetadata struct {
	ID       PackageID `json:"id"`
	Size     int64     `json:"size"`      // on-disk size in bytes
	TypeName string    `json:"type_name"` // declared class of the primary asset
}

// AssetMetadata is display information for the primary asset of a package.
type AssetMetadata struct {
	TypeName    string `json:"type_name"`
	DisplayPath string `json:"display_path"`
}

// Edge is a hard (always-loaded) dependency between two packages.
type Edge struct {
	From PackageID `json:"from"`
	To   PackageID `json:"to"`
}

// Registry answers dependency and size queries about packages.
//
// Implementations must be side-effect free. A package unknown to the registry
// yields no dependencies and ok == false from PackageMetadata; errors are
// reserved for backend failures (I/O, decoding).
type Registry interface {
	// HardDependencies returns the first-level hard dependencies of pkg.
	HardDependencies(ctx context.Context, pkg PackageID) ([]PackageID, error)

	// PackageMetadata returns the registry record for pkg.
	PackageMetadata(ctx context.Context, pkg PackageID) (PackageMetadata, bool, error)

	// AssetMetadata returns display metadata for each known package in pkgs.
	// Unknown packages are absent from the returned map.
	AssetMetadata(ctx context.Context, pkgs []PackageID) (map[PackageID]AssetMetadata, error)
}

// ObjectResolver maps a live object to the package that contains it.
type ObjectResolver interface {
	OwningPackage(ref ObjectRef) (PackageID, bool)
}

// PathResolver resolves packages from the object path alone: everything up to
// the first '.' or ':' names the package.
type PathResolver struct{}

// OwningPackage implements [ObjectResolver].
func (PathResolver) OwningPackage(ref ObjectRef) (PackageID, bool) {
	if ref.IsNull() {
		return "", false
	}
	s := strings.TrimSpace(string(ref))
	if i := strings.IndexAny(s, ".:"); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "/" {
		return "", false
	}
	return PackageID(s), true
}

// MapResolver resolves objects through an explicit table and falls back to
// [PathResolver] for objects it does not list.
type MapResolver map[ObjectRef]PackageID

// OwningPackage implements [ObjectResolver].
func (m MapResolver) OwningPackage(ref ObjectRef) (PackageID, bool) {
	if ref.IsNull() {
		return "", false
	}
	if pkg, ok := m[ref]; ok {
		return pkg, pkg != ""
	}
	return PathResolver{}.OwningPackage(ref)
}

var (
	_ ObjectResolver = PathResolver{}
	_ ObjectResolver = MapResolver(nil)
)
