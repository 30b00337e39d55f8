// Package asset defines the identifiers and host collaborators that the
// hard-reference analysis is written against.
//
// # Overview
//
// A content project is made of packages (units of on-disk storage). Live
// objects such as classes, functions and data assets belong to exactly one
// package. The host application exposes two narrow query surfaces:
//
//   - [Registry]: the asset registry, answering dependency and size queries
//   - [ObjectResolver]: maps an object reference to its owning package
//
// Both are read-only from the analysis' point of view. [MemoryRegistry] is a
// complete in-memory implementation used by snapshots and tests, and
// [PathResolver] implements the usual "package is the object path up to the
// first dot" convention.
//
// # Identifiers
//
// [PackageID] and [ObjectRef] are plain strings compared by identity. The zero
// ObjectRef is the null reference and never resolves to a package.
package asset
