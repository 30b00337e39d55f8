// Package pkg provides the libraries behind hardref, a finder for the hard
// references of a Blueprint.
//
// # Overview
//
// A Blueprint that hard-references another package forces that package,
// and everything it hard-references in turn, into memory whenever the
// Blueprint loads. hardref lists those packages, the nodes and properties
// responsible for each, and how many bytes each one drags in.
//
// # Architecture
//
// The typical data flow:
//
//	Snapshot file (TOML/JSON) or MongoDB registry
//	         ↓
//	    [snapshot] package (decode Blueprints and package records)
//	         ↓
//	    [hardref] package (resolve, scan, aggregate sizes, build groups)
//	         ↓
//	    [report] package (text, JSON, DOT or SVG)
//
// # Quick Start
//
//	snap, _ := snapshot.Load("hero.toml")
//	bp, _ := snap.Blueprint("BP_Hero")
//
//	f := hardref.NewFinder(snap.Registry(), hardref.Options{Resolver: snap.Resolver()})
//	res, _ := f.Find(ctx, bp)
//
//	_ = report.Write(ctx, os.Stdout, res, report.FormatText, report.Options{Sites: true})
//
// # Main Packages
//
// [asset] - Package and object identifiers, the [asset.Registry] interface
// and an in-memory registry.
//
// [blueprint] - The inspected Blueprint model: graphs, nodes, pins,
// properties with their container shapes, components and functions.
//
// [snapshot] - Snapshot decoding and validation. A snapshot carries the
// Blueprints and the package records a scan needs.
//
// [hardref] - The finder itself.
//
// [report] - Output formats for a scan result.
//
// [registry/mongo] - An [asset.Registry] over a MongoDB collection.
//
// ## Infrastructure
//
// [pipeline] - Snapshot → scan → report, with result caching, used by both
// the CLI and the HTTP server.
//
// [cache] - File, Redis and null cache backends with key helpers and TTLs.
//
// [observability] - Hooks for scan, cache and registry events.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/hardref/...            # Specific package
//	go test -run Example                 # Examples only
//
// [asset]: https://pkg.go.dev/github.com/matzehuels/hardref/pkg/asset
// [blueprint]: https://pkg.go.dev/github.com/matzehuels/hardref/pkg/blueprint
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/hardref/pkg/snapshot
// [hardref]: https://pkg.go.dev/github.com/matzehuels/hardref/pkg/hardref
// [report]: https://pkg.go.dev/github.com/matzehuels/hardref/pkg/report
// [registry/mongo]: https://pkg.go.dev/github.com/matzehuels/hardref/pkg/registry/mongo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/hardref/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/hardref/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/hardref/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/hardref/pkg/errors
package pkg
