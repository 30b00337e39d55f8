// Package hardref finds the hard references a Blueprint makes to other
// content packages.
//
// A hard reference forces its target package to load whenever the
// referencing package loads. Given a Blueprint and an asset registry, the
// package answers two questions: which packages does the Blueprint pull in,
// and which of its graph nodes, properties or components are responsible.
//
// # Pipeline
//
// A scan runs four stages on the caller's goroutine:
//
//  1. [Resolve] maps the Blueprint to its package and asks the registry for
//     the package's first-level hard dependencies and own size.
//  2. [Scanner] walks the Blueprint and files a [Site] under every
//     dependency package one of its object references resolves into.
//  3. [Aggregator] computes the transitive on-disk size of each dependency.
//  4. [Builder] assembles one [Group] per dependency, injects a placeholder
//     site into groups the scan found nothing for, and sorts by size.
//
// [Finder] runs all four:
//
//	f := hardref.NewFinder(registry, hardref.Options{Logger: logger})
//	res, err := f.Find(ctx, bp)
//	for _, g := range res.Groups {
//	    fmt.Println(g.Name, g.Size, len(g.Sites))
//	}
//
// # Scan Coverage
//
// The scanner looks at call-function and dynamic-cast nodes, input pin
// defaults, class property defaults (scalars, container elements, map keys
// and values, and struct fields one level deep), construction-script
// components with their templates, and the captured references of class
// functions. It does not attribute references made through function
// arguments or local variables that do not surface in one of those places;
// such dependencies appear under the "Unidentified source" placeholder.
// Duplicates are kept: two sites referencing the same package yield two
// entries.
//
// # Failure Model
//
// Missing or malformed Blueprint data is skipped, an unresolvable root yields
// an empty [Result], and a dependency whose registry record disappeared
// mid-scan counts as zero bytes. Only registry backend failures are returned
// as errors.
package hardref
