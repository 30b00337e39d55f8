// Package report renders scan results for people and machines.
//
// Four formats are supported:
//
//   - text: a styled table of dependency groups with their reference sites
//   - json: the [hardref.Result] as indented JSON
//   - dot: a Graphviz digraph from the Blueprint's package to each dependency
//   - svg: the dot graph laid out by Graphviz
//
// [Write] dispatches on a [Format]; the per-format functions can also be
// called directly.
package report
