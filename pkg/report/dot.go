package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/hardref/pkg/hardref"
)

// DOT converts res to a Graphviz digraph with one edge from the Blueprint's
// package to each dependency. Edges are labeled with the number of sites.
//
// Dependencies whose source could not be identified are drawn dashed, so the
// placeholder groups stand out from attributed ones.
func DOT(res *hardref.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	if res.Root == "" {
		buf.WriteString("}\n")
		return buf.String()
	}

	rootLabel := res.Root.ShortName()
	if opts.Sizes {
		rootLabel += "\n" + Size(res.RootSize)
	}
	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightblue];\n", res.Root, rootLabel)

	for _, g := range res.Groups {
		fmt.Fprintf(&buf, "  %q [%s];\n", g.Package, strings.Join(groupAttrs(g, opts), ", "))
	}

	buf.WriteString("\n")
	for _, g := range res.Groups {
		label := fmt.Sprintf("%d", len(g.Sites))
		if !g.Identified() {
			label = "?"
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", res.Root, g.Package, label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func groupAttrs(g hardref.Group, opts Options) []string {
	label := g.Name
	if g.TypeName != "" {
		label += "\n" + g.TypeName
	}
	if opts.Sizes {
		label += "\n" + Size(g.Size)
	}
	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("tooltip=%q", g.DisplayPath)}
	if !g.Identified() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}
