package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/deeklead/adf/internal/validate"
)

// Node fill colours by package family.
var packageColors = map[string]string{
	"UmbraCoreTypes":  "lightgreen",
	"UmbraErrorKit":   "lightyellow",
	"UmbraInterfaces": "lightcoral",
}

const defaultNodeColor = "lightblue"

// DOT writes g as a Graphviz digraph. Edges the rules forbid are drawn red.
// Nodes and edges are emitted in sorted order so output is reproducible.
func DOT(w io.Writer, rules validate.Rules, g validate.Graph) error {
	var b strings.Builder
	b.WriteString("digraph Dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=filled, fillcolor=lightblue];\n")

	for _, pkg := range g.Packages() {
		color, ok := packageColors[pkg]
		if !ok {
			color = defaultNodeColor
		}
		fmt.Fprintf(&b, "  %q [fillcolor=%s];\n", pkg, color)
	}

	for _, e := range validate.Edges(rules, g) {
		if e.Allowed {
			fmt.Fprintf(&b, "  %q -> %q;\n", e.Source, e.Target)
		} else {
			fmt.Fprintf(&b, "  %q -> %q [color=red, penwidth=2.0];\n", e.Source, e.Target)
		}
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
