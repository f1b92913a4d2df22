// Package validate checks package dependency edges against a rule set.
package validate

import "sort"

// Rules is the rule lookup the validator needs.
type Rules interface {
	IsAllowed(source, target string) bool
	AllowedFor(pkg string) []string
}

// Graph maps a package to the distinct packages it depends on.
type Graph map[string][]string

// Add records that source depends on target. Self edges are dropped and
// duplicate edges are ignored; source is registered even when it is.
func (g Graph) Add(source, target string) {
	deps := g[source]
	if source == target {
		if deps == nil {
			g[source] = []string{}
		}
		return
	}
	for _, d := range deps {
		if d == target {
			return
		}
	}
	g[source] = append(deps, target)
}

// Packages returns every package in the graph, as source or target, sorted.
func (g Graph) Packages() []string {
	seen := make(map[string]bool)
	for src, targets := range g {
		seen[src] = true
		for _, t := range targets {
			seen[t] = true
		}
	}
	out := make([]string, 0, len(seen))
	for pkg := range seen {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

// Violation is a dependency edge the rules forbid.
type Violation struct {
	Source string
	Target string
	// Allowed is the full allow-list of Source; empty when Source has no rules.
	Allowed []string
}

// Result is the outcome of validating a graph.
type Result struct {
	Violations []Violation
}

// Valid reports whether no edge violated the rules.
func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// Edge is a dependency with its verdict.
type Edge struct {
	Source  string
	Target  string
	Allowed bool
}

// Edges evaluates every distinct edge of g, sorted by source then target.
// Self edges are skipped.
func Edges(rules Rules, g Graph) []Edge {
	var edges []Edge
	for _, src := range sortedKeys(g) {
		seen := make(map[string]bool, len(g[src]))
		targets := append([]string{}, g[src]...)
		sort.Strings(targets)
		for _, dst := range targets {
			if seen[dst] || dst == src {
				continue
			}
			seen[dst] = true
			edges = append(edges, Edge{Source: src, Target: dst, Allowed: rules.IsAllowed(src, dst)})
		}
	}
	return edges
}

// Validate returns every edge of g the rules forbid, sorted by source then
// target. It does not modify g; an empty graph is valid.
func Validate(rules Rules, g Graph) Result {
	var res Result
	for _, e := range Edges(rules, g) {
		if e.Allowed {
			continue
		}
		allowed := rules.AllowedFor(e.Source)
		if allowed == nil {
			allowed = []string{}
		}
		res.Violations = append(res.Violations, Violation{
			Source:  e.Source,
			Target:  e.Target,
			Allowed: allowed,
		})
	}
	return res
}

func sortedKeys(g Graph) []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
