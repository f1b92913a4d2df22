// Package order computes a migration order over tracked modules.
package order

import "sort"

// Graph is the module dependency view the orderer walks.
type Graph interface {
	// Names returns every tracked module, sorted.
	Names() []string
	Has(name string) bool
	Dependencies(name string) []string
	Dependents(name string) []string
}

// Order returns every module exactly once such that each tracked dependency
// of a module appears before the module itself. Dependencies on modules the
// graph does not track are treated as satisfied.
//
// The walk is a post-order depth-first search seeded first with the modules
// nothing depends on (in name order), then with any module still unvisited
// (in name order), so the output is deterministic for a given graph.
// Cycles are not reported here; the visited set stops the recursion and the
// result is a valid order for the acyclic part only. See Cycles.
func Order(g Graph) []string {
	names := sortedNames(g)
	visited := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))

	for _, name := range names {
		if len(g.Dependents(name)) == 0 {
			result = visit(g, name, visited, result)
		}
	}
	for _, name := range names {
		result = visit(g, name, visited, result)
	}
	return result
}

// visit appends name after all of its unvisited tracked dependencies.
func visit(g Graph, name string, visited map[string]bool, result []string) []string {
	if visited[name] {
		return result
	}
	visited[name] = true
	for _, dep := range g.Dependencies(name) {
		if g.Has(dep) {
			result = visit(g, dep, visited, result)
		}
	}
	return append(result, name)
}

// Cycles returns each dependency cycle found among tracked modules, as the
// modules on the cycle in traversal order. Traversal starts from names in
// sorted order, so the result is deterministic.
func Cycles(g Graph) [][]string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int)
	var stack []string
	var cycles [][]string

	var walk func(name string)
	walk = func(name string) {
		color[name] = grey
		stack = append(stack, name)
		for _, dep := range g.Dependencies(name) {
			if !g.Has(dep) {
				continue
			}
			switch color[dep] {
			case white:
				walk(dep)
			case grey:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == dep {
						cycles = append(cycles, append([]string{}, stack[i:]...))
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
	}

	for _, name := range sortedNames(g) {
		if color[name] == white {
			walk(name)
		}
	}
	return cycles
}

func sortedNames(g Graph) []string {
	names := g.Names()
	if !sort.StringsAreSorted(names) {
		names = append([]string{}, names...)
		sort.Strings(names)
	}
	return names
}
