package validate

import "github.com/deeklead/adf/internal/rules"

// ModuleGraph is the module-level dependency view of a fact store.
type ModuleGraph interface {
	Names() []string
	Dependencies(name string) []string
}

// Mapper resolves a legacy module name to its target package path.
type Mapper interface {
	Mapping(module string) (string, bool)
}

// FromModules lifts module dependencies to package edges by resolving each
// module to the top-level package it is mapped to. Modules without a
// mapping, on either end of an edge, are skipped.
func FromModules(mg ModuleGraph, m Mapper) Graph {
	g := make(Graph)
	for _, name := range mg.Names() {
		srcPath, ok := m.Mapping(name)
		if !ok {
			continue
		}
		src := rules.TopLevel(srcPath)
		g.Add(src, src)
		for _, dep := range mg.Dependencies(name) {
			dstPath, ok := m.Mapping(dep)
			if !ok {
				continue
			}
			g.Add(src, rules.TopLevel(dstPath))
		}
	}
	return g
}
