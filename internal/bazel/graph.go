package bazel

import (
	"context"
	"fmt"
	"strings"

	"github.com/deeklead/adf/internal/constants"
	"github.com/deeklead/adf/internal/validate"
)

// ParseTargetPackage returns the top-level package of a label under
// packagesDir: "//packages/UmbraCoreTypes/CoreDTOs:CoreDTOs" with
// packagesDir "packages" gives "UmbraCoreTypes". Labels outside
// packagesDir give "".
func ParseTargetPackage(label, packagesDir string) string {
	label = strings.TrimPrefix(label, "@")
	if i := strings.Index(label, "//"); i >= 0 {
		label = label[i+2:]
	}
	if i := strings.IndexByte(label, ':'); i >= 0 {
		label = label[:i]
	}

	prefix := strings.Trim(packagesDir, "/") + "/"
	if !strings.HasPrefix(label, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(label, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// PackageFilter decides which dependency packages are worth tracking.
type PackageFilter interface {
	Known(pkg string) bool
}

// PackageGraph builds the package dependency graph of every target under
// packagesDir. Edges to packages the filter does not know, and self edges,
// are dropped. Any failed query aborts the build; no partial graph is
// returned.
func PackageGraph(ctx context.Context, q *Querier, packagesDir string, filter PackageFilter) (validate.Graph, error) {
	universe := fmt.Sprintf("//%s/...", strings.Trim(packagesDir, "/"))
	all, err := q.Query(ctx, universe)
	if err != nil {
		return nil, fmt.Errorf("querying packages: %w", err)
	}

	g := make(validate.Graph)
	for _, target := range all.Target {
		src := ParseTargetPackage(target.Name, packagesDir)
		if src == "" {
			continue
		}
		g.Add(src, src)

		deps, err := q.Deps(ctx, target.Name)
		if err != nil {
			return nil, fmt.Errorf("querying dependencies of %s: %w", target.Name, err)
		}
		for _, dep := range deps.Target {
			dst := ParseTargetPackage(dep.Name, packagesDir)
			if dst == "" || dst == src || !filter.Known(dst) {
				continue
			}
			g.Add(src, dst)
		}
	}
	return g, nil
}

// ModuleDependencies returns the legacy modules under //Sources that module
// depends on, in first-seen order, excluding module itself.
func ModuleDependencies(ctx context.Context, q *Querier, module string) ([]string, error) {
	prefix := "//" + constants.DirSources + "/"
	res, err := q.Deps(ctx, prefix+module+":*")
	if err != nil {
		return nil, fmt.Errorf("querying dependencies of %s: %w", module, err)
	}

	var deps []string
	seen := make(map[string]bool)
	for _, target := range res.Target {
		name, ok := strings.CutPrefix(target.Name, prefix)
		if !ok {
			continue
		}
		i := strings.IndexByte(name, ':')
		if i < 0 {
			continue
		}
		name = name[:i]
		if name == module || seen[name] {
			continue
		}
		seen[name] = true
		deps = append(deps, name)
	}
	return deps, nil
}
