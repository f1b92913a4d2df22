package rules

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// File is the TOML layout of a rules file:
//
//	[packages.UmbraInterfaces]
//	allow = ["UmbraCoreTypes", "UmbraErrorKit"]
//
//	[mappings]
//	CoreDTOs = "UmbraCoreTypes/CoreDTOs"
type File struct {
	Packages map[string]PackageRule `toml:"packages"`
	Mappings map[string]string      `toml:"mappings"`
}

// PackageRule lists the packages one package may depend on.
type PackageRule struct {
	Allow []string `toml:"allow"`
}

// LoadFile reads and parses a rules file.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from workspace config
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	return ParseTOML(data)
}

// ParseTOML parses rules from TOML. A file without a [mappings] table uses
// DefaultMappings.
func ParseTOML(data []byte) (*Set, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown keys in rules file: %s", strings.Join(keys, ", "))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	allow := make(map[string][]string, len(f.Packages))
	for pkg, rule := range f.Packages {
		allow[pkg] = rule.Allow
	}
	s := New(allow)
	if len(f.Mappings) > 0 {
		s = s.WithMappings(f.Mappings)
	}
	return s, nil
}

// Validate checks the file declares at least one package and that every
// name is non-empty and free of path separators.
func (f *File) Validate() error {
	if len(f.Packages) == 0 {
		return fmt.Errorf("rules file declares no packages")
	}
	for pkg, rule := range f.Packages {
		if err := checkPackageName(pkg); err != nil {
			return err
		}
		for _, target := range rule.Allow {
			if err := checkPackageName(target); err != nil {
				return fmt.Errorf("package %s: %w", pkg, err)
			}
		}
	}
	for module, path := range f.Mappings {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("mapping for %s is empty", module)
		}
	}
	return nil
}

func checkPackageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty package name")
	}
	if strings.ContainsAny(name, "/:") {
		return fmt.Errorf("package name %q must be a top-level name", name)
	}
	return nil
}
