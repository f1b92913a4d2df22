// Package rules defines which top-level packages may depend on which.
package rules

import (
	"sort"
	"strings"
)

// Set maps each package to the packages it may depend on. A package may
// always depend on itself. A Set is read-only once built.
type Set struct {
	allow    map[string][]string
	mappings map[string]string
}

// New builds a rule set from package → allowed packages. Mappings default
// to DefaultMappings.
func New(allow map[string][]string) *Set {
	s := &Set{
		allow:    make(map[string][]string, len(allow)),
		mappings: DefaultMappings(),
	}
	for pkg, targets := range allow {
		s.allow[pkg] = append([]string{}, targets...)
	}
	return s
}

// WithMappings returns a copy of s using the given module → target package
// path mappings.
func (s *Set) WithMappings(mappings map[string]string) *Set {
	out := &Set{allow: s.allow, mappings: make(map[string]string, len(mappings))}
	for k, v := range mappings {
		out.mappings[k] = v
	}
	return out
}

// IsAllowed reports whether source may depend on target. An unknown source
// package is untracked and treated as invalid.
func (s *Set) IsAllowed(source, target string) bool {
	if source == target {
		return true
	}
	for _, allowed := range s.allow[source] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AllowedFor returns the allow-list of pkg, or nil if pkg has no rules.
func (s *Set) AllowedFor(pkg string) []string {
	targets, ok := s.allow[pkg]
	if !ok {
		return nil
	}
	return append([]string{}, targets...)
}

// Known reports whether pkg appears in any rule, as source or target.
func (s *Set) Known(pkg string) bool {
	if _, ok := s.allow[pkg]; ok {
		return true
	}
	for _, targets := range s.allow {
		for _, t := range targets {
			if t == pkg {
				return true
			}
		}
	}
	return false
}

// Packages returns every package named by the rules, sorted.
func (s *Set) Packages() []string {
	seen := make(map[string]bool)
	for pkg, targets := range s.allow {
		seen[pkg] = true
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

// Mapping returns the target package path a legacy module moves to.
func (s *Set) Mapping(module string) (string, bool) {
	path, ok := s.mappings[module]
	return path, ok
}

// MappedModules returns the legacy modules that have a mapping, sorted.
func (s *Set) MappedModules() []string {
	out := make([]string, 0, len(s.mappings))
	for module := range s.mappings {
		out = append(out, module)
	}
	sort.Strings(out)
	return out
}

// TopLevel returns the first segment of a package path:
// "UmbraCoreTypes/CoreDTOs" → "UmbraCoreTypes".
func TopLevel(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

// Default returns the Alpha Dot Five dependency rules.
func Default() *Set {
	return New(map[string][]string{
		"UmbraCoreTypes":        {},
		"UmbraErrorKit":         {"UmbraCoreTypes"},
		"UmbraInterfaces":       {"UmbraCoreTypes", "UmbraErrorKit"},
		"UmbraUtils":            {"UmbraCoreTypes"},
		"UmbraImplementations":  {"UmbraInterfaces", "UmbraCoreTypes", "UmbraErrorKit", "UmbraUtils"},
		"UmbraFoundationBridge": {"UmbraCoreTypes"},
		"ResticKit":             {"UmbraInterfaces", "UmbraCoreTypes", "UmbraUtils"},
	})
}

// DefaultMappings returns where each legacy module lands in the new layout.
func DefaultMappings() map[string]string {
	return map[string]string{
		// Core types
		"CoreDTOs":           "UmbraCoreTypes/CoreDTOs",
		"KeyManagementTypes": "UmbraCoreTypes/KeyManagementTypes",
		"ResticTypes":        "UmbraCoreTypes/ResticTypes",
		"SecurityTypes":      "UmbraCoreTypes/SecurityTypes",
		"ServiceTypes":       "UmbraCoreTypes/ServiceTypes",
		"UmbraCoreTypes":     "UmbraCoreTypes/Core",

		// Error kit
		"ErrorHandling":           "UmbraErrorKit/Implementation",
		"ErrorHandlingInterfaces": "UmbraErrorKit/Interfaces",
		"ErrorHandlingDomains":    "UmbraErrorKit/Domains",
		"ErrorTypes":              "UmbraErrorKit/Types",
		"UmbraErrors":             "UmbraErrorKit/Core",

		// Interfaces
		"SecurityInterfaces":       "UmbraInterfaces/SecurityInterfaces",
		"LoggingWrapperInterfaces": "UmbraInterfaces/LoggingInterfaces",
		"FileSystemTypes":          "UmbraInterfaces/FileSystemInterfaces",
		"XPCProtocolsCore":         "UmbraInterfaces/XPCProtocolsCore",
		"CryptoInterfaces":         "UmbraInterfaces/CryptoInterfaces",

		// Implementations
		"UmbraSecurity":        "UmbraImplementations/SecurityImpl",
		"LoggingWrapper":       "UmbraImplementations/LoggingImpl",
		"FileSystemService":    "UmbraImplementations/FileSystemImpl",
		"UmbraKeychainService": "UmbraImplementations/KeychainImpl",
		"UmbraCryptoService":   "UmbraImplementations/CryptoImpl",

		// Foundation bridge
		"ObjCBridgingTypes":     "UmbraFoundationBridge/ObjCBridging",
		"FoundationBridgeTypes": "UmbraFoundationBridge/CoreTypeBridges",

		// Restic kit
		"ResticCLIHelper":       "ResticKit/CLIHelper",
		"ResticCLIHelperModels": "ResticKit/CommandBuilder",
		"RepositoryManager":     "ResticKit/RepositoryManager",

		// Utils
		"DateTimeService": "UmbraUtils/DateUtils",
		"NetworkService":  "UmbraUtils/Networking",
	}
}
