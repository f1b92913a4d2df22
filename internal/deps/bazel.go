// Package deps checks the external tools adf shells out to.
package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// MinBazelVersion is the oldest Bazel release whose query output adf parses.
const MinBazelVersion = "6.0.0"

// BazeliskInstallPath is the go install path for bazelisk.
const BazeliskInstallPath = "github.com/bazelbuild/bazelisk@latest"

// ErrToolNotFound indicates the query tool is not on PATH.
var ErrToolNotFound = errors.New("build graph query tool not found")

// ToolStatus represents the state of the query tool installation.
type ToolStatus int

const (
	ToolOK       ToolStatus = iota // tool found, version compatible
	ToolNotFound                   // tool not in PATH
	ToolTooOld                     // tool found but Bazel version too old
	ToolUnknown                    // tool found but couldn't parse version
)

func (s ToolStatus) String() string {
	switch s {
	case ToolOK:
		return "ok"
	case ToolNotFound:
		return "not found"
	case ToolTooOld:
		return "too old"
	case ToolUnknown:
		return "unknown version"
	}
	return fmt.Sprintf("ToolStatus(%d)", int(s))
}

// versionRunner returns the output of `<binary> version`. Replaced in tests.
var versionRunner = func(binary string) (string, error) {
	if _, err := exec.LookPath(binary); err != nil {
		return "", ErrToolNotFound
	}
	out, err := exec.Command(binary, "version").Output() //nolint:gosec // G204: binary comes from workspace config
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CheckTool checks that binary is installed and drives a compatible Bazel.
// Returns status and the Bazel version (if found).
func CheckTool(binary string) (ToolStatus, string) {
	output, err := versionRunner(binary)
	if errors.Is(err, ErrToolNotFound) {
		return ToolNotFound, ""
	}
	if err != nil {
		return ToolUnknown, ""
	}

	version := parseBazelVersion(output)
	if version == "" {
		return ToolUnknown, ""
	}
	if compareVersions(version, MinBazelVersion) < 0 {
		return ToolTooOld, version
	}
	return ToolOK, version
}

// EnsureTool returns nil if binary is available and compatible. An
// unparseable version is accepted.
func EnsureTool(binary string) error {
	status, version := CheckTool(binary)

	switch status {
	case ToolNotFound:
		return fmt.Errorf("%w: %s not in PATH\n\nInstall with: go install %s", ErrToolNotFound, binary, BazeliskInstallPath)
	case ToolTooOld:
		return fmt.Errorf("bazel version %s is too old (minimum: %s)", version, MinBazelVersion)
	case ToolOK, ToolUnknown:
		return nil
	}
	return nil
}

var buildLabelRe = regexp.MustCompile(`Build label: (\d+\.\d+\.\d+)`)

// parseBazelVersion extracts the version from `bazel version` output, which
// includes a line like "Build label: 7.1.0".
func parseBazelVersion(output string) string {
	matches := buildLabelRe.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// compareVersions compares two semver strings.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func compareVersions(a, b string) int {
	aParts := parseVersion(a)
	bParts := parseVersion(b)

	for i := 0; i < 3; i++ {
		if aParts[i] < bParts[i] {
			return -1
		}
		if aParts[i] > bParts[i] {
			return 1
		}
	}
	return 0
}

// parseVersion parses "X.Y.Z" into [3]int.
func parseVersion(v string) [3]int {
	var parts [3]int
	split := strings.Split(v, ".")
	for i := 0; i < 3 && i < len(split); i++ {
		parts[i], _ = strconv.Atoi(split[i])
	}
	return parts
}
