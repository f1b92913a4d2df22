// Package workspace provides workspace detection.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deeklead/adf/internal/constants"
)

// ErrNotFound indicates no workspace was found.
var ErrNotFound = errors.New("not in an adf workspace (no adf.toml or Bazel workspace file found)")

// PrimaryMarker is the config file that identifies a workspace root.
const PrimaryMarker = constants.FileConfig

// SecondaryMarkers identify a Bazel workspace root. A directory holding one
// of these is used only when no ancestor holds the primary marker.
var SecondaryMarkers = []string{"MODULE.bazel", "WORKSPACE.bazel", "WORKSPACE"}

// EnvRoot names the workspace root when the working directory is unusable.
const EnvRoot = "ADF_WORKSPACE"

// Find locates the workspace root by walking up from the given directory.
// The nearest directory containing adf.toml wins; failing that, the nearest
// directory containing a Bazel workspace file. Returns "" when neither is
// found. Does not resolve symlinks to stay consistent with os.Getwd().
func Find(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	var secondaryMatch string
	current := absDir
	for {
		if isFile(filepath.Join(current, PrimaryMarker)) {
			return current, nil
		}
		if secondaryMatch == "" && hasSecondaryMarker(current) {
			secondaryMatch = current
		}

		parent := filepath.Dir(current)
		if parent == current {
			return secondaryMatch, nil
		}
		current = parent
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func hasSecondaryMarker(dir string) bool {
	for _, m := range SecondaryMarkers {
		if isFile(filepath.Join(dir, m)) {
			return true
		}
	}
	return false
}

// FindOrError is like Find but returns ErrNotFound if no workspace is found.
func FindOrError(startDir string) (string, error) {
	root, err := Find(startDir)
	if err != nil {
		return "", err
	}
	if root == "" {
		return "", ErrNotFound
	}
	return root, nil
}

// FindFromCwd locates the workspace root from the current working directory.
func FindFromCwd() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return Find(cwd)
}

// FindFromCwdOrError is like FindFromCwd but returns an error if not found.
// If getcwd fails (e.g., the directory was removed), falls back to
// ADF_WORKSPACE when it names a workspace.
func FindFromCwdOrError() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		if root := os.Getenv(EnvRoot); root != "" {
			if ok, _ := IsWorkspace(root); ok {
				return root, nil
			}
		}
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return FindOrError(cwd)
}

// IsWorkspace checks if the given directory is a workspace root.
func IsWorkspace(dir string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, fmt.Errorf("resolving path: %w", err)
	}
	return isFile(filepath.Join(absDir, PrimaryMarker)) || hasSecondaryMarker(absDir), nil
}
