// Package constants defines shared constant values used throughout adf.
package constants

import (
	"path/filepath"
	"time"
)

// Timing constants for build graph queries.
const (
	// QueryTimeout bounds one adf command's build graph queries. A cold
	// Bazel server plus a full deps() walk can take several minutes.
	QueryTimeout = 10 * time.Minute
)

// Directory names within a workspace.
const (
	// DirState holds the diagnostic log and the event trail.
	DirState = ".adf"

	// DirPackages is where restructured packages live.
	DirPackages = "packages"

	// DirSources is where legacy modules live.
	DirSources = "Sources"
)

// File names for configuration and state.
const (
	// FileConfig is the workspace config file and primary workspace marker.
	FileConfig = "adf.toml"

	// FileSnapshot is the default status snapshot.
	FileSnapshot = "migration_status.json"

	// FileLog is the diagnostic log, under DirState.
	FileLog = "adf.log"

	// FileEvents is the JSONL audit trail, under DirState.
	FileEvents = "events.jsonl"

	// FileDotEnv holds environment overrides at the workspace root.
	FileDotEnv = ".env"
)

// Path helpers construct common paths.

// ConfigPath returns the path to adf.toml within a workspace root.
func ConfigPath(root string) string {
	return filepath.Join(root, FileConfig)
}

// DotEnvPath returns the path to .env within a workspace root.
func DotEnvPath(root string) string {
	return filepath.Join(root, FileDotEnv)
}
