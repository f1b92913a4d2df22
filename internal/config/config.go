// Package config provides configuration loading and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/deeklead/adf/internal/bazel"
	"github.com/deeklead/adf/internal/constants"
	"github.com/deeklead/adf/internal/rules"
)

var (
	// ErrNotFound indicates the config file does not exist.
	ErrNotFound = errors.New("config file not found")

	// ErrUnknownKey indicates the config file sets a key adf does not read.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrInvalid indicates a field holds an unusable value.
	ErrInvalid = errors.New("invalid config")
)

// FileName is the config file looked for at the workspace root.
const FileName = constants.FileConfig

// StateDir holds the log and event files, relative to the workspace root.
const StateDir = constants.DirState

// Config is the workspace configuration. Paths may be relative to the
// workspace root until Resolve is called.
type Config struct {
	// Snapshot is the JSON fact store file.
	Snapshot string `toml:"snapshot"`

	// PackagesDir is the directory holding the restructured packages.
	PackagesDir string `toml:"packages_dir"`

	// QueryBinary runs build graph queries.
	QueryBinary string `toml:"query_binary"`

	// RulesFile optionally replaces the built-in rule table.
	RulesFile string `toml:"rules_file"`

	// LogDir receives adf.log and events.jsonl.
	LogDir string `toml:"log_dir"`

	// CacheSize bounds memoised query results.
	CacheSize int `toml:"cache_size"`
}

// Default returns the configuration used when no adf.toml exists.
func Default() *Config {
	return &Config{
		Snapshot:    constants.FileSnapshot,
		PackagesDir: constants.DirPackages,
		QueryBinary: bazel.DefaultBinary,
		LogDir:      StateDir,
		CacheSize:   512,
	}
}

// Load reads and validates a config file. Fields the file omits keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the workspace config file
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%w in %s: %s", ErrUnknownKey, path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Snapshot) == "" {
		return fmt.Errorf("%w: snapshot is empty", ErrInvalid)
	}
	if strings.TrimSpace(c.PackagesDir) == "" {
		return fmt.Errorf("%w: packages_dir is empty", ErrInvalid)
	}
	if strings.TrimSpace(c.QueryBinary) == "" {
		return fmt.Errorf("%w: query_binary is empty", ErrInvalid)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size %d is negative", ErrInvalid, c.CacheSize)
	}
	return nil
}

// LoadWorkspace loads the configuration for the workspace at root: the
// optional .env file, then adf.toml (or defaults when absent), then ADF_*
// environment overrides. Relative paths are resolved against root.
func LoadWorkspace(root string) (*Config, error) {
	if err := LoadDotEnv(root); err != nil {
		return nil, err
	}

	cfg, err := Load(constants.ConfigPath(root))
	if errors.Is(err, ErrNotFound) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.Resolve(root)
	return cfg, nil
}

// Resolve makes relative paths absolute against root. The packages
// directory stays relative; it names a build label prefix, not a file.
func (c *Config) Resolve(root string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	c.Snapshot = abs(c.Snapshot)
	c.RulesFile = abs(c.RulesFile)
	c.LogDir = abs(c.LogDir)
}

// Rules returns the configured rule set: the rules file when one is set,
// the built-in Alpha Dot Five table otherwise.
func (c *Config) Rules() (*rules.Set, error) {
	if c.RulesFile == "" {
		return rules.Default(), nil
	}
	return rules.LoadFile(c.RulesFile)
}

// LogPath is the diagnostic log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogDir, constants.FileLog)
}

// EventsPath is the JSONL audit trail.
func (c *Config) EventsPath() string {
	return filepath.Join(c.LogDir, constants.FileEvents)
}
