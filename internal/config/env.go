package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/deeklead/adf/internal/constants"
)

// Environment variables that override adf.toml.
const (
	EnvSnapshot    = "ADF_SNAPSHOT"
	EnvPackagesDir = "ADF_PACKAGES_DIR"
	EnvQueryBinary = "ADF_QUERY_BINARY"
	EnvRulesFile   = "ADF_RULES_FILE"
	EnvLogDir      = "ADF_LOG_DIR"
	EnvCacheSize   = "ADF_CACHE_SIZE"
)

// LoadDotEnv loads root/.env into the process environment. Variables
// already set are not overwritten. A missing file is not an error.
func LoadDotEnv(root string) error {
	path := constants.DotEnvPath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from ADF_* variables looked up with getenv.
// Empty variables are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvSnapshot, &c.Snapshot},
		{EnvPackagesDir, &c.PackagesDir},
		{EnvQueryBinary, &c.QueryBinary},
		{EnvRulesFile, &c.RulesFile},
		{EnvLogDir, &c.LogDir},
	}
	for _, s := range strs {
		if v := getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	if v := getenv(EnvCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalid, EnvCacheSize, v)
		}
		c.CacheSize = n
	}
	return c.Validate()
}
