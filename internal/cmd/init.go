package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/config"
	"github.com/deeklead/adf/internal/events"
	"github.com/deeklead/adf/internal/migration"
	"github.com/deeklead/adf/internal/workspace"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: GroupWorkspace,
	Short:   "Set up adf in the current workspace",
	Long: `Write adf.toml with default settings and a status snapshot holding the
default modules. Existing files are kept; --force rewrites the snapshot
from the defaults (the old one is kept as <snapshot>.bak).

The workspace root is the nearest Bazel workspace above the current
directory, or the current directory itself.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reset the snapshot to the default modules")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	root, err := workspace.Find(cwd)
	if err != nil {
		return err
	}
	if root == "" {
		root = cwd
	}

	out := cmd.OutOrStdout()
	cfgPath := filepath.Join(root, config.FileName)
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		if err := writeDefaultConfig(cfgPath); err != nil {
			return err
		}
		printSuccess(out, "Created %s", cfgPath)
	}

	env, err := openWorkspaceAt(root)
	if err != nil {
		return err
	}
	defer env.close()

	snapshot := env.cfg.Snapshot
	_, statErr := os.Stat(snapshot)
	exists := statErr == nil
	if exists && !initForce {
		fmt.Fprintf(out, "Snapshot %s already exists (use --force to reset it)\n", snapshot)
		return nil
	}

	reason := "init"
	if exists {
		if err := os.Rename(snapshot, snapshot+".bak"); err != nil {
			return fmt.Errorf("backing up snapshot: %w", err)
		}
		reason = "forced reset"
	}

	s := migration.NewStore()
	s.Replace(migration.DefaultModules(now()))
	if err := env.saveStore(s); err != nil {
		return err
	}
	env.logEvent(events.TypeSnapshotReset, events.ResetPayload(snapshot, reason))
	printSuccess(out, "Wrote %d default modules to %s", s.Len(), snapshot)
	return nil
}

func writeDefaultConfig(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(config.Default()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
