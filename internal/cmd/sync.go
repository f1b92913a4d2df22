package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/bazel"
	"github.com/deeklead/adf/internal/constants"
	"github.com/deeklead/adf/internal/events"
	"github.com/deeklead/adf/internal/migration"
)

var syncCmd = &cobra.Command{
	Use:     "sync MODULE",
	GroupID: GroupTracking,
	Short:   "Refresh a module's dependencies from the build graph",
	Long: `Query the build graph for the legacy modules MODULE depends on and record
them as its dependencies. A module not yet tracked is added as not started.

Only the dependencies list changes; dependents lists of other modules are
left as they are. Run 'adf doctor' to see one-sided edges.

Examples:
  adf sync UserDefaults`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	name := args[0]

	env, err := openWorkspace()
	if err != nil {
		return err
	}
	defer env.close()

	q, err := env.querier()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), constants.QueryTimeout)
	defer cancel()
	found, err := bazel.ModuleDependencies(ctx, q, name)
	if err != nil {
		return err
	}

	s, err := env.openStore()
	if err != nil {
		return err
	}
	m, tracked := s.Get(name)
	if !tracked {
		m = migration.Module{Name: name, Status: migration.NotStarted}
	}
	m.Dependencies = found
	s.Upsert(m)
	if err := env.saveStore(s); err != nil {
		return err
	}

	env.logger.Printf("Synced %s: %d dependencies", name, len(found))
	env.logEvent(events.TypeModuleSynced, events.SyncPayload(name, found))

	out := cmd.OutOrStdout()
	verb := "Updated"
	if !tracked {
		verb = "Added"
	}
	deps := "no dependencies"
	if len(found) > 0 {
		deps = strings.Join(found, ", ")
	}
	printSuccess(out, "%s %s: %s", verb, name, deps)
	if untracked := s.Untracked(); len(untracked) > 0 {
		fmt.Fprintf(out, "  Untracked dependencies: %s\n", strings.Join(untracked, ", "))
	}
	return nil
}
