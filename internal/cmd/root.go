// Package cmd provides CLI commands for the adf tool.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/style"
)

var rootCmd = &cobra.Command{
	Use:     "adf",
	Short:   "Alpha Dot Five migration tracker",
	Version: Version,
	Long: `adf tracks the migration of legacy modules into the Alpha Dot Five
package layout.

It records each module's migration status, suggests an order that moves
dependencies before their dependents, and validates package dependencies
against the Alpha Dot Five rules.

The status snapshot has a single writer: run one status-changing command
at a time per workspace.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns an exit code.
// The caller (main) should call os.Exit with this code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		// Silent exits signal status via exit code only
		if code, ok := IsSilentExit(err); ok {
			return code
		}
		fmt.Fprintf(os.Stderr, "%s %v\n", style.ErrorPrefix, err)
		return 1
	}
	return 0
}

// Command group IDs - used by subcommands to organize help output
const (
	GroupTracking  = "tracking"
	GroupRules     = "rules"
	GroupWorkspace = "workspace"
	GroupDiag      = "diag"
)

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupTracking, Title: "Migration Tracking:"},
		&cobra.Group{ID: GroupRules, Title: "Dependency Rules:"},
		&cobra.Group{ID: GroupWorkspace, Title: "Workspace:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics:"},
	)

	rootCmd.SetHelpCommandGroupID(GroupDiag)
	rootCmd.SetCompletionCommandGroupID(GroupWorkspace)
}

// buildCommandPath walks the command hierarchy to build the full command path.
// For example: "adf rules show", "adf status", etc.
func buildCommandPath(cmd *cobra.Command) string {
	var parts []string
	for c := cmd; c != nil; c = c.Parent() {
		parts = append([]string{c.Name()}, parts...)
	}
	return strings.Join(parts, " ")
}

// requireSubcommand returns a RunE function for parent commands that require
// a subcommand. Without this, Cobra silently shows help and exits 0 for
// unknown subcommands like "adf rules foobar", masking errors.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires a subcommand\n\nRun '%s --help' for usage", buildCommandPath(cmd))
	}
	return fmt.Errorf("unknown command %q for %q\n\nRun '%s --help' for available commands",
		args[0], buildCommandPath(cmd), buildCommandPath(cmd))
}
