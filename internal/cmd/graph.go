package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/events"
	"github.com/deeklead/adf/internal/style"
)

var graphFromTracker bool

var graphCmd = &cobra.Command{
	Use:     "graph FILE",
	GroupID: GroupRules,
	Short:   "Write the package dependency graph in DOT format",
	Long: `Write the package dependency graph as a Graphviz digraph. Edges the
rules forbid are drawn in red.

Examples:
  adf graph deps.dot && dot -Tpng deps.dot -o deps.png
  adf graph --from-tracker tracker.dot`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().BoolVar(&graphFromTracker, "from-tracker", false, "Use module dependencies from the snapshot instead of querying the build")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	path := args[0]

	env, err := openWorkspace()
	if err != nil {
		return err
	}
	defer env.close()

	rs, err := env.cfg.Rules()
	if err != nil {
		return err
	}
	g, source, err := env.packageGraph(cmd.Context(), rs, graphFromTracker)
	if err != nil {
		return err
	}
	if err := writeDOT(path, rs, g); err != nil {
		return err
	}

	env.logger.Printf("Wrote %d-package graph from %s to %s", len(g.Packages()), source, path)
	env.logEvent(events.TypeGraphExported, events.GraphPayload(path, len(g.Packages())))

	out := cmd.OutOrStdout()
	printSuccess(out, "Wrote dependency graph to %s", path)
	fmt.Fprintf(out, "  %s Render with: dot -Tpng %s -o deps.png\n", style.ArrowPrefix, path)
	return nil
}
