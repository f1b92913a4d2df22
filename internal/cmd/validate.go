package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/bazel"
	"github.com/deeklead/adf/internal/constants"
	"github.com/deeklead/adf/internal/deps"
	"github.com/deeklead/adf/internal/events"
	"github.com/deeklead/adf/internal/report"
	"github.com/deeklead/adf/internal/rules"
	"github.com/deeklead/adf/internal/validate"
)

var (
	validateGraph       string
	validateFromTracker bool
)

// queryExecutor overrides the command runner for build graph queries.
// Nil means run the configured binary.
var queryExecutor bazel.Executor

var validateCmd = &cobra.Command{
	Use:     "validate",
	GroupID: GroupRules,
	Short:   "Check package dependencies against the Alpha Dot Five rules",
	Long: `Build the package dependency graph and report every edge the rules
forbid. Exits 1 when any dependency is invalid.

By default the graph comes from build graph queries over the packages
directory, which needs the query tool (bazelisk by default). With
--from-tracker it is lifted from the module dependencies in the status
snapshot instead, using the module to package mappings.

Examples:
  adf validate
  adf validate --graph deps.dot
  adf validate --from-tracker`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateGraph, "graph", "", "Also write the graph in DOT format to `FILE`")
	validateCmd.Flags().BoolVar(&validateFromTracker, "from-tracker", false, "Validate module dependencies from the snapshot instead of querying the build")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	env, err := openWorkspace()
	if err != nil {
		return err
	}
	defer env.close()

	rs, err := env.cfg.Rules()
	if err != nil {
		return err
	}
	g, source, err := env.packageGraph(cmd.Context(), rs, validateFromTracker)
	if err != nil {
		return err
	}

	res := validate.Validate(rs, g)
	env.logger.Printf("Validated %d packages from %s: %d violation(s)", len(g.Packages()), source, len(res.Violations))
	env.logEvent(events.TypeValidated, events.ValidatePayload(source, len(g.Packages()), len(res.Violations)))

	out := cmd.OutOrStdout()
	if err := report.Violations(out, res); err != nil {
		return err
	}
	if validateGraph != "" {
		if err := writeDOT(validateGraph, rs, g); err != nil {
			return err
		}
		printSuccess(out, "Wrote dependency graph to %s", validateGraph)
	}

	if !res.Valid() {
		return NewSilentExit(1)
	}
	return nil
}

// packageGraph builds the package dependency graph from the build or, when
// fromTracker is set, from the snapshot. It also names the source used.
func (e *workspaceEnv) packageGraph(ctx context.Context, rs *rules.Set, fromTracker bool) (validate.Graph, string, error) {
	if fromTracker {
		s, err := e.openStore()
		if err != nil {
			return nil, "", err
		}
		return validate.FromModules(s, rs), "tracker", nil
	}

	q, err := e.querier()
	if err != nil {
		return nil, "", err
	}
	ctx, cancel := context.WithTimeout(ctx, constants.QueryTimeout)
	defer cancel()
	g, err := bazel.PackageGraph(ctx, q, e.cfg.PackagesDir, rs)
	if err != nil {
		return nil, "", err
	}
	return g, "query", nil
}

// querier returns a build graph querier for the workspace, checking the
// query tool first unless an executor has been substituted.
func (e *workspaceEnv) querier() (*bazel.Querier, error) {
	opts := []bazel.Option{bazel.WithCacheSize(e.cfg.CacheSize)}
	if queryExecutor != nil {
		opts = append(opts, bazel.WithExecutor(queryExecutor))
	} else if err := deps.EnsureTool(e.cfg.QueryBinary); err != nil {
		return nil, err
	}
	return bazel.NewQuerier(e.root, e.cfg.QueryBinary, opts...)
}

func writeDOT(path string, rs validate.Rules, g validate.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating graph file: %w", err)
	}
	if err := report.DOT(f, rs, g); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing graph file: %w", err)
	}
	return nil
}
