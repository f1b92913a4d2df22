package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/doctor"
)

var (
	doctorFix     bool
	doctorVerbose bool
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	GroupID: GroupDiag,
	Short:   "Run health checks on the workspace",
	Long: `Run diagnostic checks on the adf workspace.

Core checks:
  - config-valid             Check adf.toml is valid
  - state-dir                Check the log directory exists (fixable)
  - snapshot-valid           Check the status snapshot decodes (fixable)

Configuration checks:
  - rules-valid              Check the rule table loads and covers every mapping
  - query-tool               Check the build graph query tool is installed

Dependency graph checks:
  - dependents-consistency   Detect edges recorded on only one side
  - dependency-cycles        Detect dependency cycles
  - untracked-dependencies   Detect dependencies on untracked modules

Use --fix to attempt automatic fixes for issues that support it.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt to automatically fix issues")
	doctorCmd.Flags().BoolVarP(&doctorVerbose, "verbose", "v", false, "Show detailed output")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	env, err := openWorkspace()
	if err != nil {
		return err
	}
	defer env.close()

	ctx := &doctor.CheckContext{
		Root:    env.root,
		Config:  env.cfg,
		Verbose: doctorVerbose,
	}

	d := doctor.NewDoctor()
	d.RegisterAll(doctor.WorkspaceChecks()...)

	var report *doctor.Report
	if doctorFix {
		report = d.Fix(ctx)
	} else {
		report = d.Run(ctx)
	}
	report.Print(cmd.OutOrStdout(), doctorVerbose)
	env.logger.Printf("Doctor: %d errors, %d warnings, %d fixed",
		report.Summary.Errors, report.Summary.Warnings, report.Summary.Fixed)

	if report.HasErrors() {
		return NewSilentExit(1)
	}
	return nil
}
