package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/report"
)

var readyCmd = &cobra.Command{
	Use:     "ready",
	GroupID: GroupTracking,
	Short:   "Show modules ready to migrate",
	Long: `List unfinished modules whose tracked dependencies are all completed or
skipped, then the remaining unfinished modules with the dependencies they
are waiting on.

Examples:
  adf ready`,
	Args: cobra.NoArgs,
	RunE: runReady,
}

func init() {
	rootCmd.AddCommand(readyCmd)
}

func runReady(cmd *cobra.Command, args []string) error {
	env, err := openWorkspace()
	if err != nil {
		return err
	}
	defer env.close()

	s, err := env.openStore()
	if err != nil {
		return err
	}
	return report.Readiness(cmd.OutOrStdout(), s)
}
