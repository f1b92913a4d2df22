package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/report"
	"github.com/deeklead/adf/internal/style"
)

var statusCSV string

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: GroupTracking,
	Short:   "Show the migration status report",
	Long: `Show totals per status, the modules in each status, and the suggested
migration order.

With --csv, export one row per module instead. Use "-" for stdout.

Examples:
  adf status
  adf status --csv migration_status.csv
  adf status --csv - | column -s, -t`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusCSV, "csv", "", "Export status as CSV to `FILE` (\"-\" for stdout)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := openWorkspace()
	if err != nil {
		return err
	}
	defer env.close()

	s, err := env.openStore()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statusCSV == "" {
		return report.StatusReport(out, s, report.Options{Now: now(), Plain: plain(out)})
	}

	if statusCSV == "-" {
		return report.WriteCSV(out, s)
	}
	f, err := os.Create(statusCSV)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	if err := report.WriteCSV(f, s); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing CSV file: %w", err)
	}
	printSuccess(out, "Exported %d modules to %s", s.Len(), statusCSV)
	return nil
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", style.SuccessPrefix, fmt.Sprintf(format, args...))
}
