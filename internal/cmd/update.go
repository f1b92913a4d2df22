package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/events"
	"github.com/deeklead/adf/internal/migration"
	"github.com/deeklead/adf/internal/style"
)

var (
	updateNotes     string
	updateDate      string
	updateBlockedBy []string
)

var updateCmd = &cobra.Command{
	Use:     "update MODULE STATUS",
	GroupID: GroupTracking,
	Short:   "Record a module's migration status",
	Long: `Set a module's migration status and save the snapshot.

STATUS is one of: not-started, in-progress, completed, blocked, skipped
(case and separators are ignored, so "In Progress" works too).

Completing a module without --date stamps today's date. Notes and blocking
issues are kept unless given. Only one adf command should change the
snapshot at a time.

Examples:
  adf update CoreDTOs completed
  adf update UserDefaults in-progress --notes "Waiting on review"
  adf update Scheduling blocked --blocked-by UC-112 --blocked-by UC-118
  adf update UmbraErrors completed --date 2025-03-01`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "Replace the module's notes")
	updateCmd.Flags().StringVar(&updateDate, "date", "", "Migration date (YYYY-MM-DD)")
	updateCmd.Flags().StringSliceVar(&updateBlockedBy, "blocked-by", nil, "Replace the blocking issues (repeatable)")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	name := args[0]
	status, err := migration.ParseStatus(args[1])
	if err != nil {
		return err
	}

	var opts []migration.StatusOption
	if updateDate != "" {
		d, err := migration.ParseDate(updateDate)
		if err != nil {
			return err
		}
		opts = append(opts, migration.OnDate(d))
	}
	if cmd.Flags().Changed("notes") {
		opts = append(opts, migration.WithNotes(updateNotes))
	}
	if cmd.Flags().Changed("blocked-by") {
		opts = append(opts, migration.BlockedBy(updateBlockedBy...))
	}

	env, err := openWorkspace()
	if err != nil {
		return err
	}
	defer env.close()

	s, err := env.openStore()
	if err != nil {
		return err
	}
	before, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s (tracked: %s)", migration.ErrNotFound, name, strings.Join(s.Names(), ", "))
	}
	if err := s.SetStatus(name, status, opts...); err != nil {
		return err
	}
	if err := env.saveStore(s); err != nil {
		return err
	}

	after, _ := s.Get(name)
	date := ""
	if after.MigrationDate != nil {
		date = after.MigrationDate.String()
	}
	env.logger.Printf("Status of %s: %s -> %s", name, before.Status, after.Status)
	env.logEvent(events.TypeStatusChanged, events.StatusPayload(name, before.Status.String(), after.Status.String(), date))

	out := cmd.OutOrStdout()
	printSuccess(out, "%s: %s %s %s", name, before.Status, style.ArrowPrefix, after.Status)

	if status == migration.InProgress || status == migration.Completed {
		if pending, _ := s.Pending(name); len(pending) > 0 {
			style.PrintWarning("%s depends on modules not yet migrated: %s", name, strings.Join(pending, ", "))
		}
	}
	return nil
}
