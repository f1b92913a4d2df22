package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/events"
	"github.com/deeklead/adf/internal/style"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history [MODULE]",
	GroupID: GroupTracking,
	Short:   "Show recorded status changes and validations",
	Long: `Show the most recent events from the audit trail, newest last. With
MODULE, show only events about that module.

Examples:
  adf history
  adf history CoreDTOs --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Show at most N events (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	env, err := openWorkspace()
	if err != nil {
		return err
	}
	defer env.close()

	all, err := events.Read(env.cfg.EventsPath())
	if err != nil {
		return err
	}

	var list []events.Event
	for _, e := range all {
		if len(args) == 0 || e.Module() == args[0] {
			list = append(list, e)
		}
	}
	if historyLimit > 0 && len(list) > historyLimit {
		list = list[len(list)-historyLimit:]
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No events recorded.")
		return nil
	}
	for _, e := range list {
		fmt.Fprintf(out, "%s  %s  %-15s %s\n",
			e.Timestamp, style.Dim.Render(shortRunID(e.RunID)), e.Type, describeEvent(e))
	}
	return nil
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// describeEvent renders an event's payload on one line.
func describeEvent(e events.Event) string {
	p := e.Payload
	switch e.Type {
	case events.TypeStatusChanged:
		s := fmt.Sprintf("%v: %v -> %v", p["module"], p["from"], p["to"])
		if d, ok := p["date"]; ok {
			s += fmt.Sprintf(" (%v)", d)
		}
		return s
	case events.TypeModuleSynced:
		return fmt.Sprintf("%v: %s", p["module"], joinAny(p["dependencies"]))
	case events.TypeValidated:
		return fmt.Sprintf("%v packages from %v, %v violation(s)", p["packages"], p["source"], p["violations"])
	case events.TypeGraphExported:
		return fmt.Sprintf("%v packages to %v", p["packages"], p["file"])
	case events.TypeSnapshotReset:
		return fmt.Sprintf("%v (%v)", p["snapshot"], p["reason"])
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, p[k]))
	}
	return strings.Join(parts, " ")
}

func joinAny(v interface{}) string {
	list, ok := v.([]interface{})
	if !ok || len(list) == 0 {
		return "none"
	}
	parts := make([]string, len(list))
	for i, item := range list {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, ", ")
}
