package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/order"
	"github.com/deeklead/adf/internal/report"
	"github.com/deeklead/adf/internal/style"
)

var orderCmd = &cobra.Command{
	Use:     "order",
	GroupID: GroupTracking,
	Short:   "Print the suggested migration order",
	Long: `Print every tracked module once, with each module's tracked dependencies
listed before it. Dependencies on untracked modules are treated as
satisfied.

Cycles do not stop the order; the modules on a cycle are listed in walk
order and a warning names the cycle.`,
	Args: cobra.NoArgs,
	RunE: runOrder,
}

func init() {
	rootCmd.AddCommand(orderCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
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
	if err := report.Order(out, s, report.Options{Plain: plain(out)}); err != nil {
		return err
	}
	for _, cyc := range order.Cycles(s) {
		style.PrintWarning("dependency cycle: %s -> %s", strings.Join(cyc, " -> "), cyc[0])
	}
	return nil
}
