package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deeklead/adf/internal/style"
)

var rulesCmd = &cobra.Command{
	Use:     "rules",
	GroupID: GroupRules,
	Short:   "Inspect the dependency rules",
	RunE:    requireSubcommand,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show [PACKAGE]",
	Short: "Show which packages each package may depend on",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRulesShow,
}

var rulesMappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Show where each legacy module moves to",
	Args:  cobra.NoArgs,
	RunE:  runRulesMappings,
}

func init() {
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesMappingsCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	env, err := openWorkspace()
	if err != nil {
		return err
	}
	defer env.close()

	rs, err := env.cfg.Rules()
	if err != nil {
		return err
	}

	pkgs := rs.Packages()
	if len(args) == 1 {
		if !rs.Known(args[0]) {
			return fmt.Errorf("no rules for package %q", args[0])
		}
		pkgs = args[:1]
	}

	out := cmd.OutOrStdout()
	for _, pkg := range pkgs {
		allowed := rs.AllowedFor(pkg)
		desc := style.Dim.Render("(no dependencies allowed)")
		if len(allowed) > 0 {
			desc = strings.Join(allowed, ", ")
		}
		fmt.Fprintf(out, "%s %s %s\n", style.Bold.Render(pkg), style.ArrowPrefix, desc)
	}
	return nil
}

func runRulesMappings(cmd *cobra.Command, args []string) error {
	env, err := openWorkspace()
	if err != nil {
		return err
	}
	defer env.close()

	rs, err := env.cfg.Rules()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, module := range rs.MappedModules() {
		path, _ := rs.Mapping(module)
		fmt.Fprintf(out, "%-24s %s %s\n", module, style.ArrowPrefix, path)
	}
	return nil
}
