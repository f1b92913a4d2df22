package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags "-X github.com/deeklead/adf/internal/cmd.Version=...".
var (
	Version = "0.3.0"
	Build   = "dev"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	GroupID: GroupDiag,
	Short:   "Print version information",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "adf v%s (%s)\n", Version, Build)
		if commit := resolveCommitHash(); commit != "" {
			fmt.Fprintf(out, "  %s\n", commit)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// resolveCommitHash returns the VCS revision recorded by the Go toolchain,
// shortened, or "" when the binary was built without VCS info.
func resolveCommitHash() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return ""
}
