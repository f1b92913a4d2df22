package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/deeklead/adf/internal/config"
	"github.com/deeklead/adf/internal/migration"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// setupWorkspace creates a workspace with an empty adf.toml, makes it the
// working directory and pins the clock.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, config.FileName), nil, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	for _, key := range []string{config.EnvSnapshot, config.EnvPackagesDir, config.EnvQueryBinary,
		config.EnvRulesFile, config.EnvLogDir, config.EnvCacheSize} {
		t.Setenv(key, "")
	}
	chdir(t, root)

	oldNow := now
	now = func() time.Time { return testNow }
	t.Cleanup(func() { now = oldNow })
	return root
}

// runCLI executes adf with args and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	_, err := rootCmd.ExecuteC()
	return out.String(), err
}

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func loadSnapshot(t *testing.T, root string) *migration.Store {
	t.Helper()
	s := migration.NewStore()
	if err := s.LoadFile(filepath.Join(root, "migration_status.json")); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return s
}

func writeSnapshot(t *testing.T, root string, mods ...migration.Module) {
	t.Helper()
	s := migration.NewStore()
	for _, m := range mods {
		s.Upsert(m)
	}
	if err := s.SaveFile(filepath.Join(root, "migration_status.json")); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
}

// fakeQuery answers build graph queries from a canned table.
type fakeQuery struct {
	responses map[string]string
}

func (f *fakeQuery) Output(_ context.Context, _ string, _ string, args ...string) ([]byte, error) {
	expr := args[len(args)-1]
	out, ok := f.responses[expr]
	if !ok {
		return nil, fmt.Errorf("no canned response for %q", expr)
	}
	return []byte(out), nil
}

func useFakeQuery(t *testing.T, responses map[string]string) {
	t.Helper()
	queryExecutor = &fakeQuery{responses: responses}
	t.Cleanup(func() { queryExecutor = nil })
}

func targets(names ...string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, fmt.Sprintf(`{"name": %q, "rule": "swift_library"}`, n))
	}
	return `{"target": [` + strings.Join(quoted, ", ") + `]}`
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
