package doctor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deeklead/adf/internal/config"
	"github.com/deeklead/adf/internal/deps"
	"github.com/deeklead/adf/internal/migration"
)

func newTestCtx(t *testing.T) *CheckContext {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Resolve(root)
	return &CheckContext{Root: root, Config: cfg}
}

func writeSnapshot(t *testing.T, ctx *CheckContext, mods ...migration.Module) {
	t.Helper()
	s := migration.NewStore()
	for _, m := range mods {
		s.Upsert(m)
	}
	if err := s.SaveFile(ctx.Config.Snapshot); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigCheck(t *testing.T) {
	ctx := newTestCtx(t)
	c := NewConfigCheck()

	if r := c.Run(ctx); r.Status != StatusOK || !strings.Contains(r.Message, "defaults") {
		t.Errorf("missing config: %+v", r)
	}

	writeFile(t, filepath.Join(ctx.Root, config.FileName), "snapshot = \"s.json\"\n")
	if r := c.Run(ctx); r.Status != StatusOK {
		t.Errorf("valid config: %+v", r)
	}

	writeFile(t, filepath.Join(ctx.Root, config.FileName), "snapshot = \"s.json\"\nbogus = 1\n")
	if r := c.Run(ctx); r.Status != StatusError || len(r.Details) == 0 {
		t.Errorf("invalid config: %+v", r)
	}
}

func TestRulesCheck(t *testing.T) {
	ctx := newTestCtx(t)
	c := NewRulesCheck()

	if r := c.Run(ctx); r.Status != StatusOK {
		t.Errorf("built-in rules: %+v", r)
	}

	ctx.Config.RulesFile = filepath.Join(ctx.Root, "rules.toml")
	writeFile(t, ctx.Config.RulesFile, "[packages.UmbraCoreTypes]\nallow = []\n\n[mappings]\nCoreDTOs = \"UmbraCoreTypes/CoreDTOs\"\nLogger = \"UmbraLogging/Logger\"\n")
	r := c.Run(ctx)
	if r.Status != StatusWarning || len(r.Details) != 1 || !strings.Contains(r.Details[0], "Logger") {
		t.Errorf("unmapped package: %+v", r)
	}

	writeFile(t, ctx.Config.RulesFile, "not = [toml")
	if r := c.Run(ctx); r.Status != StatusError {
		t.Errorf("broken rules file: %+v", r)
	}
}

func TestStateDirCheckFix(t *testing.T) {
	ctx := newTestCtx(t)
	c := NewStateDirCheck()

	if r := c.Run(ctx); r.Status != StatusWarning {
		t.Fatalf("missing dir: %+v", r)
	}
	if err := c.Fix(ctx); err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if r := c.Run(ctx); r.Status != StatusOK {
		t.Errorf("after fix: %+v", r)
	}
}

func TestSnapshotCheck(t *testing.T) {
	ctx := newTestCtx(t)
	c := NewSnapshotCheck()
	c.now = func() time.Time { return time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC) }

	if r := c.Run(ctx); r.Status != StatusWarning {
		t.Fatalf("missing snapshot: %+v", r)
	}
	if err := c.Fix(ctx); err != nil {
		t.Fatalf("Fix missing: %v", err)
	}
	ctx.Reset()
	if r := c.Run(ctx); r.Status != StatusOK || r.Message != "8 modules tracked" {
		t.Errorf("after fix: %+v", r)
	}

	writeFile(t, ctx.Config.Snapshot, "{not json")
	ctx.Reset()
	if r := c.Run(ctx); r.Status != StatusError {
		t.Fatalf("corrupt snapshot: %+v", r)
	}
	if err := c.Fix(ctx); err != nil {
		t.Fatalf("Fix corrupt: %v", err)
	}
	if data, err := os.ReadFile(ctx.Config.Snapshot + ".corrupt"); err != nil || string(data) != "{not json" {
		t.Errorf("corrupt snapshot not preserved: %q, %v", data, err)
	}
	ctx.Reset()
	if r := c.Run(ctx); r.Status != StatusOK {
		t.Errorf("after corrupt fix: %+v", r)
	}
}

func TestGraphChecks(t *testing.T) {
	ctx := newTestCtx(t)
	writeSnapshot(t, ctx,
		migration.Module{Name: "A", Dependencies: []string{"B", "Ghost"}},
		migration.Module{Name: "B", Dependencies: []string{"A"}, Dependents: []string{"A"}},
	)

	r := NewDependentsConsistencyCheck().Run(ctx)
	if r.Status != StatusWarning || len(r.Details) != 1 || !strings.Contains(r.Details[0], "B depends on A") {
		t.Errorf("consistency: %+v", r)
	}

	r = NewCyclesCheck().Run(ctx)
	if r.Status != StatusWarning || len(r.Details) != 1 || r.Details[0] != "A -> B -> A" {
		t.Errorf("cycles: %+v", r)
	}

	r = NewUntrackedCheck().Run(ctx)
	if r.Status != StatusWarning || len(r.Details) != 1 || r.Details[0] != "Ghost" {
		t.Errorf("untracked: %+v", r)
	}
}

func TestGraphChecksClean(t *testing.T) {
	ctx := newTestCtx(t)
	writeSnapshot(t, ctx,
		migration.Module{Name: "A", Dependents: []string{"B"}},
		migration.Module{Name: "B", Dependencies: []string{"A"}},
	)
	for _, c := range []Check{NewDependentsConsistencyCheck(), NewCyclesCheck(), NewUntrackedCheck()} {
		if r := c.Run(ctx); r.Status != StatusOK {
			t.Errorf("%s: %+v", c.Name(), r)
		}
	}
}

func TestGraphChecksWithoutSnapshot(t *testing.T) {
	ctx := newTestCtx(t)
	if r := NewCyclesCheck().Run(ctx); r.Status != StatusOK || !strings.Contains(r.Message, "Skipped") {
		t.Errorf("no snapshot: %+v", r)
	}
}

func TestQueryToolCheck(t *testing.T) {
	tests := []struct {
		status  deps.ToolStatus
		version string
		want    CheckStatus
	}{
		{deps.ToolOK, "7.4.1", StatusOK},
		{deps.ToolTooOld, "5.0.0", StatusWarning},
		{deps.ToolNotFound, "", StatusWarning},
		{deps.ToolUnknown, "", StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			var probed string
			c := NewQueryToolCheckWith(func(binary string) (deps.ToolStatus, string) {
				probed = binary
				return tt.status, tt.version
			})
			r := c.Run(newTestCtx(t))
			if r.Status != tt.want {
				t.Errorf("Status = %v, want %v (%s)", r.Status, tt.want, r.Message)
			}
			if probed != "bazelisk" {
				t.Errorf("probed %q, want bazelisk", probed)
			}
		})
	}
}

func TestWorkspaceChecksHaveUniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range WorkspaceChecks() {
		if seen[c.Name()] {
			t.Errorf("duplicate check name %q", c.Name())
		}
		seen[c.Name()] = true
	}
}
