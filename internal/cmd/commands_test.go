package cmd

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deeklead/adf/internal/events"
	"github.com/deeklead/adf/internal/migration"
	"github.com/deeklead/adf/internal/report"
)

func TestStatusUsesDefaultsWithoutSnapshot(t *testing.T) {
	setupWorkspace(t)

	out, err := runCLI(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{report.Title, "Generated: 2025-03-14 09:30:00", "Total Modules: 8", "1. [done] UmbraErrors"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestStatusCSV(t *testing.T) {
	root := setupWorkspace(t)

	out, err := runCLI(t, "status", "--csv", "-")
	if err != nil {
		t.Fatalf("status --csv -: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil || len(rows) != 9 {
		t.Fatalf("CSV rows = %d, %v", len(rows), err)
	}

	path := filepath.Join(root, "out.csv")
	out, err = runCLI(t, "status", "--csv", path)
	if err != nil {
		t.Fatalf("status --csv FILE: %v", err)
	}
	if !strings.Contains(out, "Exported 8 modules") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("CSV file not written: %v", err)
	}
}

func TestUpdateSavesSnapshotAndRecordsEvent(t *testing.T) {
	root := setupWorkspace(t)

	out, err := runCLI(t, "update", "CoreDTOs", "completed")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !strings.Contains(out, "CoreDTOs: In Progress") || !strings.Contains(out, "Completed") {
		t.Errorf("output = %q", out)
	}

	m, ok := loadSnapshot(t, root).Get("CoreDTOs")
	if !ok || m.Status != migration.Completed {
		t.Fatalf("CoreDTOs = %+v", m)
	}
	if m.MigrationDate == nil || m.MigrationDate.String() != "2025-03-14" {
		t.Errorf("MigrationDate = %v, want 2025-03-14", m.MigrationDate)
	}
	if m.Notes != "Dependencies updated to use migrated UmbraErrors module." {
		t.Errorf("notes changed without --notes: %q", m.Notes)
	}

	evs, err := events.Read(filepath.Join(root, ".adf", "events.jsonl"))
	if err != nil || len(evs) != 1 {
		t.Fatalf("events = %+v, %v", evs, err)
	}
	if evs[0].Type != events.TypeStatusChanged || evs[0].Module() != "CoreDTOs" || evs[0].Payload["to"] != "Completed" {
		t.Errorf("event = %+v", evs[0])
	}
	if _, err := os.Stat(filepath.Join(root, ".adf", "adf.log")); err != nil {
		t.Errorf("log file not written: %v", err)
	}
}

func TestUpdateFlags(t *testing.T) {
	root := setupWorkspace(t)

	_, err := runCLI(t, "update", "Scheduling", "Blocked", "--blocked-by", "UC-112", "--blocked-by", "UC-118", "--notes", "Waiting on timers")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	m, _ := loadSnapshot(t, root).Get("Scheduling")
	if m.Status != migration.Blocked || m.Notes != "Waiting on timers" {
		t.Errorf("Scheduling = %+v", m)
	}
	if len(m.BlockingIssues) != 2 || m.BlockingIssues[1] != "UC-118" {
		t.Errorf("BlockingIssues = %v", m.BlockingIssues)
	}

	if _, err := runCLI(t, "update", "Scheduling", "completed", "--date", "2025-01-02"); err != nil {
		t.Fatalf("update with date: %v", err)
	}
	m, _ = loadSnapshot(t, root).Get("Scheduling")
	if m.MigrationDate == nil || m.MigrationDate.String() != "2025-01-02" {
		t.Errorf("MigrationDate = %v", m.MigrationDate)
	}
	if m.Notes != "Waiting on timers" || len(m.BlockingIssues) != 2 {
		t.Errorf("omitted flags should keep values: %+v", m)
	}
}

func TestUpdateErrors(t *testing.T) {
	root := setupWorkspace(t)

	_, err := runCLI(t, "update", "Ghost", "completed")
	if !errors.Is(err, migration.ErrNotFound) {
		t.Errorf("unknown module error = %v, want ErrNotFound", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, "migration_status.json")); !os.IsNotExist(statErr) {
		t.Error("failed update wrote a snapshot")
	}

	if _, err := runCLI(t, "update", "CoreDTOs", "finished"); err == nil || !strings.Contains(err.Error(), "unknown status") {
		t.Errorf("bad status error = %v", err)
	}
	if _, err := runCLI(t, "update", "CoreDTOs", "completed", "--date", "14/03/2025"); err == nil {
		t.Error("bad date accepted")
	}
	if _, err := runCLI(t, "update", "CoreDTOs"); err == nil {
		t.Error("missing STATUS accepted")
	}
}

func TestOrderCommand(t *testing.T) {
	root := setupWorkspace(t)
	writeSnapshot(t, root,
		migration.Module{Name: "Z", Dependencies: []string{"Y"}},
		migration.Module{Name: "X", Status: migration.Completed},
		migration.Module{Name: "Y", Dependencies: []string{"X"}},
	)

	out, err := runCLI(t, "order")
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	want := "1. [done] X\n2. [todo] Y\n3. [todo] Z\n"
	if out != want {
		t.Errorf("order output = %q, want %q", out, want)
	}
}

func TestReadyCommand(t *testing.T) {
	setupWorkspace(t)

	out, err := runCLI(t, "ready")
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	if !strings.Contains(out, "Ready to migrate:") || !strings.Contains(out, "Notification") {
		t.Errorf("ready output:\n%s", out)
	}
}

func TestValidateFromTracker(t *testing.T) {
	root := setupWorkspace(t)

	out, err := runCLI(t, "validate", "--from-tracker", "--graph", "deps.dot")
	code, silent := IsSilentExit(err)
	if !silent || code != 1 {
		t.Fatalf("validate error = %v, want silent exit 1", err)
	}
	if !strings.Contains(out, "INVALID DEPENDENCY:") || !strings.Contains(out, "Found 1 invalid dependency.") {
		t.Errorf("validate output:\n%s", out)
	}

	dot, err := os.ReadFile(filepath.Join(root, "deps.dot"))
	if err != nil {
		t.Fatalf("graph not written: %v", err)
	}
	if !strings.Contains(string(dot), `"UmbraCoreTypes" -> "UmbraErrorKit" [color=red, penwidth=2.0];`) {
		t.Errorf("graph missing invalid edge:\n%s", dot)
	}
}

func TestValidateFromQuery(t *testing.T) {
	setupWorkspace(t)
	useFakeQuery(t, map[string]string{
		"//packages/...": targets("//packages/UmbraInterfaces/Security:Security"),
		"deps(//packages/UmbraInterfaces/Security:Security)": targets(
			"//packages/UmbraInterfaces/Security:Security",
			"//packages/UmbraCoreTypes/CoreDTOs:CoreDTOs",
		),
	})

	out, err := runCLI(t, "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "All dependencies conform to Alpha Dot Five structure.") {
		t.Errorf("validate output:\n%s", out)
	}
}

func TestValidateQueryFailure(t *testing.T) {
	setupWorkspace(t)
	useFakeQuery(t, map[string]string{})

	_, err := runCLI(t, "validate")
	if err == nil {
		t.Fatal("validate succeeded with failing queries")
	}
	if _, silent := IsSilentExit(err); silent {
		t.Errorf("query failure should be reported, got silent exit")
	}
}

func TestGraphCommand(t *testing.T) {
	root := setupWorkspace(t)

	out, err := runCLI(t, "graph", "--from-tracker", "tracker.dot")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.Contains(out, "Wrote dependency graph to tracker.dot") {
		t.Errorf("output = %q", out)
	}
	data, err := os.ReadFile(filepath.Join(root, "tracker.dot"))
	if err != nil || !strings.HasPrefix(string(data), "digraph Dependencies {") {
		t.Errorf("graph file = %q, %v", data, err)
	}
}

func TestSyncCommand(t *testing.T) {
	root := setupWorkspace(t)
	useFakeQuery(t, map[string]string{
		"deps(//Sources/UserDefaults:*)": targets(
			"//Sources/UserDefaults:UserDefaults",
			"//Sources/CoreDTOs:CoreDTOs",
			"//Sources/KeyValueStore:KeyValueStore",
		),
		"deps(//Sources/Preferences:*)": targets("//Sources/Preferences:Preferences"),
	})

	out, err := runCLI(t, "sync", "UserDefaults")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !strings.Contains(out, "Updated UserDefaults: CoreDTOs, KeyValueStore") || !strings.Contains(out, "Untracked dependencies: KeyValueStore") {
		t.Errorf("sync output:\n%s", out)
	}
	m, _ := loadSnapshot(t, root).Get("UserDefaults")
	if len(m.Dependencies) != 2 || m.Dependencies[0] != "CoreDTOs" {
		t.Errorf("Dependencies = %v", m.Dependencies)
	}
	if len(m.Dependents) != 1 || m.Notes == "" {
		t.Errorf("sync should only replace dependencies: %+v", m)
	}

	out, err = runCLI(t, "sync", "Preferences")
	if err != nil {
		t.Fatalf("sync new module: %v", err)
	}
	if !strings.Contains(out, "Added Preferences: no dependencies") {
		t.Errorf("sync output:\n%s", out)
	}
	if m, ok := loadSnapshot(t, root).Get("Preferences"); !ok || m.Status != migration.NotStarted {
		t.Errorf("Preferences = %+v, %v", m, ok)
	}
}

func TestHistoryCommand(t *testing.T) {
	setupWorkspace(t)

	out, err := runCLI(t, "history")
	if err != nil || !strings.Contains(out, "No events recorded.") {
		t.Fatalf("empty history = %q, %v", out, err)
	}

	for _, args := range [][]string{
		{"update", "CoreDTOs", "completed"},
		{"update", "Notification", "in-progress"},
	} {
		if _, err := runCLI(t, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	out, err = runCLI(t, "history", "CoreDTOs")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "CoreDTOs: In Progress -> Completed (2025-03-14)") || strings.Contains(out, "Notification") {
		t.Errorf("history output:\n%s", out)
	}

	out, _ = runCLI(t, "history", "--limit", "1")
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, "Notification") {
		t.Errorf("limited history:\n%s", out)
	}
}

func TestDoctorCommand(t *testing.T) {
	root := setupWorkspace(t)

	out, err := runCLI(t, "doctor")
	if err != nil {
		t.Fatalf("doctor on fresh workspace: %v\n%s", err, out)
	}
	if !strings.Contains(out, "snapshot-valid") {
		t.Errorf("doctor output:\n%s", out)
	}

	if err := os.WriteFile(filepath.Join(root, "migration_status.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = runCLI(t, "doctor")
	if code, silent := IsSilentExit(err); !silent || code != 1 {
		t.Errorf("doctor with corrupt snapshot = %v, want silent exit 1", err)
	}

	if _, err := runCLI(t, "doctor", "--fix"); err != nil {
		t.Errorf("doctor --fix: %v", err)
	}
	if s := loadSnapshot(t, root); s.Len() != 8 {
		t.Errorf("fixed snapshot has %d modules", s.Len())
	}
}

func TestInitCommand(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)
	oldNow := now
	now = func() time.Time { return testNow }
	t.Cleanup(func() { now = oldNow })

	out, err := runCLI(t, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Created") || !strings.Contains(out, "Wrote 8 default modules") {
		t.Errorf("init output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "adf.toml")); err != nil {
		t.Errorf("adf.toml not written: %v", err)
	}

	if _, err := runCLI(t, "update", "CoreDTOs", "completed"); err != nil {
		t.Fatalf("update: %v", err)
	}
	out, _ = runCLI(t, "init")
	if !strings.Contains(out, "already exists") {
		t.Errorf("second init output:\n%s", out)
	}

	if _, err := runCLI(t, "init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	if m, _ := loadSnapshot(t, root).Get("CoreDTOs"); m.Status != migration.InProgress {
		t.Errorf("forced init kept old status %v", m.Status)
	}
	if _, err := os.Stat(filepath.Join(root, "migration_status.json.bak")); err != nil {
		t.Errorf("backup not kept: %v", err)
	}
}

func TestRulesCommands(t *testing.T) {
	setupWorkspace(t)

	out, err := runCLI(t, "rules", "show", "UmbraInterfaces")
	if err != nil {
		t.Fatalf("rules show: %v", err)
	}
	if !strings.Contains(out, "UmbraCoreTypes, UmbraErrorKit") {
		t.Errorf("rules show output = %q", out)
	}

	out, err = runCLI(t, "rules", "mappings")
	if err != nil || !strings.Contains(out, "UmbraCoreTypes/CoreDTOs") {
		t.Errorf("rules mappings = %q, %v", out, err)
	}

	if _, err := runCLI(t, "rules", "show", "NoSuchPackage"); err == nil {
		t.Error("rules show accepted an unknown package")
	}
	if _, err := runCLI(t, "rules"); err == nil || !strings.Contains(err.Error(), "requires a subcommand") {
		t.Errorf("bare rules = %v", err)
	}
}

func TestNotInWorkspace(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := runCLI(t, "status"); err == nil {
		t.Error("status outside a workspace succeeded")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil || !strings.HasPrefix(out, "adf v"+Version) {
		t.Errorf("version = %q, %v", out, err)
	}
}

func TestSilentExit(t *testing.T) {
	err := NewSilentExit(3)
	if code, ok := IsSilentExit(err); !ok || code != 3 {
		t.Errorf("IsSilentExit = %d, %v", code, ok)
	}
	if _, ok := IsSilentExit(errors.New("boom")); ok {
		t.Error("plain error reported as silent exit")
	}
}
