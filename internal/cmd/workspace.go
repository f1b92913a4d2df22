package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/deeklead/adf/internal/config"
	"github.com/deeklead/adf/internal/events"
	"github.com/deeklead/adf/internal/migration"
	"github.com/deeklead/adf/internal/style"
	"github.com/deeklead/adf/internal/workspace"
)

// now is the clock used for report timestamps and completion dates.
var now = time.Now

// workspaceEnv bundles what every workspace command needs.
type workspaceEnv struct {
	root    string
	cfg     *config.Config
	logger  *log.Logger
	events  *events.Logger
	logFile *os.File
}

// openWorkspace finds the workspace from the current directory, loads its
// configuration and opens the diagnostic log. Call close when done.
func openWorkspace() (*workspaceEnv, error) {
	root, err := workspace.FindFromCwdOrError()
	if err != nil {
		return nil, err
	}
	return openWorkspaceAt(root)
}

func openWorkspaceAt(root string) (*workspaceEnv, error) {
	cfg, err := config.LoadWorkspace(root)
	if err != nil {
		return nil, err
	}

	env := &workspaceEnv{
		root:   root,
		cfg:    cfg,
		events: events.NewLogger(cfg.EventsPath()),
	}

	// The log is best-effort; a read-only checkout still works.
	env.logger = log.New(io.Discard, "", log.LstdFlags)
	if err := os.MkdirAll(cfg.LogDir, 0755); err == nil {
		f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err == nil {
			env.logFile = f
			env.logger = log.New(f, "", log.LstdFlags)
		}
	}
	env.logger.SetPrefix(fmt.Sprintf("[%s] ", env.events.RunID()[:8]))
	return env, nil
}

func (e *workspaceEnv) close() {
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// openStore loads the snapshot, falling back to the default modules when
// it is missing or corrupt.
func (e *workspaceEnv) openStore() (*migration.Store, error) {
	return migration.Open(e.cfg.Snapshot, migration.DefaultModules(now()),
		migration.WithClock(now), migration.WithLogger(e.logger))
}

// saveStore writes the snapshot and logs the write.
func (e *workspaceEnv) saveStore(s *migration.Store) error {
	if err := s.SaveFile(e.cfg.Snapshot); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	e.logger.Printf("Saved %d modules to %s", s.Len(), e.cfg.Snapshot)
	return nil
}

// logEvent records an audit event. Failures only reach the log.
func (e *workspaceEnv) logEvent(eventType string, payload map[string]interface{}) {
	if err := e.events.Log(eventType, payload); err != nil {
		e.logger.Printf("Warning: recording %s event: %v", eventType, err)
	}
}

// plain reports whether output should avoid emoji markers.
func plain(w io.Writer) bool {
	return !style.IsTerminal(w)
}
