// Package events records an append-only audit trail of fact store changes.
//
// Events are written as JSON lines to .adf/events.jsonl under the workspace
// root. Every event carries the id of the adf run that produced it, so the
// changes made by one invocation can be grouped.
package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one audit record.
type Event struct {
	Timestamp string                 `json:"ts"`
	Source    string                 `json:"source"`
	RunID     string                 `json:"run_id"`
	Type      string                 `json:"type"`
	Actor     string                 `json:"actor"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Event types.
const (
	TypeStatusChanged = "status_changed"
	TypeModuleSynced  = "module_synced"
	TypeValidated     = "validated"
	TypeGraphExported = "graph_exported"
	TypeSnapshotReset = "snapshot_reset"
)

// Logger appends events to a file. The zero value is not usable; create
// one with NewLogger.
type Logger struct {
	path  string
	runID string
	actor string
	now   func() time.Time

	mu sync.Mutex
}

// NewLogger returns a Logger writing to path with a fresh run id.
func NewLogger(path string) *Logger {
	return &Logger{
		path:  path,
		runID: uuid.NewString(),
		actor: currentActor(),
		now:   time.Now,
	}
}

func currentActor() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

// RunID identifies the events written by this Logger.
func (l *Logger) RunID() string {
	return l.runID
}

// Path is the events file.
func (l *Logger) Path() string {
	return l.path
}

// Log appends one event. A nil Logger discards events.
func (l *Logger) Log(eventType string, payload map[string]interface{}) error {
	if l == nil {
		return nil
	}
	event := Event{
		Timestamp: l.now().UTC().Format(time.RFC3339),
		Source:    "adf",
		RunID:     l.runID,
		Type:      eventType,
		Actor:     l.actor,
		Payload:   payload,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("creating events directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: events file is non-sensitive operational data
	if err != nil {
		return fmt.Errorf("opening events file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}

// Read returns every event in the file at path, oldest first. A missing
// file has no events. Lines that fail to decode are skipped.
func Read(path string) ([]Event, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is the workspace events file
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening events file: %w", err)
	}
	defer f.Close()

	var out []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading events file: %w", err)
	}
	return out, nil
}

// Module returns the module named in an event's payload, or "".
func (e Event) Module() string {
	if m, ok := e.Payload["module"].(string); ok {
		return m
	}
	return ""
}

// Payload helpers for the event types.

// StatusPayload creates a payload for status_changed events.
func StatusPayload(module, from, to, date string) map[string]interface{} {
	p := map[string]interface{}{
		"module": module,
		"from":   from,
		"to":     to,
	}
	if date != "" {
		p["date"] = date
	}
	return p
}

// SyncPayload creates a payload for module_synced events.
func SyncPayload(module string, dependencies []string) map[string]interface{} {
	return map[string]interface{}{
		"module":       module,
		"dependencies": dependencies,
	}
}

// ValidatePayload creates a payload for validated events.
// source: where the graph came from ("query" or "tracker")
func ValidatePayload(source string, packages, violations int) map[string]interface{} {
	return map[string]interface{}{
		"source":     source,
		"packages":   packages,
		"violations": violations,
	}
}

// GraphPayload creates a payload for graph_exported events.
func GraphPayload(file string, packages int) map[string]interface{} {
	return map[string]interface{}{
		"file":     file,
		"packages": packages,
	}
}

// ResetPayload creates a payload for snapshot_reset events.
// reason: why the defaults were used (missing or corrupt snapshot)
func ResetPayload(snapshot, reason string) map[string]interface{} {
	return map[string]interface{}{
		"snapshot": snapshot,
		"reason":   reason,
	}
}
