// Package report renders fact store and validation results for people and
// for export.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/deeklead/adf/internal/migration"
	"github.com/deeklead/adf/internal/order"
	"github.com/deeklead/adf/internal/style"
)

// Title heads every status report.
const Title = "UmbraCore Alpha Dot Five Migration Status Report"

// Options controls text rendering.
type Options struct {
	// Now is printed as the generation time.
	Now time.Time
	// Plain replaces emoji markers with ASCII tags, for logs and pipes.
	Plain bool
	// Width is the rule width; 80 when zero.
	Width int
}

func (o Options) width() int {
	if o.Width <= 0 {
		return 80
	}
	return o.Width
}

// Marker returns the symbol shown next to a module with the given status.
func Marker(s migration.Status, plain bool) string {
	if plain {
		switch s {
		case migration.NotStarted:
			return "[todo]"
		case migration.InProgress:
			return "[wip]"
		case migration.Completed:
			return "[done]"
		case migration.Blocked:
			return "[blocked]"
		case migration.Skipped:
			return "[skip]"
		}
		return "[?]"
	}
	switch s {
	case migration.NotStarted:
		return "⏱️"
	case migration.InProgress:
		return "⏳"
	case migration.Completed:
		return "✅"
	case migration.Blocked:
		return "❌"
	case migration.Skipped:
		return "⏭️"
	}
	return "?"
}

func statusStyle(s migration.Status) func(...string) string {
	switch s {
	case migration.Completed:
		return style.Success.Render
	case migration.InProgress:
		return style.Info.Render
	case migration.Blocked:
		return style.Error.Render
	case migration.NotStarted, migration.Skipped:
		return style.Dim.Render
	}
	return style.Dim.Render
}

// StatusReport writes totals, modules grouped by status, and the suggested
// migration order.
func StatusReport(w io.Writer, s *migration.Store, opts Options) error {
	var b strings.Builder
	heavy := strings.Repeat("=", opts.width())
	light := strings.Repeat("-", opts.width())

	fmt.Fprintln(&b, heavy)
	fmt.Fprintln(&b, style.Header.Render(Title))
	fmt.Fprintf(&b, "Generated: %s\n", opts.Now.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, heavy)

	total := s.Len()
	counts := s.Counts()
	fmt.Fprintf(&b, "Total Modules: %d\n", total)
	for _, st := range migration.Statuses() {
		fmt.Fprintf(&b, "%s: %d (%.1f%%)\n", st, counts[st], percent(counts[st], total))
	}
	fmt.Fprintln(&b, light)

	fmt.Fprintln(&b, "\nModules by status:")
	snap := s.Snapshot()
	for _, st := range migration.Statuses() {
		var group []migration.Module
		for _, m := range snap {
			if m.Status == st {
				group = append(group, m)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", statusStyle(st)(st.String()))
		for _, m := range group {
			line := "  - " + m.Name
			if m.MigrationDate != nil {
				line += style.Dim.Render(fmt.Sprintf(" (Completed: %s)", m.MigrationDate))
			}
			fmt.Fprintln(&b, line)
			if len(m.BlockingIssues) > 0 {
				fmt.Fprintf(&b, "    Blocked by: %s\n", strings.Join(m.BlockingIssues, ", "))
			}
			if m.Notes != "" {
				fmt.Fprintf(&b, "    Notes: %s\n", m.Notes)
			}
		}
	}

	fmt.Fprintln(&b, "\nSuggested migration order:")
	for i, name := range order.Order(s) {
		m, _ := s.Get(name)
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, Marker(m.Status, opts.Plain), name)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Order writes a numbered migration order with status markers.
func Order(w io.Writer, s *migration.Store, opts Options) error {
	var b strings.Builder
	for i, name := range order.Order(s) {
		m, _ := s.Get(name)
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, Marker(m.Status, opts.Plain), name)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Readiness lists modules that can be migrated now, then the remaining
// unfinished modules with the dependencies they wait on.
func Readiness(w io.Writer, s *migration.Store) error {
	var b strings.Builder
	ready := s.Ready()
	if len(ready) == 0 {
		fmt.Fprintln(&b, "No modules are ready to migrate.")
	} else {
		fmt.Fprintln(&b, style.Bold.Render("Ready to migrate:"))
		for _, name := range ready {
			fmt.Fprintf(&b, "  %s %s\n", style.SuccessPrefix, name)
		}
	}

	isReady := make(map[string]bool, len(ready))
	for _, name := range ready {
		isReady[name] = true
	}
	var waiting []string
	for _, name := range s.Names() {
		m, _ := s.Get(name)
		if m.Status.Done() || isReady[name] {
			continue
		}
		pending, _ := s.Pending(name)
		waiting = append(waiting, fmt.Sprintf("  %s %s %s %s", style.WarningPrefix, name, style.ArrowPrefix, strings.Join(pending, ", ")))
	}
	if len(waiting) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, style.Bold.Render("Waiting on dependencies:"))
		for _, line := range waiting {
			fmt.Fprintln(&b, line)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
