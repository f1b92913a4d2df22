package migration

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Status is the lifecycle stage of a module. The set of values is closed:
// only the five constants below are valid, and every switch over Status in
// this package handles all of them.
type Status int

const (
	NotStarted Status = iota // zero value
	InProgress
	Completed
	Blocked
	Skipped

	numStatuses
)

// Statuses lists every status in report order.
func Statuses() []Status {
	return []Status{NotStarted, InProgress, Completed, Blocked, Skipped}
}

// String returns the label used in snapshots and reports.
func (s Status) String() string {
	switch s {
	case NotStarted:
		return "Not Started"
	case InProgress:
		return "In Progress"
	case Completed:
		return "Completed"
	case Blocked:
		return "Blocked"
	case Skipped:
		return "Skipped"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Valid reports whether s is one of the five defined statuses.
func (s Status) Valid() bool {
	return s >= NotStarted && s < numStatuses
}

// Done reports whether the module no longer gates its dependents.
func (s Status) Done() bool {
	switch s {
	case Completed, Skipped:
		return true
	case NotStarted, InProgress, Blocked:
		return false
	}
	return false
}

// ParseStatus converts a label to a Status. Matching ignores case and
// treats spaces, dashes and underscores alike, so "Not Started",
// "not_started" and "NOT-STARTED" are equivalent.
func ParseStatus(label string) (Status, error) {
	want := normalizeLabel(label)
	for _, s := range Statuses() {
		if normalizeLabel(s.String()) == want {
			return s, nil
		}
	}
	return NotStarted, fmt.Errorf("unknown status %q (want one of: %s)", label, strings.Join(statusLabels(), ", "))
}

func normalizeLabel(label string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(r.Replace(strings.TrimSpace(label)))
}

func statusLabels() []string {
	labels := make([]string, 0, numStatuses)
	for _, s := range Statuses() {
		labels = append(labels, s.String())
	}
	return labels
}

// MarshalText encodes the status as its label.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes an exact status label.
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range Statuses() {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", string(text))
}
