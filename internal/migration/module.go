// Package migration holds the facts about modules being moved to the
// Alpha Dot Five layout: their status, declared dependencies and history.
package migration

import (
	"fmt"
	"time"
)

// Module is one unit of code slated for migration.
type Module struct {
	Name           string
	Status         Status
	Dependencies   []string
	Dependents     []string
	MigrationDate  *Date
	BlockingIssues []string
	Notes          string
}

// clone returns a deep copy with nil slices normalised to empty ones, so a
// module read back from a snapshot compares equal to the one written.
func (m Module) clone() Module {
	out := m
	out.Dependencies = copyStrings(m.Dependencies)
	out.Dependents = copyStrings(m.Dependents)
	out.BlockingIssues = copyStrings(m.BlockingIssues)
	if m.MigrationDate != nil {
		d := *m.MigrationDate
		out.MigrationDate = &d
	}
	return out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD date.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
