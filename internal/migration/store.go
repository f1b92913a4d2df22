package migration

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"time"
)

var (
	// ErrNotFound indicates an operation named a module the store does not track.
	ErrNotFound = errors.New("module not found")

	// ErrCorruptData indicates a persisted snapshot could not be parsed.
	ErrCorruptData = errors.New("corrupt migration snapshot")
)

// Store is the authoritative set of modules for one invocation.
//
// A Store is not safe for concurrent use. The tool reads the whole snapshot,
// computes, and writes the whole snapshot back; two processes updating the
// same snapshot at once will lose one of the writes.
type Store struct {
	modules map[string]*Module
	now     func() time.Time
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp completion dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for recoverable problems.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		modules: make(map[string]*Module),
		now:     time.Now,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert inserts m, or fully replaces the module with the same name.
func (s *Store) Upsert(m Module) {
	c := m.clone()
	s.modules[m.Name] = &c
}

// Get returns a copy of the named module.
func (s *Store) Get(name string) (Module, bool) {
	m, ok := s.modules[name]
	if !ok {
		return Module{}, false
	}
	return m.clone(), true
}

// Has reports whether the store tracks name.
func (s *Store) Has(name string) bool {
	_, ok := s.modules[name]
	return ok
}

// Len returns the number of tracked modules.
func (s *Store) Len() int {
	return len(s.modules)
}

// Names returns every module name in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dependencies returns the declared dependencies of name, in declared order.
func (s *Store) Dependencies(name string) []string {
	if m, ok := s.modules[name]; ok {
		return copyStrings(m.Dependencies)
	}
	return nil
}

// Dependents returns the declared dependents of name, in declared order.
func (s *Store) Dependents(name string) []string {
	if m, ok := s.modules[name]; ok {
		return copyStrings(m.Dependents)
	}
	return nil
}

type statusUpdate struct {
	date   *Date
	notes  *string
	issues []string
	setIss bool
}

// StatusOption adjusts a SetStatus call.
type StatusOption func(*statusUpdate)

// OnDate records an explicit migration date.
func OnDate(d Date) StatusOption {
	return func(u *statusUpdate) { u.date = &d }
}

// WithNotes replaces the module's notes.
func WithNotes(notes string) StatusOption {
	return func(u *statusUpdate) { u.notes = &notes }
}

// BlockedBy replaces the module's blocking issues.
func BlockedBy(issues ...string) StatusOption {
	return func(u *statusUpdate) {
		u.issues = copyStrings(issues)
		u.setIss = true
	}
}

// SetStatus transitions the named module. Moving to Completed without an
// explicit date stamps today's date. If the module is unknown the store is
// left untouched and the returned error wraps ErrNotFound.
func (s *Store) SetStatus(name string, status Status, opts ...StatusOption) error {
	m, ok := s.modules[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if !status.Valid() {
		return fmt.Errorf("setting status of %s: invalid status %d", name, int(status))
	}

	var u statusUpdate
	for _, opt := range opts {
		opt(&u)
	}

	m.Status = status
	switch {
	case u.date != nil:
		d := *u.date
		m.MigrationDate = &d
	case status == Completed:
		d := DateOf(s.now())
		m.MigrationDate = &d
	}
	if u.notes != nil {
		m.Notes = *u.notes
	}
	if u.setIss {
		m.BlockingIssues = u.issues
	}
	return nil
}

// Snapshot is an immutable copy of every module, sorted by name.
type Snapshot []Module

// Snapshot copies the store's content. It does not modify the store.
func (s *Store) Snapshot() Snapshot {
	out := make(Snapshot, 0, len(s.modules))
	for _, name := range s.Names() {
		out = append(out, s.modules[name].clone())
	}
	return out
}

// Replace discards the store's content and loads snap in its place.
func (s *Store) Replace(snap Snapshot) {
	s.modules = make(map[string]*Module, len(snap))
	for _, m := range snap {
		s.Upsert(m)
	}
}

// Counts tallies modules per status.
func (s *Store) Counts() map[Status]int {
	counts := make(map[Status]int, numStatuses)
	for _, m := range s.modules {
		counts[m.Status]++
	}
	return counts
}

// Pending returns the tracked dependencies of name that are not yet done,
// in declared order. Dependencies the store does not track are ignored.
func (s *Store) Pending(name string) ([]string, error) {
	m, ok := s.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	var pending []string
	for _, dep := range m.Dependencies {
		if d, ok := s.modules[dep]; ok && !d.Status.Done() {
			pending = append(pending, dep)
		}
	}
	return pending, nil
}

// Ready returns, sorted, the modules that still need work and whose tracked
// dependencies are all completed or skipped.
func (s *Store) Ready() []string {
	var ready []string
	for _, name := range s.Names() {
		if s.modules[name].Status.Done() {
			continue
		}
		if pending, _ := s.Pending(name); len(pending) == 0 {
			ready = append(ready, name)
		}
	}
	return ready
}

// Asymmetry is a dependency edge recorded on only one side.
type Asymmetry struct {
	Module string // module holding the record
	Other  string // module the record points at
	// MissingDependent is true when Module lists Other as a dependency but
	// Other does not list Module as a dependent; false for the reverse.
	MissingDependent bool
}

func (a Asymmetry) String() string {
	if a.MissingDependent {
		return fmt.Sprintf("%s depends on %s, but %s does not list it as a dependent", a.Module, a.Other, a.Other)
	}
	return fmt.Sprintf("%s lists %s as a dependent, but %s does not depend on it", a.Module, a.Other, a.Other)
}

// Inconsistencies reports edges between tracked modules that appear in one
// module's Dependencies but not the other's Dependents, or the reverse. The
// two lists are maintained independently, so this is advisory only.
func (s *Store) Inconsistencies() []Asymmetry {
	var out []Asymmetry
	for _, name := range s.Names() {
		m := s.modules[name]
		for _, dep := range m.Dependencies {
			other, ok := s.modules[dep]
			if ok && !contains(other.Dependents, name) {
				out = append(out, Asymmetry{Module: name, Other: dep, MissingDependent: true})
			}
		}
		for _, dependent := range m.Dependents {
			other, ok := s.modules[dependent]
			if ok && !contains(other.Dependencies, name) {
				out = append(out, Asymmetry{Module: name, Other: dependent})
			}
		}
	}
	return out
}

// Untracked returns, sorted and distinct, dependency names that no tracked
// module answers to.
func (s *Store) Untracked() []string {
	seen := make(map[string]bool)
	for _, m := range s.modules {
		for _, dep := range m.Dependencies {
			if _, ok := s.modules[dep]; !ok {
				seen[dep] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
