package migration

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// record is the on-disk shape of one module, keyed by name in the snapshot
// object. Pointer fields distinguish a missing key from an empty value.
type record struct {
	Status         *Status   `json:"status"`
	Dependencies   *[]string `json:"dependencies"`
	Dependents     *[]string `json:"dependents"`
	MigrationDate  *Date     `json:"migration_date"`
	BlockingIssues []string  `json:"blocking_issues"`
	Notes          string    `json:"notes"`
}

// Load replaces the store's content with the snapshot read from r. If the
// snapshot cannot be parsed the store is left unchanged and the returned
// error wraps ErrCorruptData.
func (s *Store) Load(r io.Reader) error {
	var raw map[string]record
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	snap := make(Snapshot, 0, len(raw))
	for name, rec := range raw {
		m, err := rec.module(name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptData, err)
		}
		snap = append(snap, m)
	}
	s.Replace(snap)
	return nil
}

func (r record) module(name string) (Module, error) {
	switch {
	case r.Status == nil:
		return Module{}, fmt.Errorf("module %s: missing status", name)
	case r.Dependencies == nil:
		return Module{}, fmt.Errorf("module %s: missing dependencies", name)
	case r.Dependents == nil:
		return Module{}, fmt.Errorf("module %s: missing dependents", name)
	}
	return Module{
		Name:           name,
		Status:         *r.Status,
		Dependencies:   *r.Dependencies,
		Dependents:     *r.Dependents,
		MigrationDate:  r.MigrationDate,
		BlockingIssues: r.BlockingIssues,
		Notes:          r.Notes,
	}, nil
}

// LoadFile loads the snapshot stored at path.
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from workspace config
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()
	return s.Load(f)
}

// Open builds a store from the snapshot at path. A missing or corrupt
// snapshot is not fatal: the store falls back to defaults and the problem
// is logged. Other I/O errors are returned.
func Open(path string, defaults []Module, opts ...Option) (*Store, error) {
	s := NewStore(opts...)
	err := s.LoadFile(path)
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, os.ErrNotExist):
		s.logger.Printf("No snapshot at %s, starting from %d default modules", path, len(defaults))
	case errors.Is(err, ErrCorruptData):
		s.logger.Printf("Warning: %v; falling back to %d default modules", err, len(defaults))
	default:
		return nil, err
	}
	s.Replace(defaults)
	return s, nil
}

// Save writes the store as an indented JSON object keyed by module name.
func (s *Store) Save(w io.Writer) error {
	out := make(map[string]record, len(s.modules))
	for _, m := range s.Snapshot() {
		status, deps, dependents := m.Status, m.Dependencies, m.Dependents
		out[m.Name] = record{
			Status:         &status,
			Dependencies:   &deps,
			Dependents:     &dependents,
			MigrationDate:  m.MigrationDate,
			BlockingIssues: m.BlockingIssues,
			Notes:          m.Notes,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// SaveFile writes the snapshot to path. The data goes to a temporary file
// in the same directory first and is renamed into place, so readers never
// observe a half-written snapshot.
func (s *Store) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }() // no-op after a successful rename

	if err := s.Save(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting snapshot permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
