package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/deeklead/adf/internal/migration"
)

// CSVHeader is the first row of a CSV export.
var CSVHeader = []string{
	"Module", "Status", "Dependencies", "Dependents",
	"Migration Date", "Blocking Issues", "Notes",
}

// WriteCSV exports every module, sorted by name, one row each.
func WriteCSV(w io.Writer, s *migration.Store) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, m := range s.Snapshot() {
		date := ""
		if m.MigrationDate != nil {
			date = m.MigrationDate.String()
		}
		row := []string{
			m.Name,
			m.Status.String(),
			strings.Join(m.Dependencies, ", "),
			strings.Join(m.Dependents, ", "),
			date,
			strings.Join(m.BlockingIssues, ", "),
			m.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", m.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
