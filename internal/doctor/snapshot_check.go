package doctor

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/deeklead/adf/internal/migration"
)

// SnapshotCheck verifies the fact store snapshot exists and decodes.
type SnapshotCheck struct {
	FixableCheck
	now func() time.Time
}

// NewSnapshotCheck creates a new snapshot check.
func NewSnapshotCheck() *SnapshotCheck {
	return &SnapshotCheck{
		FixableCheck: FixableCheck{
			BaseCheck: BaseCheck{
				CheckName:        "snapshot-valid",
				CheckDescription: "Check the migration status snapshot exists and decodes",
				CheckCategory:    CategoryCore,
			},
		},
		now: time.Now,
	}
}

// Run loads the snapshot strictly.
func (c *SnapshotCheck) Run(ctx *CheckContext) *CheckResult {
	s, err := ctx.Store()
	switch {
	case err == nil:
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusOK,
			Message: fmt.Sprintf("%d modules tracked", s.Len()),
		}
	case errors.Is(err, os.ErrNotExist):
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: "No snapshot yet; defaults will be used",
			Details: []string{ctx.Config.Snapshot},
			FixHint: "Run 'adf doctor --fix' to write the default modules",
		}
	case errors.Is(err, migration.ErrCorruptData):
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: "Snapshot is corrupt; commands will fall back to defaults",
			Details: []string{err.Error()},
			FixHint: "Run 'adf doctor --fix' to move it aside and write the default modules",
		}
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusError,
		Message: "Snapshot could not be read",
		Details: []string{err.Error()},
	}
}

// Fix writes the default modules. A corrupt snapshot is renamed to
// <snapshot>.corrupt first so nothing is lost.
func (c *SnapshotCheck) Fix(ctx *CheckContext) error {
	path := ctx.Config.Snapshot
	if _, err := ctx.Store(); errors.Is(err, migration.ErrCorruptData) {
		if err := os.Rename(path, path+".corrupt"); err != nil {
			return fmt.Errorf("moving corrupt snapshot aside: %w", err)
		}
	}

	s := migration.NewStore()
	s.Replace(migration.DefaultModules(c.now()))
	if err := s.SaveFile(path); err != nil {
		return fmt.Errorf("writing default snapshot: %w", err)
	}
	return nil
}
