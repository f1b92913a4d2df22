package doctor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deeklead/adf/internal/config"
	"github.com/deeklead/adf/internal/rules"
)

// WorkspaceChecks returns the checks every workspace gets, in order.
func WorkspaceChecks() []Check {
	return []Check{
		NewConfigCheck(),
		NewRulesCheck(),
		NewStateDirCheck(),
		NewSnapshotCheck(),
		NewQueryToolCheck(),
		NewDependentsConsistencyCheck(),
		NewCyclesCheck(),
		NewUntrackedCheck(),
	}
}

// ConfigCheck verifies adf.toml parses and validates.
type ConfigCheck struct {
	BaseCheck
}

// NewConfigCheck creates a new config check.
func NewConfigCheck() *ConfigCheck {
	return &ConfigCheck{
		BaseCheck: BaseCheck{
			CheckName:        "config-valid",
			CheckDescription: "Check adf.toml is valid",
			CheckCategory:    CategoryCore,
		},
	}
}

// Run loads adf.toml on its own, without environment overrides.
func (c *ConfigCheck) Run(ctx *CheckContext) *CheckResult {
	path := filepath.Join(ctx.Root, config.FileName)
	_, err := config.Load(path)
	switch {
	case err == nil:
		return &CheckResult{Name: c.Name(), Status: StatusOK, Message: config.FileName + " is valid"}
	case errors.Is(err, config.ErrNotFound):
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusOK,
			Message: "No " + config.FileName + ", using defaults",
		}
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusError,
		Message: "Invalid " + config.FileName,
		Details: []string{err.Error()},
		FixHint: "Edit " + path,
	}
}

// RulesCheck verifies the rule table loads and that every module mapping
// lands in a package the rules know.
type RulesCheck struct {
	BaseCheck
}

// NewRulesCheck creates a new rules check.
func NewRulesCheck() *RulesCheck {
	return &RulesCheck{
		BaseCheck: BaseCheck{
			CheckName:        "rules-valid",
			CheckDescription: "Check the dependency rule table loads and covers every mapping",
			CheckCategory:    CategoryConfig,
		},
	}
}

// Run checks the configured rules.
func (c *RulesCheck) Run(ctx *CheckContext) *CheckResult {
	rs, err := ctx.Config.Rules()
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: "Rules file could not be loaded",
			Details: []string{err.Error()},
			FixHint: "Fix or remove rules_file in " + config.FileName,
		}
	}

	var unmapped []string
	for _, module := range rs.MappedModules() {
		path, _ := rs.Mapping(module)
		if pkg := rules.TopLevel(path); !rs.Known(pkg) {
			unmapped = append(unmapped, fmt.Sprintf("%s maps to %s, which has no rules", module, path))
		}
	}
	if len(unmapped) > 0 {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("%d mapping(s) point at packages without rules", len(unmapped)),
			Details: unmapped,
			FixHint: "Add the packages to the rules file or correct the [mappings] table",
		}
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("%d packages with rules", len(rs.Packages())),
	}
}

// StateDirCheck verifies the log directory exists.
type StateDirCheck struct {
	FixableCheck
}

// NewStateDirCheck creates a new state directory check.
func NewStateDirCheck() *StateDirCheck {
	return &StateDirCheck{
		FixableCheck: FixableCheck{
			BaseCheck: BaseCheck{
				CheckName:        "state-dir",
				CheckDescription: "Check the log and events directory exists",
				CheckCategory:    CategoryCore,
			},
		},
	}
}

// Run checks the configured log directory.
func (c *StateDirCheck) Run(ctx *CheckContext) *CheckResult {
	info, err := os.Stat(ctx.Config.LogDir)
	if err == nil && info.IsDir() {
		return &CheckResult{Name: c.Name(), Status: StatusOK, Message: ctx.Config.LogDir + " exists"}
	}
	if err == nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: ctx.Config.LogDir + " is not a directory",
			FixHint: "Remove the file or set log_dir in " + config.FileName,
		}
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusWarning,
		Message: ctx.Config.LogDir + " does not exist",
		FixHint: "Run 'adf doctor --fix' to create it",
	}
}

// Fix creates the log directory.
func (c *StateDirCheck) Fix(ctx *CheckContext) error {
	if err := os.MkdirAll(ctx.Config.LogDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", ctx.Config.LogDir, err)
	}
	return nil
}
