package doctor

import (
	"fmt"

	"github.com/deeklead/adf/internal/deps"
)

// QueryToolCheck verifies the build graph query tool is installed. Only
// validation against the build graph needs it, so problems are warnings.
type QueryToolCheck struct {
	BaseCheck
	check func(binary string) (deps.ToolStatus, string)
}

// NewQueryToolCheck creates a new query tool check.
func NewQueryToolCheck() *QueryToolCheck {
	return NewQueryToolCheckWith(deps.CheckTool)
}

// NewQueryToolCheckWith creates a check with a custom tool probe (for testing).
func NewQueryToolCheckWith(check func(binary string) (deps.ToolStatus, string)) *QueryToolCheck {
	return &QueryToolCheck{
		BaseCheck: BaseCheck{
			CheckName:        "query-tool",
			CheckDescription: "Check the build graph query tool is installed",
			CheckCategory:    CategoryConfig,
		},
		check: check,
	}
}

// Run probes the configured query binary.
func (c *QueryToolCheck) Run(ctx *CheckContext) *CheckResult {
	binary := ctx.Config.QueryBinary
	status, version := c.check(binary)
	switch status {
	case deps.ToolOK:
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusOK,
			Message: fmt.Sprintf("%s drives Bazel %s", binary, version),
		}
	case deps.ToolTooOld:
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("Bazel %s is older than %s", version, deps.MinBazelVersion),
			FixHint: "Upgrade Bazel or pin a newer version in .bazelversion",
		}
	case deps.ToolNotFound:
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: binary + " not found; 'adf validate' needs it",
			FixHint: "Install with: go install " + deps.BazeliskInstallPath,
		}
	case deps.ToolUnknown:
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: binary + " found, version unknown",
	}
}
