package doctor

import (
	"fmt"
	"strings"

	"github.com/deeklead/adf/internal/order"
)

// DependentsConsistencyCheck reports dependency edges recorded on only one
// side. The two lists are maintained independently, so this only warns.
type DependentsConsistencyCheck struct {
	BaseCheck
}

// NewDependentsConsistencyCheck creates a new consistency check.
func NewDependentsConsistencyCheck() *DependentsConsistencyCheck {
	return &DependentsConsistencyCheck{
		BaseCheck: BaseCheck{
			CheckName:        "dependents-consistency",
			CheckDescription: "Check dependencies and dependents lists agree",
			CheckCategory:    CategoryGraph,
		},
	}
}

// Run compares both sides of every edge between tracked modules.
func (c *DependentsConsistencyCheck) Run(ctx *CheckContext) *CheckResult {
	s, err := ctx.Store()
	if err != nil {
		return noSnapshot(c.Name())
	}

	asym := s.Inconsistencies()
	if len(asym) == 0 {
		return &CheckResult{Name: c.Name(), Status: StatusOK, Message: "Dependencies and dependents agree"}
	}
	details := make([]string, len(asym))
	for i, a := range asym {
		details[i] = a.String()
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusWarning,
		Message: fmt.Sprintf("%d one-sided edge(s)", len(asym)),
		Details: details,
		FixHint: "Edit the snapshot so both modules record the edge",
	}
}

// CyclesCheck reports dependency cycles. The orderer tolerates them, but
// a cycle means no order can satisfy every dependency.
type CyclesCheck struct {
	BaseCheck
}

// NewCyclesCheck creates a new cycle check.
func NewCyclesCheck() *CyclesCheck {
	return &CyclesCheck{
		BaseCheck: BaseCheck{
			CheckName:        "dependency-cycles",
			CheckDescription: "Check tracked modules have no dependency cycles",
			CheckCategory:    CategoryGraph,
		},
	}
}

// Run searches the tracked dependency graph for cycles.
func (c *CyclesCheck) Run(ctx *CheckContext) *CheckResult {
	s, err := ctx.Store()
	if err != nil {
		return noSnapshot(c.Name())
	}

	cycles := order.Cycles(s)
	if len(cycles) == 0 {
		return &CheckResult{Name: c.Name(), Status: StatusOK, Message: "No cycles"}
	}
	details := make([]string, len(cycles))
	for i, cyc := range cycles {
		details[i] = strings.Join(cyc, " -> ") + " -> " + cyc[0]
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusWarning,
		Message: fmt.Sprintf("%d cycle(s); migration order is only partial", len(cycles)),
		Details: details,
		FixHint: "Break the cycle before migrating the modules on it",
	}
}

// UntrackedCheck reports dependencies on modules the store does not track.
type UntrackedCheck struct {
	BaseCheck
}

// NewUntrackedCheck creates a new untracked dependency check.
func NewUntrackedCheck() *UntrackedCheck {
	return &UntrackedCheck{
		BaseCheck: BaseCheck{
			CheckName:        "untracked-dependencies",
			CheckDescription: "Check every dependency is a tracked module",
			CheckCategory:    CategoryGraph,
		},
	}
}

// Run lists dependency names no tracked module answers to.
func (c *UntrackedCheck) Run(ctx *CheckContext) *CheckResult {
	s, err := ctx.Store()
	if err != nil {
		return noSnapshot(c.Name())
	}

	untracked := s.Untracked()
	if len(untracked) == 0 {
		return &CheckResult{Name: c.Name(), Status: StatusOK, Message: "All dependencies are tracked"}
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusWarning,
		Message: fmt.Sprintf("%d untracked dependenc(ies) treated as satisfied", len(untracked)),
		Details: untracked,
		FixHint: "Run 'adf sync MODULE' or add the modules to the snapshot",
	}
}

func noSnapshot(name string) *CheckResult {
	return &CheckResult{
		Name:    name,
		Status:  StatusOK,
		Message: "Skipped, no readable snapshot",
	}
}
