// Package doctor runs health checks against an adf workspace.
package doctor

import (
	"errors"

	"github.com/deeklead/adf/internal/config"
	"github.com/deeklead/adf/internal/migration"
)

// ErrCannotFix is returned by Fix on checks that do not support fixing.
var ErrCannotFix = errors.New("check does not support automatic fixing")

// CheckStatus is the outcome of a check.
type CheckStatus int

const (
	StatusOK CheckStatus = iota
	StatusWarning
	StatusError
)

func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Check categories, in report order.
const (
	CategoryCore   = "Core"
	CategoryConfig = "Configuration"
	CategoryGraph  = "Dependency graph"
)

// CheckContext carries the workspace under inspection.
type CheckContext struct {
	Root    string
	Config  *config.Config
	Verbose bool

	store    *migration.Store
	storeErr error
	loaded   bool
}

// Store loads the snapshot strictly, without falling back to defaults.
// The result is cached until Reset.
func (ctx *CheckContext) Store() (*migration.Store, error) {
	if !ctx.loaded {
		s := migration.NewStore()
		if err := s.LoadFile(ctx.Config.Snapshot); err != nil {
			ctx.storeErr = err
		} else {
			ctx.store = s
		}
		ctx.loaded = true
	}
	return ctx.store, ctx.storeErr
}

// Reset drops the cached snapshot so the next Store call reloads it.
func (ctx *CheckContext) Reset() {
	ctx.store, ctx.storeErr, ctx.loaded = nil, nil, false
}

// CheckResult is the outcome of one check run.
type CheckResult struct {
	Name     string
	Category string
	Status   CheckStatus
	Message  string
	Details  []string
	FixHint  string
	Fixed    bool
}

// Check is a single health check.
type Check interface {
	Name() string
	Description() string
	Category() string
	Run(ctx *CheckContext) *CheckResult
	CanFix() bool
	Fix(ctx *CheckContext) error
}

// BaseCheck provides the identity methods of a check that cannot fix.
type BaseCheck struct {
	CheckName        string
	CheckDescription string
	CheckCategory    string
}

func (b *BaseCheck) Name() string        { return b.CheckName }
func (b *BaseCheck) Description() string { return b.CheckDescription }
func (b *BaseCheck) Category() string    { return b.CheckCategory }
func (b *BaseCheck) CanFix() bool        { return false }

func (b *BaseCheck) Fix(*CheckContext) error { return ErrCannotFix }

// FixableCheck is a BaseCheck whose embedding type implements Fix.
type FixableCheck struct {
	BaseCheck
}

func (f *FixableCheck) CanFix() bool { return true }
