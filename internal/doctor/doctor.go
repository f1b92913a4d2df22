package doctor

import (
	"fmt"
	"io"

	"github.com/deeklead/adf/internal/style"
)

// Doctor runs registered checks in registration order.
type Doctor struct {
	checks []Check
}

// NewDoctor creates a Doctor with no checks.
func NewDoctor() *Doctor {
	return &Doctor{}
}

// Register adds a check.
func (d *Doctor) Register(c Check) {
	d.checks = append(d.checks, c)
}

// RegisterAll adds checks in order.
func (d *Doctor) RegisterAll(checks ...Check) {
	d.checks = append(d.checks, checks...)
}

// Checks returns the registered checks.
func (d *Doctor) Checks() []Check {
	return d.checks
}

// Run executes every check.
func (d *Doctor) Run(ctx *CheckContext) *Report {
	r := &Report{}
	for _, c := range d.checks {
		r.add(run(c, ctx))
	}
	return r
}

// Fix executes every check and attempts a fix for each fixable failure,
// re-running the check afterwards to report the outcome.
func (d *Doctor) Fix(ctx *CheckContext) *Report {
	r := &Report{}
	for _, c := range d.checks {
		res := run(c, ctx)
		if res.Status != StatusOK && c.CanFix() {
			if err := c.Fix(ctx); err != nil {
				res.Details = append(res.Details, fmt.Sprintf("Fix failed: %v", err))
			} else {
				ctx.Reset()
				res = run(c, ctx)
				res.Fixed = res.Status == StatusOK
			}
		}
		r.add(res)
	}
	return r
}

func run(c Check, ctx *CheckContext) *CheckResult {
	res := c.Run(ctx)
	if res.Name == "" {
		res.Name = c.Name()
	}
	res.Category = c.Category()
	return res
}

// Summary counts results by status.
type Summary struct {
	Total    int
	OK       int
	Warnings int
	Errors   int
	Fixed    int
}

// Report collects check results.
type Report struct {
	Checks  []*CheckResult
	Summary Summary
}

func (r *Report) add(res *CheckResult) {
	r.Checks = append(r.Checks, res)
	r.Summary.Total++
	switch res.Status {
	case StatusOK:
		r.Summary.OK++
	case StatusWarning:
		r.Summary.Warnings++
	case StatusError:
		r.Summary.Errors++
	}
	if res.Fixed {
		r.Summary.Fixed++
	}
}

// HasErrors reports whether any check failed.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings reports whether any check warned.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

// Print writes the report grouped by category. Details are shown for
// failing checks, and for passing ones too when verbose.
func (r *Report) Print(w io.Writer, verbose bool) {
	category := ""
	for _, res := range r.Checks {
		if res.Category != category {
			category = res.Category
			fmt.Fprintf(w, "\n%s\n", style.Bold.Render(category))
		}

		prefix := style.SuccessPrefix
		switch res.Status {
		case StatusWarning:
			prefix = style.WarningPrefix
		case StatusError:
			prefix = style.ErrorPrefix
		}
		line := fmt.Sprintf("  %s %s: %s", prefix, res.Name, res.Message)
		if res.Fixed {
			line += style.Dim.Render(" (fixed)")
		}
		fmt.Fprintln(w, line)

		if res.Status != StatusOK || verbose {
			for _, d := range res.Details {
				fmt.Fprintf(w, "      %s\n", style.Dim.Render(d))
			}
		}
		if res.Status != StatusOK && res.FixHint != "" {
			fmt.Fprintf(w, "      %s %s\n", style.ArrowPrefix, res.FixHint)
		}
	}

	fmt.Fprintf(w, "\n%d checks: %d passed, %d warnings, %d errors",
		r.Summary.Total, r.Summary.OK, r.Summary.Warnings, r.Summary.Errors)
	if r.Summary.Fixed > 0 {
		fmt.Fprintf(w, ", %d fixed", r.Summary.Fixed)
	}
	fmt.Fprintln(w)
}
