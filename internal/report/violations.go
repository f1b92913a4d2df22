package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/deeklead/adf/internal/style"
	"github.com/deeklead/adf/internal/validate"
)

// Violations explains each rule violation and ends with a one-line verdict.
func Violations(w io.Writer, res validate.Result) error {
	var b strings.Builder
	if res.Valid() {
		fmt.Fprintf(&b, "%s All dependencies conform to Alpha Dot Five structure.\n", style.SuccessPrefix)
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, v := range res.Violations {
		fmt.Fprintf(&b, "%s %s %s depends on %s\n", style.ErrorPrefix,
			style.Error.Render("INVALID DEPENDENCY:"), style.Bold.Render(v.Source), style.Bold.Render(v.Target))
		fmt.Fprintln(&b, "   This violates the Alpha Dot Five dependency rules.")
		if len(v.Allowed) == 0 {
			fmt.Fprintf(&b, "   %s has no allowed dependencies.\n", v.Source)
		} else {
			fmt.Fprintf(&b, "   Valid dependencies for %s are:\n", v.Source)
			for _, a := range v.Allowed {
				fmt.Fprintf(&b, "   - %s\n", a)
			}
		}
		fmt.Fprintln(&b)
	}
	noun := "dependencies"
	if len(res.Violations) == 1 {
		noun = "dependency"
	}
	fmt.Fprintf(&b, "%s Found %d invalid %s.\n", style.ErrorPrefix, len(res.Violations), noun)

	_, err := io.WriteString(w, b.String())
	return err
}
