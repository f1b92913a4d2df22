// Package style provides consistent terminal styling for adf output.
package style

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette (Ayu).
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	ColorPass   = lipgloss.AdaptiveColor{Light: "#6cbf43", Dark: "#aad94c"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#e59645", Dark: "#ffb454"}
	ColorFail   = lipgloss.AdaptiveColor{Light: "#e65050", Dark: "#f07178"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#8a9199", Dark: "#6c7380"}
)

var (
	Bold    = lipgloss.NewStyle().Bold(true)
	Dim     = lipgloss.NewStyle().Foreground(ColorMuted)
	Success = lipgloss.NewStyle().Foreground(ColorPass)
	Warning = lipgloss.NewStyle().Foreground(ColorWarn)
	Error   = lipgloss.NewStyle().Foreground(ColorFail)
	Info    = lipgloss.NewStyle().Foreground(ColorAccent)

	// Header frames report titles.
	Header = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
)

// Prefixes for single-line messages.
var (
	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✖")
	ArrowPrefix   = Dim.Render("→")
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of w, or fallback when w is not a
// terminal.
func Width(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// PrintWarning writes a warning line to stderr.
func PrintWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningPrefix, fmt.Sprintf(format, args...))
}
