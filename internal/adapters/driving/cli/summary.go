package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

var (
	accent  = lipgloss.Color("#7C3AED")
	muted   = lipgloss.Color("#6C7086")
	warning = lipgloss.Color("#F9E2AF")

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle   = lipgloss.NewStyle().Foreground(muted).Width(12)
	warningStyle = lipgloss.NewStyle().Foreground(warning)
)

// maxListedDiagnostics caps the diagnostics shown below the summary.
const maxListedDiagnostics = 10

// renderSummary formats a report as a bordered box followed by the first
// diagnostics.
func renderSummary(r *domain.TransformReport) string {
	rows := []struct {
		label string
		value int
	}{
		{"Packages", r.Packages},
		{"Classes", r.Classes},
		{"Enums", r.Enums},
		{"Properties", r.Properties},
		{"Individuals", r.Individuals},
		{"Statements", r.Statements},
		{"Proxies", r.Proxies},
		{"Triples", r.Triples},
	}

	lines := []string{titleStyle.Render("Transformation complete")}
	for _, row := range rows {
		lines = append(lines, labelStyle.Render(row.label)+fmt.Sprintf("%d", row.value))
	}
	if r.Output != "" {
		lines = append(lines, labelStyle.Render("Output")+r.Output)
	}
	if r.Format != "" {
		lines = append(lines, labelStyle.Render("Format")+r.Format.String())
	}
	lines = append(lines, labelStyle.Render("Duration")+r.Duration.Round(time.Millisecond).String())

	var b strings.Builder
	b.WriteString(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	b.WriteString("\n")

	if n := len(r.Diagnostics); n > 0 {
		b.WriteString(warningStyle.Render(fmt.Sprintf("%d diagnostic(s):", n)))
		b.WriteString("\n")
		for i, d := range r.Diagnostics {
			if i == maxListedDiagnostics {
				fmt.Fprintf(&b, "  ... and %d more\n", n-maxListedDiagnostics)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", d)
		}
	}
	return b.String()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
