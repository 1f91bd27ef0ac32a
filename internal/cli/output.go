package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	addStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	delStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// printer writes user-facing output.
type printer struct {
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

func newPrinter(out, errOut io.Writer, noColor, quiet bool) *printer {
	return &printer{
		out:   out,
		err:   errOut,
		color: !noColor && isTerminal(out),
		quiet: quiet,
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// printInfo prints an informational message
func (p *printer) printInfo(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, msg)
}

// printSuccess prints a success message
func (p *printer) printSuccess(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.style(successStyle, "✓"), msg)
}

// printWarning prints a warning message
func (p *printer) printWarning(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.style(warningStyle, "⚠"), msg)
}

// printError prints an error message. It is never suppressed.
func (p *printer) printError(msg string) {
	fmt.Fprintf(p.err, "%s %s\n", p.style(errorStyle, "✗"), msg)
}

// printHeader prints a section header
func (p *printer) printHeader(title string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", p.style(headerStyle, "=== "+title+" ==="))
}

// printDiff prints a unified diff, colouring added, removed, and hunk lines.
func (p *printer) printDiff(diff string) {
	if p.quiet || diff == "" {
		return
	}
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			text = p.style(mutedStyle, text)
		case strings.HasPrefix(text, "@@"):
			text = p.style(hunkStyle, text)
		case strings.HasPrefix(text, "+"):
			text = p.style(addStyle, text)
		case strings.HasPrefix(text, "-"):
			text = p.style(delStyle, text)
		}
		fmt.Fprintln(p.out, text)
	}
}
