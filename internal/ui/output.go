package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Printer writes styled lines to a single destination.
type Printer struct {
	w        io.Writer
	success  lipgloss.Style
	failure  lipgloss.Style
	warning  lipgloss.Style
	step     lipgloss.Style
	accent   lipgloss.Style
	emphasis lipgloss.Style
}

// New returns a Printer for w. Color support is detected from w itself.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:        w,
		success:  r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		failure:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warning:  r.NewStyle().Foreground(lipgloss.Color("3")),
		step:     r.NewStyle().Foreground(lipgloss.Color("240")),
		accent:   r.NewStyle().Foreground(lipgloss.Color("6")),
		emphasis: r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Log prints an unstyled line. Log("") prints a blank line.
func (p *Printer) Log(msg string) {
	fmt.Fprintln(p.w, msg)
}

// Logf prints an unstyled formatted line.
func (p *Printer) Logf(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Success prints a completed-operation line.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.w, p.success.Render("✔")+"  "+msg)
}

// Error prints a failure line.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.w, p.failure.Render(" ERROR ")+" "+msg)
}

// Warn prints a warning line.
func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.w, p.warning.Render(" WARN ")+" "+msg)
}

// Step prints an indented, dimmed line.
func (p *Printer) Step(msg string) {
	fmt.Fprintln(p.w, p.step.Render("   "+msg))
}

// List prints each entry indented and highlighted, one per line.
func (p *Printer) List(entries []string) {
	style := p.failure.UnsetBold()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, "     "+style.Render(e))
	}
	fmt.Fprintln(p.w, strings.Join(lines, "\n"))
}

// Accent renders s in the accent color, for inline identifiers.
func (p *Printer) Accent(s string) string {
	return p.accent.Render(s)
}

// Emphasis renders s in the emphasis color, for inline paths and values.
func (p *Printer) Emphasis(s string) string {
	return p.emphasis.Render(s)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
