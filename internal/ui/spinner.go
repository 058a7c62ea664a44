package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunWithSpinner runs fn while a spinner labelled with message is shown.
// On a non-terminal destination a single status line is printed instead.
// The error from fn is returned unchanged.
func (p *Printer) RunWithSpinner(ctx context.Context, icon, message string, fn func(ctx context.Context) error) error {
	if !IsTerminal(p.w) {
		p.Logf("%s  %s", icon, message)
		return fn(ctx)
	}

	prog := tea.NewProgram(newSpinnerModel(icon, message), tea.WithOutput(p.w), tea.WithInput(nil))
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		// Spinner failures never affect the wrapped step.
		_, _ = prog.Run()
	}()

	err := fn(ctx)
	prog.Send(spinnerDoneMsg{err: err})
	<-finished
	return err
}

type spinnerModel struct {
	spinner spinner.Model
	icon    string
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(icon, message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{
		spinner: s,
		icon:    icon,
		message: message,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("✖  %s\n", m.message)
		}
		return fmt.Sprintf("%s  %s\n", m.icon, m.message)
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.message)
}
