package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/structscan/structscan/pkg/logger"
)

// -----
// Model
// -----

// Model represents the progress indicator model
type Model struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

// UpdateMsg updates the progress message
type UpdateMsg struct {
	Message string
}

// DoneMsg signals completion
type DoneMsg struct {
	Error error
}

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// New creates a new progress indicator model
func New(message string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return Model{
		spinner: s,
		message: message,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case UpdateMsg:
		m.message = msg.Message
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Error
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.done {
		if m.err != nil {
			return errorStyle.Render("✗ ") + textStyle.Render(m.message) +
				errorStyle.Render(fmt.Sprintf(" - Error: %v", m.err))
		}
		return successStyle.Render("✓ ") + textStyle.Render(m.message)
	}
	return m.spinner.View() + " " + textStyle.Render(m.message)
}

// -----
// Runner
// -----

// Runner drives the spinner around a unit of work. Output goes to stderr so
// stdout stays clean for the exported document.
type Runner struct {
	program *tea.Program
}

// NewRunner creates a new progress runner
func NewRunner(message string) *Runner {
	model := New(message)
	return &Runner{
		program: tea.NewProgram(&model, tea.WithOutput(os.Stderr)),
	}
}

// Start starts the progress indicator
func (r *Runner) Start() {
	go func() {
		if _, err := r.program.Run(); err != nil {
			logger.Error("error running progress", "error", err)
		}
	}()
	// Give the UI time to start
	time.Sleep(50 * time.Millisecond)
}

// Update updates the progress message
func (r *Runner) Update(message string) {
	r.program.Send(UpdateMsg{Message: message})
}

// Done signals completion
func (r *Runner) Done(err error) {
	r.program.Send(DoneMsg{Error: err})
	// Give the UI time to render the final state
	time.Sleep(50 * time.Millisecond)
}

// -----
// Helpers
// -----

// IsInteractive reports whether stderr is attached to a terminal. Without
// one, the spinner degrades to plain log lines for CI and pipelines.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// WithProgress runs a function with a progress indicator when attached to a
// terminal, or with plain start/finish log lines otherwise.
func WithProgress(message string, fn func() error) error {
	if !IsInteractive() {
		logger.Info(message)
		err := fn()
		if err != nil {
			logger.Error(message+" failed", "error", err)
		}
		return err
	}

	runner := NewRunner(message)
	runner.Start()
	err := fn()
	runner.Done(err)
	return err
}
