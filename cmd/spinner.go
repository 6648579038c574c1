package cmd

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

// logOutput is where the logger writes; the spinner redirects it above
// the animation while a job runs
var logOutput = &switchWriter{target: os.Stderr}

type jobDoneMsg struct{ err error }

type spinnerModel struct {
	spinner spinner.Model
	label   string
	done    bool
	err     error
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.StylePrimary
	return spinnerModel{spinner: s, label: label}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case jobDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// programWriter prints whole log lines above the running program
type programWriter struct {
	p *tea.Program
}

func (w programWriter) Write(b []byte) (int, error) {
	w.p.Println(strings.TrimRight(string(b), "\n"))
	return len(b), nil
}

// runWithSpinner runs fn while animating label on stderr. Without a
// terminal fn runs plainly.
func runWithSpinner(label string, fn func() error) error {
	if !isTerminal(os.Stderr) {
		return fn()
	}

	p := tea.NewProgram(newSpinnerModel(label),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	prev := logOutput.swap(programWriter{p: p})
	defer logOutput.swap(prev)

	go func() {
		p.Send(jobDoneMsg{err: fn()})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	return final.(spinnerModel).err
}
