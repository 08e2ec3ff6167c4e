package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// taskDoneMsg carries the outcome of the task a spinnerModel is waiting on.
type taskDoneMsg struct {
	result string
	err    error
}

// logLineMsg is a log line to print above the spinner.
type logLineMsg string

// spinnerModel shows a spinner next to message until its task finishes.
// The cancel key cancels the task's context; the model keeps spinning
// until the task returns.
type spinnerModel struct {
	spinner    spinner.Model
	message    string
	keys       KeyMap
	task       func(context.Context) (string, error)
	ctx        context.Context
	cancel     context.CancelFunc
	cancelling bool
	done       bool
	result     string
	err        error
}

func newSpinnerModel(ctx context.Context, message string, task func(context.Context) (string, error)) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ctx, cancel := context.WithCancel(ctx)
	return spinnerModel{
		spinner: s,
		message: message,
		keys:    DefaultKeyMap(),
		task:    task,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (m spinnerModel) runTask() tea.Msg {
	result, err := m.task(m.ctx)
	return taskDoneMsg{result: result, err: err}
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runTask)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		m.cancel()
		return m, tea.Quit
	case logLineMsg:
		return m, tea.Println(string(msg))
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Cancel) && !m.cancelling {
			m.cancelling = true
			m.message = "Cancelling..."
			m.cancel()
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return ErrorStyle.Render(SymbolCross+" "+m.err.Error()) + "\n"
		}
		return SuccessStyle.Render(SymbolCheck+" "+m.result) + "\n"
	}
	return m.spinner.View() + " " + MessageStyle.Render(m.message) + "  " + MutedStyle.Render(m.keys.HelpText()) + "\n"
}
