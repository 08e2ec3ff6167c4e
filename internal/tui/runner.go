package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/pgetl/internal/logging"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// Task is work shown behind a spinner. It logs through the logger it is
// given and returns a one-line result for the final status line.
type Task func(ctx context.Context, logger pgetl.Logger) (string, error)

// RunTask runs task behind a spinner on stderr when the terminal is
// interactive, and with plain console logging otherwise.
func RunTask(ctx context.Context, message string, verbose bool, task Task) error {
	if !IsInteractive() {
		return runPlain(ctx, os.Stderr, message, verbose, task)
	}
	return runSpinner(ctx, message, verbose, task)
}

// RunPlainTask runs task with plain console logging on stderr. Use it for
// work that reads from the terminal itself, such as an approval prompt.
func RunPlainTask(ctx context.Context, message string, verbose bool, task Task) error {
	return runPlain(ctx, os.Stderr, message, verbose, task)
}

func runPlain(ctx context.Context, w io.Writer, message string, verbose bool, task Task) error {
	fmt.Fprintln(w, message)
	result, err := task(ctx, logging.NewWriterLogger(w, verbose))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", SymbolCheck, result)
	return nil
}

func runSpinner(ctx context.Context, message string, verbose bool, task Task) error {
	logger := &programLogger{verbose: verbose}
	model := newSpinnerModel(ctx, message, func(ctx context.Context) (string, error) {
		return task(ctx, logger)
	})

	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	logger.attach(p)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("progress display: %w", err)
	}
	return final.(spinnerModel).err
}

// programLogger hands log lines to a running program, which prints them
// above the spinner line. Lines sent after the program exits are dropped.
type programLogger struct {
	mu      sync.Mutex
	program *tea.Program
	verbose bool
}

func (l *programLogger) attach(p *tea.Program) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.program = p
}

func (l *programLogger) println(line string) {
	l.mu.Lock()
	p := l.program
	l.mu.Unlock()
	if p != nil {
		p.Send(logLineMsg(line))
	}
}

func (l *programLogger) Verbose(format string, args ...interface{}) {
	if l.verbose {
		l.println(MutedStyle.Render("[VERBOSE] " + fmt.Sprintf(format, args...)))
	}
}

func (l *programLogger) Info(format string, args ...interface{}) {
	l.println(fmt.Sprintf(format, args...))
}

func (l *programLogger) Error(format string, args ...interface{}) {
	l.println(ErrorStyle.Render("[ERROR] " + fmt.Sprintf(format, args...)))
}

var _ pgetl.Logger = (*programLogger)(nil)
