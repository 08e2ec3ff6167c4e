package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

func update(t *testing.T, m spinnerModel, msg tea.Msg) (spinnerModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(spinnerModel)
	require.True(t, ok)
	return sm, cmd
}

func TestSpinnerModel_TaskSuccess(t *testing.T) {
	m := newSpinnerModel(context.Background(), "Loading patients.csv", func(context.Context) (string, error) {
		return "loaded 3 rows", nil
	})
	assert.Contains(t, m.View(), "Loading patients.csv")
	assert.Contains(t, m.View(), "ctrl+c cancel")

	msg := m.runTask()
	m, cmd := update(t, m, msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.done)
	assert.Contains(t, m.View(), "loaded 3 rows")
}

func TestSpinnerModel_TaskFailure(t *testing.T) {
	m := newSpinnerModel(context.Background(), "Loading", func(context.Context) (string, error) {
		return "", errors.New("connection refused")
	})

	m, _ = update(t, m, m.runTask())
	assert.EqualError(t, m.err, "connection refused")
	assert.Contains(t, m.View(), "connection refused")
}

func TestSpinnerModel_CancelKeyCancelsTask(t *testing.T) {
	var taskCtx context.Context
	m := newSpinnerModel(context.Background(), "Loading", func(ctx context.Context) (string, error) {
		taskCtx = ctx
		<-ctx.Done()
		return "", ctx.Err()
	})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	assert.True(t, m.cancelling)
	assert.Contains(t, m.View(), "Cancelling")

	m, _ = update(t, m, m.runTask())
	require.NotNil(t, taskCtx)
	assert.ErrorIs(t, m.err, context.Canceled)
}

func TestSpinnerModel_OtherKeysIgnored(t *testing.T) {
	m := newSpinnerModel(context.Background(), "Loading", nil)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.False(t, m.cancelling)
	assert.NoError(t, m.ctx.Err())
}

func TestSpinnerModel_LogLine(t *testing.T) {
	m := newSpinnerModel(context.Background(), "Loading", nil)
	_, cmd := update(t, m, logLineMsg("Skipping a.csv"))
	assert.NotNil(t, cmd)
}

func TestSpinnerModel_Tick(t *testing.T) {
	m := newSpinnerModel(context.Background(), "Loading", nil)
	before := m.spinner.View()
	m, cmd := update(t, m, m.spinner.Tick())
	assert.NotNil(t, cmd)
	assert.NotEqual(t, before, m.spinner.View())
}

func TestRunPlain(t *testing.T) {
	var out strings.Builder
	err := runPlain(context.Background(), &out, "Loading data", false, func(_ context.Context, logger pgetl.Logger) (string, error) {
		logger.Info("Reading %s", "a.csv")
		logger.Verbose("hidden")
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Loading data\nReading a.csv\n"+SymbolCheck+" done\n", out.String())
}

func TestRunPlain_Error(t *testing.T) {
	var out strings.Builder
	err := runPlain(context.Background(), &out, "Loading", true, func(context.Context, pgetl.Logger) (string, error) {
		return "", errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.NotContains(t, out.String(), SymbolCheck)
}

func TestProgramLogger_DropsLinesWithoutProgram(t *testing.T) {
	l := &programLogger{verbose: true}
	assert.NotPanics(t, func() {
		l.Info("a")
		l.Verbose("b")
		l.Error("c")
	})
}
