package screen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/adp"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/export"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/tradebot"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui"
)

type fakeRunner struct {
	out   tradebot.Output
	err   error
	calls []tradebot.Request
}

func (f *fakeRunner) RunReport(_ context.Context, _ *adp.Matcher, req tradebot.Request) (tradebot.Output, *tradebot.Report, error) {
	f.calls = append(f.calls, req)
	return f.out, &tradebot.Report{Request: req}, f.err
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInputScreen_SubmitNavigatesToResults(t *testing.T) {
	s := NewInputScreen(tradebot.Request{Username: "alice", LeagueID: "L1"})
	s.SetSize(100, 40)

	_, cmd := s.Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(ui.RouterMsg)
	require.True(t, ok)
	assert.Equal(t, ui.RouteResults, msg.To)
	assert.Equal(t, tradebot.Request{Username: "alice", LeagueID: "L1", MinGain: 5}, msg.Request)
}

func TestInputScreen_RequiresFields(t *testing.T) {
	s := NewInputScreen(tradebot.Request{})

	_, cmd := s.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(), "This field is required")
}

func TestInputScreen_TypingAndGainValidation(t *testing.T) {
	s := NewInputScreen(tradebot.Request{LeagueID: "L1"})

	for _, r := range "bob" {
		s.Update(keyMsg(string(r)))
	}
	s.Update(keyMsg("tab"))
	s.Update(keyMsg("tab"))
	assert.Equal(t, 2, s.form.FocusIndex())
	s.form.SetFieldValue(fieldMinGain, "lots")

	_, ok := s.Request()
	assert.False(t, ok)
	assert.Equal(t, "must be a number", s.form.Errors()[fieldMinGain])

	s.form.SetFieldValue(fieldMinGain, "12.5")
	req, ok := s.Request()
	require.True(t, ok)
	assert.Equal(t, tradebot.Request{Username: "bob", LeagueID: "L1", MinGain: 12.5}, req)
}

func newServices(t *testing.T, runner ui.Runner) *ui.Services {
	t.Helper()
	return &ui.Services{
		Runner:    runner,
		Exporter:  export.NewTradeExporter(zap.NewNop()),
		OutputDir: t.TempDir(),
		Logger:    zap.NewNop(),
	}
}

// deliverRun answers the in-flight run with the fake runner's result.
func deliverRun(t *testing.T, s *ResultsScreen, runner *fakeRunner) {
	t.Helper()
	out, rep, err := runner.RunReport(context.Background(), nil, s.request)
	s.Update(ui.RunFinishedMsg{Seq: s.seq, Output: out, Report: rep, Err: err})
}

func TestResultsScreen_RunLifecycle(t *testing.T) {
	runner := &fakeRunner{out: tradebot.Output{Rosters: "🏈 Team: Alice (u1)", Trades: "No trades found with the specified ADP gain."}}
	s := NewResultsScreen(newServices(t, runner), tradebot.Request{Username: "alice", LeagueID: "L1", MinGain: 5})
	s.SetSize(120, 40)

	require.NotNil(t, s.Init())
	assert.True(t, s.Running())
	assert.Contains(t, s.View(), "Fetching league data")

	// A stale result from an earlier run is ignored.
	s.Update(ui.RunFinishedMsg{Seq: s.seq - 1, Output: tradebot.Output{Rosters: "old"}})
	assert.True(t, s.Running())

	deliverRun(t, s, runner)
	assert.False(t, s.Running())
	assert.Equal(t, runner.out, s.Output())

	view := s.View()
	assert.Contains(t, view, rostersTitle)
	assert.Contains(t, view, tradesTitle)
	assert.Contains(t, view, "Team: Alice")

	assert.Equal(t, PanelRosters, s.Focus())
	s.Update(keyMsg("tab"))
	assert.Equal(t, PanelTrades, s.Focus())

	_, cmd := s.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	assert.True(t, s.Running())
}

func TestResultsScreen_Export(t *testing.T) {
	runner := &fakeRunner{out: tradebot.Output{Rosters: "rosters", Trades: "trades"}}
	services := newServices(t, runner)
	s := NewResultsScreen(services, tradebot.Request{Username: "alice", LeagueID: "L1"})
	s.Init()

	// Nothing to save while running.
	_, cmd := s.Update(keyMsg("e"))
	assert.Nil(t, cmd)

	deliverRun(t, s, runner)

	_, cmd = s.Update(keyMsg("e"))
	require.NotNil(t, cmd)
	done, ok := cmd().(ui.ExportFinishedMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Len(t, done.Paths, 2)

	s.Update(done)
	assert.Contains(t, s.Status(), "Saved 2 files")

	data, err := os.ReadFile(filepath.Join(services.OutputDir, export.TradesFile))
	require.NoError(t, err)
	assert.Equal(t, "trades", string(data))
}

func TestResultsScreen_ErrorOutput(t *testing.T) {
	runner := &fakeRunner{
		out: tradebot.Output{Rosters: "Error: boom", Trades: "Error: boom"},
		err: errors.New("boom"),
	}
	s := NewResultsScreen(newServices(t, runner), tradebot.Request{Username: "alice", LeagueID: "L1"})
	s.SetSize(80, 30)
	s.Init()
	deliverRun(t, s, runner)

	assert.EqualError(t, s.Err(), "boom")
	assert.Contains(t, s.View(), "Error: boom")
}
