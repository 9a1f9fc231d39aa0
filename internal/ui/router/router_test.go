package router

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/tradebot"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui"
)

type stubScreen struct {
	name    string
	width   int
	inits   int
	updates int
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(tea.Msg) (Screen, tea.Cmd) {
	s.updates++
	return s, nil
}

func (s *stubScreen) View() string { return s.name }
func (s *stubScreen) SetSize(w, _ int) { s.width = w }

func TestRouter_Navigation(t *testing.T) {
	root := &stubScreen{name: "input"}
	var built []tradebot.Request
	r := New(root, func(msg ui.RouterMsg) Screen {
		built = append(built, msg.Request)
		return &stubScreen{name: "results"}
	})

	r.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 100, root.width)

	req := tradebot.Request{Username: "alice", LeagueID: "L1", MinGain: 5}
	r.Update(ui.RouterMsg{To: ui.RouteResults, Request: req})
	require.Equal(t, 2, r.Depth())
	assert.Equal(t, "results", r.View())
	assert.Equal(t, []tradebot.Request{req}, built)
	assert.Equal(t, 100, r.Current().(*stubScreen).width)

	r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, 1, r.Current().(*stubScreen).updates)
	assert.Equal(t, 0, root.updates)

	r.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "input", r.View())

	// Esc on the root screen is passed through.
	r.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, 1, root.updates)
}

func TestRouter_RouteInputClearsStack(t *testing.T) {
	root := &stubScreen{name: "input"}
	r := New(root, func(ui.RouterMsg) Screen { return &stubScreen{name: "results"} })

	r.Update(ui.RouterMsg{To: ui.RouteResults})
	r.Update(ui.RouterMsg{To: ui.RouteResults})
	require.Equal(t, 3, r.Depth())

	r.Update(ui.RouterMsg{To: ui.RouteInput})
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, 1, root.inits)
}

func TestRouter_CtrlCQuits(t *testing.T) {
	r := New(&stubScreen{}, nil)
	_, cmd := r.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
