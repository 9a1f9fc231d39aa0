package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/tradebot"
)

// Route identifies a screen
type Route string

const (
	RouteInput   Route = "input"
	RouteResults Route = "results"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To      Route
	Request tradebot.Request
}

// RunFinishedMsg carries the outcome of a trade-suggestion run
type RunFinishedMsg struct {
	Seq    int
	Output tradebot.Output
	Report *tradebot.Report
	Err    error
}

// ExportFinishedMsg reports written files
type ExportFinishedMsg struct {
	Paths []string
	Err   error
}

// Navigate returns a command that emits a RouterMsg
func Navigate(to Route, req tradebot.Request) tea.Cmd {
	return func() tea.Msg {
		return RouterMsg{To: to, Request: req}
	}
}
