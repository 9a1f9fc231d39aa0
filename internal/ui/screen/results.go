package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/tradebot"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui/component"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui/router"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui/style"
)

// Panel identifies one of the two result panels
type Panel int

const (
	PanelRosters Panel = iota
	PanelTrades
)

const (
	rostersTitle = "Team Rosters with ADP"
	tradesTitle  = "Trade Suggestions"
	sideBySideAt = 110
)

// ResultsScreen runs a request and shows rosters and trades side by side
type ResultsScreen struct {
	width  int
	height int
	keyMap ui.KeyMap

	services *ui.Services
	request  tradebot.Request

	// State
	seq     int
	running bool
	output  tradebot.Output
	report  *tradebot.Report
	err     error
	status  string
	failed  bool
	focus   Panel

	spinner spinner.Model
	rosters viewport.Model
	trades  viewport.Model
	helpBar *component.HelpBar
}

// NewResultsScreen creates the results screen for req
func NewResultsScreen(services *ui.Services, req tradebot.Request) *ResultsScreen {
	keyMap := ui.DefaultKeyMap()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(style.DefaultPalette().Primary)

	return &ResultsScreen{
		keyMap:   keyMap,
		services: services,
		request:  req,
		spinner:  sp,
		rosters:  viewport.New(40, 10),
		trades:   viewport.New(40, 10),
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ResultsHelp()),
	}
}

// Init starts the run
func (s *ResultsScreen) Init() tea.Cmd {
	if s.output != (tradebot.Output{}) {
		return nil
	}
	return s.start()
}

func (s *ResultsScreen) start() tea.Cmd {
	s.seq++
	s.running = true
	s.status = ""
	s.failed = false
	return tea.Batch(s.spinner.Tick, s.services.RunCmd(s.seq, s.request))
}

// Update handles run results and key presses
func (s *ResultsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RunFinishedMsg:
		if msg.Seq != s.seq {
			return s, nil
		}
		s.running = false
		s.output = msg.Output
		s.report = msg.Report
		s.err = msg.Err
		s.rosters.SetContent(msg.Output.Rosters)
		s.trades.SetContent(msg.Output.Trades)
		s.rosters.GotoTop()
		s.trades.GotoTop()
		if msg.Err != nil && s.services.Logger != nil {
			s.services.Logger.Warn("run finished with error", zap.Error(msg.Err))
		}
		return s, nil

	case ui.ExportFinishedMsg:
		if msg.Err != nil {
			s.failed = true
			s.status = "Save failed: " + msg.Err.Error()
			return s, nil
		}
		s.failed = false
		s.status = fmt.Sprintf("Saved %d files: %s", len(msg.Paths), strings.Join(msg.Paths, ", "))
		return s, nil

	case spinner.TickMsg:
		if !s.running {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.SwitchPanel):
			if s.focus == PanelRosters {
				s.focus = PanelTrades
			} else {
				s.focus = PanelRosters
			}
			return s, nil

		case key.Matches(msg, s.keyMap.Export):
			if s.running || s.output == (tradebot.Output{}) {
				return s, nil
			}
			s.status = "Saving..."
			return s, s.services.ExportCmd(s.output, s.report)

		case key.Matches(msg, s.keyMap.Rerun):
			if s.running {
				return s, nil
			}
			return s, s.start()
		}
	}

	var cmd tea.Cmd
	if s.focus == PanelRosters {
		s.rosters, cmd = s.rosters.Update(msg)
	} else {
		s.trades, cmd = s.trades.Update(msg)
	}
	return s, cmd
}

// View renders the screen
func (s *ResultsScreen) View() string {
	title := style.Title().Render(fmt.Sprintf("🏈 %s · league %s · min gain %.2f",
		s.request.Username, s.request.LeagueID, s.request.MinGain))

	if s.running {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			style.StatusLine(false).Render(s.spinner.View()+" Fetching league data..."),
			s.helpBar.View(),
		)
	}

	rosters := s.panel(rostersTitle, s.rosters, s.focus == PanelRosters)
	trades := s.panel(tradesTitle, s.trades, s.focus == PanelTrades)

	var body string
	if s.width >= sideBySideAt {
		body = lipgloss.JoinHorizontal(lipgloss.Top, rosters, trades)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, rosters, trades)
	}

	parts := []string{title, body}
	if s.status != "" {
		parts = append(parts, style.StatusLine(s.failed).Render(s.status))
	}
	parts = append(parts, s.helpBar.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *ResultsScreen) panel(title string, vp viewport.Model, focused bool) string {
	header := lipgloss.NewStyle().Bold(true).Render(title)
	return style.Panel(focused).Render(lipgloss.JoinVertical(lipgloss.Left, header, vp.View()))
}

// SetSize sets the screen dimensions and resizes both panels
func (s *ResultsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)

	// Title, status, help bar and panel chrome
	reserved := 10
	panelWidth := width - 4
	panelHeight := height - reserved
	if width >= sideBySideAt {
		panelWidth = width/2 - 4
	} else {
		panelHeight = (height - reserved - 4) / 2
	}
	if panelWidth < 20 {
		panelWidth = 20
	}
	if panelHeight < 3 {
		panelHeight = 3
	}

	s.rosters.Width, s.rosters.Height = panelWidth, panelHeight
	s.trades.Width, s.trades.Height = panelWidth, panelHeight
}

// Focus returns the focused panel
func (s *ResultsScreen) Focus() Panel {
	return s.focus
}

// Running reports whether a run is in flight
func (s *ResultsScreen) Running() bool {
	return s.running
}

// Output returns the last run output
func (s *ResultsScreen) Output() tradebot.Output {
	return s.output
}

// Err returns the last run error
func (s *ResultsScreen) Err() error {
	return s.err
}

// Status returns the status line text
func (s *ResultsScreen) Status() string {
	return s.status
}
