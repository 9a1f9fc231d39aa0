package screen

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/trade"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/tradebot"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui/component"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui/router"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui/style"
)

const (
	fieldUsername = "username"
	fieldLeagueID = "league_id"
	fieldMinGain  = "min_gain"
)

// InputScreen collects the username, league id and minimum gain
type InputScreen struct {
	width  int
	height int
	keyMap ui.KeyMap

	form    *component.Form
	helpBar *component.HelpBar

	titleStyle     lipgloss.Style
	containerStyle lipgloss.Style
}

// NewInputScreen creates the input form pre-filled with defaults
func NewInputScreen(defaults tradebot.Request) *InputScreen {
	keyMap := ui.DefaultKeyMap()

	minGain := defaults.MinGain
	if minGain == 0 {
		minGain = trade.DefaultMinGain
	}

	form := component.NewForm().
		AddField(fieldUsername, component.FieldTypeText, "Sleeper Username", true, "your sleeper username").
		AddField(fieldLeagueID, component.FieldTypeText, "League ID", true, "e.g. 1048264392283635712").
		AddField(fieldMinGain, component.FieldTypeNumber, "Minimum Net ADP Gain", false, "5.0").
		SetFieldValidation(fieldMinGain, validateGain).
		SetFieldValue(fieldUsername, defaults.Username).
		SetFieldValue(fieldLeagueID, defaults.LeagueID).
		SetFieldValue(fieldMinGain, strconv.FormatFloat(minGain, 'f', -1, 64))

	return &InputScreen{
		keyMap:  keyMap,
		form:    form,
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.FormHelp()),

		titleStyle: style.Title(),
		containerStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(style.DefaultPalette().Primary).
			Padding(1, 2).
			Margin(0, 2),
	}
}

func validateGain(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("must be a number")
	}
	return nil
}

// Init initializes the screen
func (s *InputScreen) Init() tea.Cmd {
	return nil
}

// Update handles form input; enter submits
func (s *InputScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, s.keyMap.Submit) {
		req, ok := s.Request()
		if !ok {
			return s, nil
		}
		return s, ui.Navigate(ui.RouteResults, req)
	}

	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

// Request validates the form and builds the run request
func (s *InputScreen) Request() (tradebot.Request, bool) {
	if !s.form.Validate() {
		return tradebot.Request{}, false
	}

	minGain := trade.DefaultMinGain
	if raw := s.form.GetValue(fieldMinGain); raw != "" {
		minGain, _ = strconv.ParseFloat(raw, 64)
	}

	return tradebot.Request{
		Username: s.form.GetValue(fieldUsername),
		LeagueID: s.form.GetValue(fieldLeagueID),
		MinGain:  minGain,
	}, true
}

// View renders the screen
func (s *InputScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		s.titleStyle.Render("🏈 Sleeper ADP Trade Bot"),
		s.containerStyle.Render(s.form.View()),
		s.helpBar.View(),
	)
}

// SetSize sets the screen dimensions
func (s *InputScreen) SetSize(width, height int) {
	s.width = width
	s.height = height

	formWidth := width - 12
	if formWidth > 60 {
		formWidth = 60
	}
	s.form.SetWidth(formWidth)
	s.helpBar.SetWidth(width)
}
