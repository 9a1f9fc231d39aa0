// Package roster joins Sleeper rosters with the ADP reference table.
package roster

import (
	"github.com/rovshanmuradov/sleeper-tradebot/internal/adp"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/sleeper"
)

const (
	UnknownName     = "Unknown"
	UnknownPosition = "N/A"
	FreeAgentTeam   = "FA"
	UnknownOwner    = "Unknown Owner"
)

// Player is a roster entry with its resolved ADP. HasADP false means no
// reference entry matched; such players are listed but never traded.
type Player struct {
	ID          string
	Name        string
	Position    string
	Team        string
	ADP         float64
	HasADP      bool
	MatchedName string
	MatchKind   adp.MatchKind
}

// Team is an enriched roster.
type Team struct {
	OwnerID   string
	OwnerName string
	Players   []Player
}

// Enricher resolves player ids against the directory and the matcher.
type Enricher struct {
	matcher *adp.Matcher
	dir     sleeper.Directory
}

func NewEnricher(m *adp.Matcher, dir sleeper.Directory) *Enricher {
	return &Enricher{matcher: m, dir: dir}
}

// EnrichPlayers maps ids to players in order. Unknown ids are kept.
func (e *Enricher) EnrichPlayers(ids []string) []Player {
	players := make([]Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, e.enrich(id))
	}
	return players
}

func (e *Enricher) enrich(id string) Player {
	p := Player{
		ID:       id,
		Name:     UnknownName,
		Position: UnknownPosition,
		Team:     FreeAgentTeam,
	}

	if info, ok := e.dir[id]; ok {
		if name := info.DisplayName(); name != "" {
			p.Name = name
		}
		if info.Position != "" {
			p.Position = info.Position
		}
		if info.Team != "" {
			p.Team = info.Team
		}
	}

	if e.matcher == nil {
		return p
	}
	if match, ok := e.matcher.Match(p.Name); ok {
		p.ADP = match.ADP
		p.HasADP = true
		p.MatchedName = match.Name
		p.MatchKind = match.Kind
	}
	return p
}

// EnrichTeams enriches every roster in the order given. owners maps
// user id to display name.
func (e *Enricher) EnrichTeams(rosters []sleeper.Roster, owners map[string]string) []Team {
	teams := make([]Team, 0, len(rosters))
	for _, r := range rosters {
		name, ok := owners[r.OwnerID]
		if !ok || name == "" {
			name = UnknownOwner
		}
		teams = append(teams, Team{
			OwnerID:   r.OwnerID,
			OwnerName: name,
			Players:   e.EnrichPlayers(r.Players),
		})
	}
	return teams
}

// Eligible returns the ADP-bearing players, preserving order.
func Eligible(players []Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if p.HasADP {
			out = append(out, p)
		}
	}
	return out
}
