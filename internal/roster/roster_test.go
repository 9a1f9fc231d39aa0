package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/adp"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/sleeper"
)

func newEnricher(t *testing.T) *Enricher {
	t.Helper()
	m, err := adp.NewMatcher(adp.Table{
		"Patrick Mahomes II": 45,
		"Justin Jefferson":   3,
	})
	require.NoError(t, err)

	dir := sleeper.Directory{
		"4046": {ID: "4046", FullName: "Patrick Mahomes", Position: "QB", Team: "KC"},
		"6794": {ID: "6794", FullName: "Justin Jefferson", Position: "WR", Team: "MIN"},
		"9999": {ID: "9999", FullName: "Practice Squad Guy"},
	}
	return NewEnricher(m, dir)
}

func TestEnrichPlayers(t *testing.T) {
	e := newEnricher(t)

	players := e.EnrichPlayers([]string{"6794", "4046", "9999", "missing"})
	require.Len(t, players, 4)

	assert.Equal(t, Player{
		ID: "6794", Name: "Justin Jefferson", Position: "WR", Team: "MIN",
		ADP: 3, HasADP: true, MatchedName: "Justin Jefferson", MatchKind: adp.MatchExact,
	}, players[0])

	assert.True(t, players[1].HasADP)
	assert.Equal(t, 45.0, players[1].ADP)
	assert.Equal(t, adp.MatchFuzzy, players[1].MatchKind)
	assert.Equal(t, "Patrick Mahomes II", players[1].MatchedName)

	// Listed with defaults, but unusable for trades.
	assert.Equal(t, "Practice Squad Guy", players[2].Name)
	assert.Equal(t, UnknownPosition, players[2].Position)
	assert.Equal(t, FreeAgentTeam, players[2].Team)
	assert.False(t, players[2].HasADP)

	assert.Equal(t, Player{ID: "missing", Name: UnknownName, Position: UnknownPosition, Team: FreeAgentTeam}, players[3])
}

func TestEnrichTeams(t *testing.T) {
	e := newEnricher(t)

	teams := e.EnrichTeams([]sleeper.Roster{
		{RosterID: 1, OwnerID: "u1", Players: []string{"6794"}},
		{RosterID: 2, OwnerID: "u2", Players: nil},
		{RosterID: 3, OwnerID: "", Players: []string{"4046"}},
	}, map[string]string{"u1": "Alice", "u2": ""})

	require.Len(t, teams, 3)
	assert.Equal(t, "Alice", teams[0].OwnerName)
	assert.Equal(t, UnknownOwner, teams[1].OwnerName)
	assert.Empty(t, teams[1].Players)
	assert.Equal(t, UnknownOwner, teams[2].OwnerName)
	assert.Len(t, teams[2].Players, 1)
}

func TestEligible(t *testing.T) {
	players := []Player{
		{Name: "A", ADP: 10, HasADP: true},
		{Name: "B"},
		{Name: "C", ADP: 8, HasADP: true},
	}
	got := Eligible(players)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "C", got[1].Name)

	assert.Empty(t, Eligible(nil))
}
