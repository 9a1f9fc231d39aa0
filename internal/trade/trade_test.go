package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/roster"
)

func player(name string, adp float64) roster.Player {
	return roster.Player{ID: name, Name: name, ADP: adp, HasADP: true}
}

func team(id string, players ...roster.Player) roster.Team {
	return roster.Team{OwnerID: id, OwnerName: "owner-" + id, Players: players}
}

func TestEnumerate_OneForOne(t *testing.T) {
	mine := []roster.Player{player("A", 10)}
	opponents := []roster.Team{team("o1", player("B", 20))}

	tests := []struct {
		name     string
		minGain  float64
		wantGain []float64
	}{
		{name: "above threshold", minGain: 5, wantGain: []float64{10}},
		{name: "gain equal to threshold", minGain: 10, wantGain: []float64{10}},
		{name: "below threshold", minGain: 15, wantGain: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Enumerate(mine, opponents, tt.minGain)
			gains := make([]float64, 0, len(got))
			for _, p := range got {
				gains = append(gains, p.NetGain)
			}
			assert.Equal(t, tt.wantGain, gains)
		})
	}

	got := Enumerate(mine, opponents, 5)
	require.Len(t, got, 1)
	assert.Equal(t, OneForOne, got[0].Kind)
	assert.Equal(t, []roster.Player{player("A", 10)}, got[0].Offered)
	assert.Equal(t, "B", got[0].Received.Name)
	assert.Equal(t, "o1", got[0].OpponentID)
	assert.Equal(t, "owner-o1", got[0].OpponentName)
}

func TestEnumerate_TwoForOne(t *testing.T) {
	mine := []roster.Player{player("A", 10), player("C", 8)}
	opponents := []roster.Team{team("o1", player("B", 25))}

	got := Enumerate(mine, opponents, 5)

	// 1-for-1s: B-A = 15, B-C = 17; 2-for-1: 25 - 18 = 7.
	require.Len(t, got, 3)
	two := got[2]
	assert.Equal(t, TwoForOne, two.Kind)
	assert.InDelta(t, 7.0, two.NetGain, 1e-9)
	assert.InDelta(t, 18.0, two.OfferedADP(), 1e-9)
	assert.ElementsMatch(t, []string{"A", "C"}, []string{two.Offered[0].Name, two.Offered[1].Name})
	assert.Equal(t, "B", two.Received.Name)
}

func TestEnumerate_SkipsPlayersWithoutADP(t *testing.T) {
	noADP := roster.Player{ID: "X", Name: "X"}
	mine := []roster.Player{player("A", 10), noADP}
	opponents := []roster.Team{team("o1", player("B", 40), roster.Player{ID: "Y", Name: "Y"})}

	got := Enumerate(mine, opponents, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Offered[0].Name)
	assert.Equal(t, "B", got[0].Received.Name)

	assert.Empty(t, Enumerate([]roster.Player{noADP}, opponents, 0))
}

func TestEnumerate_EmptyInputs(t *testing.T) {
	got := Enumerate([]roster.Player{player("A", 10)}, nil, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, Enumerate(nil, []roster.Team{team("o1", player("B", 25))}, 5))
	assert.Empty(t, Enumerate([]roster.Player{player("A", 10)}, []roster.Team{team("o1")}, 5))
}

func TestEnumerate_SortedDescendingAndStable(t *testing.T) {
	mine := []roster.Player{player("A", 10), player("C", 20)}
	opponents := []roster.Team{
		team("o1", player("B", 30), player("D", 40)),
		team("o2", player("E", 30)),
	}

	got := Enumerate(mine, opponents, 0)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].NetGain, got[i].NetGain)
	}

	// Gain 20 is reached by A->B (o1), C->D (o1) and A->E (o2), in that
	// generation order.
	var tied []string
	for _, p := range got {
		if p.NetGain == 20 {
			tied = append(tied, p.OpponentID+":"+p.Offered[0].Name+"->"+p.Received.Name)
		}
	}
	assert.Equal(t, []string{"o1:A->B", "o1:C->D", "o2:A->E"}, tied)

	// Run twice, same order.
	assert.Equal(t, got, Enumerate(mine, opponents, 0))
}

func TestEnumerate_OneForOneBeforeTwoForOneOnTie(t *testing.T) {
	mine := []roster.Player{player("A", 5), player("C", 5), player("D", 10)}
	opponents := []roster.Team{team("o1", player("B", 20))}

	got := Enumerate(mine, opponents, 10)
	// A->B 15, C->B 15, D->B 10, A+C->B 10.
	require.Len(t, got, 4)
	assert.Equal(t, OneForOne, got[2].Kind)
	assert.Equal(t, "D", got[2].Offered[0].Name)
	assert.Equal(t, TwoForOne, got[3].Kind)
}
