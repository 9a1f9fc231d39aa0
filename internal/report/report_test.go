package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/roster"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/trade"
)

func TestRenderRosters(t *testing.T) {
	teams := []roster.Team{
		{
			OwnerID:   "u1",
			OwnerName: "Alice",
			Players: []roster.Player{
				{Name: "Justin Jefferson", Position: "WR", Team: "MIN", ADP: 3, HasADP: true},
				{Name: "Unknown", Position: "N/A", Team: "FA"},
			},
		},
		{OwnerID: "u2", OwnerName: "Unknown Owner"},
	}

	want := "🏈 Team: Alice (u1)\n" +
		" - Justin Jefferson (WR - MIN) | ADP: 3.00\n" +
		" - Unknown (N/A - FA) | ADP: N/A\n" +
		"\n" +
		"🏈 Team: Unknown Owner (u2)\n"
	assert.Equal(t, want, RenderRosters(teams))
	assert.Equal(t, "", RenderRosters(nil))
}

func TestRenderTrades(t *testing.T) {
	a := roster.Player{Name: "A", ADP: 10, HasADP: true}
	b := roster.Player{Name: "B", ADP: 25, HasADP: true}
	c := roster.Player{Name: "C", ADP: 8, HasADP: true}

	proposals := []trade.Proposal{
		{Kind: trade.OneForOne, Offered: []roster.Player{c}, Received: b, NetGain: 17},
		{Kind: trade.TwoForOne, Offered: []roster.Player{a, c}, Received: b, NetGain: 7},
	}

	tests := []struct {
		name       string
		proposals  []trade.Proposal
		noEligible bool
		want       string
	}{
		{
			name:      "proposals",
			proposals: proposals,
			want: "=== Trade Suggestions Sorted by Net ADP Gain ===\n" +
				"🟢 1-for-1: Trade C (ADP: 8.00) → B (ADP: 25.00) | Net Gain: +17.00\n" +
				"🟢 2-for-1: Trade A + C (ADP total: 18.00) → B (ADP: 25.00) | Net Gain: +7.00",
		},
		{
			name: "no proposals",
			want: NoTrades,
		},
		{
			name:       "no eligible players",
			noEligible: true,
			want:       NoEligible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderTrades(tt.proposals, tt.noEligible))
		})
	}
}

func TestRenderError(t *testing.T) {
	assert.Equal(t, "Error: boom", RenderError(errors.New("boom")))
}
