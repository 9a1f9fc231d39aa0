// Package report renders enriched rosters and trade proposals as text.
package report

import (
	"fmt"
	"strings"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/roster"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/trade"
)

const (
	TradesHeader     = "=== Trade Suggestions Sorted by Net ADP Gain ==="
	NoTrades         = "No trades found with the specified ADP gain."
	NoEligible       = "No ADP data matched any player on your roster."
	RosterNotFound   = "⚠️ Could not find your roster. Check username and league ID."
	notAvailable     = "N/A"
	proposalMarker   = "🟢"
	rosterTeamMarker = "🏈"
)

// RenderRosters lists every team with its players and ADP.
func RenderRosters(teams []roster.Team) string {
	var b strings.Builder
	for i, t := range teams {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s Team: %s (%s)\n", rosterTeamMarker, t.OwnerName, t.OwnerID)
		for _, p := range t.Players {
			fmt.Fprintf(&b, " - %s (%s - %s) | ADP: %s\n", p.Name, p.Position, p.Team, FormatADP(p))
		}
	}
	return b.String()
}

// RenderTrades lists proposals in the given order under a header. noEligible
// selects the message for a roster without any ADP-bearing player.
func RenderTrades(proposals []trade.Proposal, noEligible bool) string {
	if noEligible {
		return NoEligible
	}
	if len(proposals) == 0 {
		return NoTrades
	}

	lines := make([]string, 0, len(proposals)+1)
	lines = append(lines, TradesHeader)
	for _, p := range proposals {
		lines = append(lines, FormatProposal(p))
	}
	return strings.Join(lines, "\n")
}

// RenderError is the text both blocks carry when a run fails.
func RenderError(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

// FormatADP prints the ADP with two decimals or N/A.
func FormatADP(p roster.Player) string {
	if !p.HasADP {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", p.ADP)
}

// FormatProposal renders a single proposal line.
func FormatProposal(p trade.Proposal) string {
	if p.Kind == trade.TwoForOne {
		names := make([]string, len(p.Offered))
		for i, o := range p.Offered {
			names[i] = o.Name
		}
		return fmt.Sprintf("%s 2-for-1: Trade %s (ADP total: %.2f) → %s (ADP: %.2f) | Net Gain: %+.2f",
			proposalMarker, strings.Join(names, " + "), p.OfferedADP(), p.Received.Name, p.Received.ADP, p.NetGain)
	}

	var offered roster.Player
	if len(p.Offered) > 0 {
		offered = p.Offered[0]
	}
	return fmt.Sprintf("%s 1-for-1: Trade %s (ADP: %.2f) → %s (ADP: %.2f) | Net Gain: %+.2f",
		proposalMarker, offered.Name, offered.ADP, p.Received.Name, p.Received.ADP, p.NetGain)
}
