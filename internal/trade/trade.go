// Package trade enumerates ADP-improving trade proposals.
package trade

import (
	"sort"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/roster"
)

// DefaultMinGain is the net ADP gain a proposal must reach when none is configured.
const DefaultMinGain = 5.0

// Kind is the shape of a proposal.
type Kind string

const (
	OneForOne Kind = "1-for-1"
	TwoForOne Kind = "2-for-1"
)

// Proposal offers one or two of my players for one opponent player.
type Proposal struct {
	Kind         Kind
	OpponentID   string
	OpponentName string
	Offered      []roster.Player
	Received     roster.Player
	NetGain      float64
}

// OfferedADP returns the summed ADP of the offered players.
func (p Proposal) OfferedADP() float64 {
	var total float64
	for _, o := range p.Offered {
		total += o.ADP
	}
	return total
}

// Enumerate generates every 1-for-1 and 2-for-1 proposal against each
// opponent whose gain, received ADP minus offered ADP, is at least minGain.
// Players without ADP take no part. The result is sorted by gain, highest
// first; equal gains keep generation order.
func Enumerate(mine []roster.Player, opponents []roster.Team, minGain float64) []Proposal {
	mine = roster.Eligible(mine)

	proposals := make([]Proposal, 0)
	if len(mine) == 0 {
		return proposals
	}

	for _, opp := range opponents {
		theirs := roster.Eligible(opp.Players)
		if len(theirs) == 0 {
			continue
		}

		for _, m := range mine {
			for _, t := range theirs {
				gain := t.ADP - m.ADP
				if gain >= minGain {
					proposals = append(proposals, Proposal{
						Kind:         OneForOne,
						OpponentID:   opp.OwnerID,
						OpponentName: opp.OwnerName,
						Offered:      []roster.Player{m},
						Received:     t,
						NetGain:      gain,
					})
				}
			}
		}

		for i := 0; i < len(mine); i++ {
			for j := i + 1; j < len(mine); j++ {
				for _, t := range theirs {
					gain := t.ADP - (mine[i].ADP + mine[j].ADP)
					if gain >= minGain {
						proposals = append(proposals, Proposal{
							Kind:         TwoForOne,
							OpponentID:   opp.OwnerID,
							OpponentName: opp.OwnerName,
							Offered:      []roster.Player{mine[i], mine[j]},
							Received:     t,
							NetGain:      gain,
						})
					}
				}
			}
		}
	}

	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].NetGain > proposals[j].NetGain
	})
	return proposals
}
