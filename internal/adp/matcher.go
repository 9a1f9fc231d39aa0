package adp

import (
	"fmt"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultCutoff is the minimum similarity ratio a fuzzy candidate must reach.
const DefaultCutoff = 0.8

// MatchKind tells how a name was resolved against the table.
type MatchKind string

const (
	MatchExact MatchKind = "exact"
	MatchAlias MatchKind = "alias"
	MatchFuzzy MatchKind = "fuzzy"
)

// Match is a resolved reference entry.
type Match struct {
	Name  string
	ADP   float64
	Kind  MatchKind
	Score float64
}

// Matcher resolves free-text player names to reference table entries.
// It is read-only after construction and safe for concurrent use.
type Matcher struct {
	table   Table
	names   []string
	aliases Aliases
	cutoff  float64
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithCutoff sets the fuzzy similarity cutoff, in [0, 1].
func WithCutoff(cutoff float64) MatcherOption {
	return func(m *Matcher) {
		m.cutoff = cutoff
	}
}

// WithAliases installs manual name overrides consulted after the exact lookup.
func WithAliases(aliases Aliases) MatcherOption {
	return func(m *Matcher) {
		m.aliases = aliases
	}
}

// NewMatcher builds a Matcher over table.
func NewMatcher(table Table, opts ...MatcherOption) (*Matcher, error) {
	m := &Matcher{
		table:  table,
		cutoff: DefaultCutoff,
	}
	for _, opt := range opts {
		opt(m)
	}

	if !(m.cutoff >= 0 && m.cutoff <= 1) {
		return nil, fmt.Errorf("cutoff must be in [0, 1], got %v", m.cutoff)
	}

	// Sorted so that equal scores resolve to the lexicographically first name.
	m.names = table.Names()
	sort.Strings(m.names)

	return m, nil
}

// Cutoff returns the configured fuzzy cutoff.
func (m *Matcher) Cutoff() float64 {
	return m.cutoff
}

// Size returns the number of reference entries.
func (m *Matcher) Size() int {
	return len(m.table)
}

// Match resolves name. An exact hit short-circuits; aliases come next; the
// closest fuzzy candidate scoring at least the cutoff comes last. The boolean
// is false when nothing qualifies.
func (m *Matcher) Match(name string) (Match, bool) {
	if v, ok := m.table[name]; ok {
		return Match{Name: name, ADP: v, Kind: MatchExact, Score: 1}, true
	}

	if ref, ok := m.aliases[name]; ok {
		if v, ok := m.table[ref]; ok {
			return Match{Name: ref, ADP: v, Kind: MatchAlias, Score: 1}, true
		}
	}

	best, score, ok := m.closest(name)
	if !ok {
		return Match{}, false
	}
	return Match{Name: best, ADP: m.table[best], Kind: MatchFuzzy, Score: score}, true
}

// Lookup returns the ADP for name when it resolves.
func (m *Matcher) Lookup(name string) (float64, bool) {
	match, ok := m.Match(name)
	if !ok {
		return 0, false
	}
	return match.ADP, true
}

func (m *Matcher) closest(name string) (string, float64, bool) {
	word := splitChars(name)
	sm := difflib.NewMatcher(nil, word)

	var (
		best      string
		bestScore float64
		found     bool
	)
	for _, candidate := range m.names {
		sm.SetSeq1(splitChars(candidate))
		if sm.RealQuickRatio() < m.cutoff || sm.QuickRatio() < m.cutoff {
			continue
		}
		score := sm.Ratio()
		if score < m.cutoff {
			continue
		}
		// m.names is sorted, so strict > keeps the first name on a tie.
		if !found || score > bestScore {
			best, bestScore, found = candidate, score, true
		}
	}
	return best, bestScore, found
}

// Similarity returns the difflib ratio of a against b: 2*M/T over characters.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(splitChars(a), splitChars(b)).Ratio()
}

func splitChars(s string) []string {
	runes := []rune(s)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}
