package cityresolver

import (
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultFuzzyCutoff is the minimum similarity accepted by FuzzyMatcher.
const DefaultFuzzyCutoff = 0.8

// FuzzyMatch describes an accepted approximate match.
type FuzzyMatch struct {
	City      string
	Candidate string
	Score     float64
}

// FuzzyMatcher compares a word against the catalog candidate set with the
// SequenceMatcher ratio over runes.
type FuzzyMatcher struct {
	catalog    *Catalog
	cutoff     float64
	candidates [][]string
}

// NewFuzzyMatcher prepares the candidate sequences. A non-positive cutoff selects DefaultFuzzyCutoff.
func NewFuzzyMatcher(c *Catalog, cutoff float64) *FuzzyMatcher {
	if cutoff <= 0 {
		cutoff = DefaultFuzzyCutoff
	}
	seqs := make([][]string, len(c.candidates))
	for i, cand := range c.candidates {
		seqs[i] = runeSeq(cand)
	}
	return &FuzzyMatcher{catalog: c, cutoff: cutoff, candidates: seqs}
}

// Cutoff returns the acceptance threshold.
func (m *FuzzyMatcher) Cutoff() float64 { return m.cutoff }

// Match returns the best candidate scoring at least the cutoff. On equal scores the
// candidate that comes first (canonical names, then alias keys) is kept.
// Alias hits are reported as their canonical city.
func (m *FuzzyMatcher) Match(word string) (FuzzyMatch, bool) {
	if word == "" {
		return FuzzyMatch{}, false
	}
	// The word is seq2 so its index is built once and reused for every candidate.
	sm := difflib.NewMatcher(nil, runeSeq(word))
	best := -1
	bestScore := 0.0
	for i, seq := range m.candidates {
		sm.SetSeq1(seq)
		if sm.RealQuickRatio() < m.cutoff || sm.QuickRatio() < m.cutoff {
			continue
		}
		score := sm.Ratio()
		if score < m.cutoff {
			continue
		}
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return FuzzyMatch{}, false
	}
	candidate := m.catalog.candidates[best]
	return FuzzyMatch{
		City:      m.catalog.resolveCandidate(candidate),
		Candidate: candidate,
		Score:     bestScore,
	}, true
}

// Similarity returns the SequenceMatcher ratio of a and b over runes.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(runeSeq(a), runeSeq(b)).Ratio()
}

func runeSeq(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
