package winding

import (
	"math"
	"slices"
)

// Candidate is a winding pair placed by MergeRanks.
type Candidate struct {
	Pair
	ConfRank int
	VarRank  int
	Distance float64
}

// MergeRanks merges the confidence and variance rankings into one ordered
// candidate list.
//
// Implementation:
//   - Stage 1: candidates are the collapsed pairs plus, for every toroidal
//     period whose variance rank is below varianceRanks, the table pair
//     with that toroidal winding. Pairs under threshold are dropped.
//   - Stage 2: ConfRank is the dense confidence rank among the table's
//     confidence levels; VarRank is the worse of the toroidal period rank
//     and the poloidal (ridgeline) period rank. Periods missing from a
//     ranking take one past its worst rank.
//   - Stage 3: order by Euclidean distance of (ConfRank, VarRank); ties go
//     to the larger toroidal winding, then the higher confidence.
//
// Complexity: O(n log n).
func MergeRanks(table, collapsed []Pair, toroidal, poloidal []Period, threshold float64, varianceRanks int) []Candidate {
	levels := confidenceLevels(RankByConfidence(table))
	byT := make(map[int]Pair, len(table))
	for _, p := range table {
		byT[p.Toroidal] = p
	}
	torIdx, polIdx := RankIndex(toroidal), RankIndex(poloidal)
	torWorst, polWorst := worstRank(toroidal), worstRank(poloidal)

	type key struct{ t, p int }
	seen := make(map[key]bool)
	var out []Candidate
	add := func(p Pair) {
		k := key{p.Toroidal, p.Poloidal}
		if seen[k] || p.Confidence < threshold {
			return
		}
		seen[k] = true
		tr, ok := torIdx[p.Toroidal]
		if !ok {
			tr = torWorst
		}
		pr, ok := polIdx[p.Poloidal]
		if !ok {
			pr = polWorst
		}
		c := Candidate{Pair: p, ConfRank: denseRankOf(levels, p.Confidence), VarRank: max(tr, pr)}
		c.Rank = c.ConfRank
		c.Distance = math.Hypot(float64(c.ConfRank), float64(c.VarRank))
		out = append(out, c)
	}

	// Stage 1
	for _, p := range collapsed {
		add(p)
	}
	for _, per := range toroidal {
		if per.Rank >= varianceRanks {
			continue
		}
		if p, ok := byT[per.Period]; ok {
			add(p)
		}
	}

	// Stage 3
	slices.SortStableFunc(out, func(a, b Candidate) int {
		switch {
		case !sameScore(a.Distance, b.Distance) && a.Distance < b.Distance:
			return -1
		case !sameScore(a.Distance, b.Distance):
			return 1
		case a.Toroidal != b.Toroidal:
			return b.Toroidal - a.Toroidal
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		default:
			return 0
		}
	})

	return out
}
