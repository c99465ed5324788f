package winding

import (
	"math"
	"slices"

	"github.com/katalvlaran/poincare/geom"
)

// rankTol is the absolute tolerance under which two confidences or scores
// share a dense rank; it is scaled up for large magnitudes.
const rankTol = 1e-9

// Pair is a (toroidal, poloidal) winding candidate with its confidence and
// dense confidence rank.
type Pair struct {
	Toroidal   int
	Poloidal   int
	Confidence float64
	Rank       int
}

// Reduced returns the pair divided by gcd(Toroidal, Poloidal).
func (p Pair) Reduced() (t, q int) {
	g := geom.GCD(p.Toroidal, p.Poloidal)
	if g == 0 {
		return p.Toroidal, p.Poloidal
	}

	return p.Toroidal / g, p.Poloidal / g
}

// PoloidalWindingCheck builds the confidence table from the accumulated
// poloidal winding count of every puncture. For each toroidal winding t in
// 1..len(counts)/2 the poloidal winding is the most frequent difference
// counts[i+t] − counts[i] and the confidence is the fraction of the n − t
// differences that agree with it. Frequency ties go to the larger
// difference. Pairs whose poloidal winding is zero are skipped; negative
// windings (counter-rotation) are reported by magnitude.
//
// The result is ordered by toroidal winding and unranked.
//
// Complexity: O(n²).
func PoloidalWindingCheck(counts []int) []Pair {
	n := len(counts)
	var out []Pair
	freq := make(map[int]int)
	for t := 1; t <= n/2; t++ {
		clear(freq)
		for i := 0; i+t < n; i++ {
			freq[counts[i+t]-counts[i]]++
		}
		best, bestCount := 0, -1
		for d, c := range freq {
			if c > bestCount || (c == bestCount && d > best) {
				best, bestCount = d, c
			}
		}
		if best < 0 {
			best = -best
		}
		if best == 0 {
			continue
		}
		out = append(out, Pair{
			Toroidal:   t,
			Poloidal:   best,
			Confidence: float64(bestCount) / float64(n-t),
		})
	}

	return out
}

// Collapse folds every pair into the first (lowest toroidal winding) pair
// with the same reduced ratio, keeping the higher confidence. Pairs must be
// ordered by toroidal winding, as PoloidalWindingCheck returns them.
//
// Complexity: O(n log m).
func Collapse(pairs []Pair) []Pair {
	type ratio struct{ t, p int }
	idx := make(map[ratio]int)
	var out []Pair
	for _, pr := range pairs {
		t, p := pr.Reduced()
		key := ratio{t, p}
		if i, ok := idx[key]; ok {
			out[i].Confidence = math.Max(out[i].Confidence, pr.Confidence)
			continue
		}
		idx[key] = len(out)
		out = append(out, pr)
	}

	return out
}

// RankByConfidence returns a copy of pairs sorted by descending confidence
// (ties: larger toroidal winding first) with dense ranks assigned.
//
// Complexity: O(n log n).
func RankByConfidence(pairs []Pair) []Pair {
	out := slices.Clone(pairs)
	slices.SortStableFunc(out, func(a, b Pair) int {
		switch {
		case !sameScore(a.Confidence, b.Confidence) && a.Confidence > b.Confidence:
			return -1
		case !sameScore(a.Confidence, b.Confidence):
			return 1
		case a.Toroidal > b.Toroidal:
			return -1
		case a.Toroidal < b.Toroidal:
			return 1
		default:
			return 0
		}
	})
	rank := 0
	for i := range out {
		if i > 0 && !sameScore(out[i].Confidence, out[i-1].Confidence) {
			rank++
		}
		out[i].Rank = rank
	}

	return out
}

// Windings returns the toroidal windings of the pairs whose confidence
// reaches threshold, in input order.
func Windings(pairs []Pair, threshold float64) []int {
	var out []int
	for _, p := range pairs {
		if p.Confidence >= threshold {
			out = append(out, p.Toroidal)
		}
	}

	return out
}

// sameScore reports whether a and b share a dense rank.
func sameScore(a, b float64) bool {
	return math.Abs(a-b) <= rankTol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// denseRankOf returns the dense rank value v would take among the
// descending sorted distinct levels.
func denseRankOf(levels []float64, v float64) int {
	for i, l := range levels {
		if sameScore(l, v) || v > l {
			return i
		}
	}

	return len(levels)
}

// confidenceLevels returns the distinct confidences of ranked pairs in
// descending order.
func confidenceLevels(ranked []Pair) []float64 {
	var out []float64
	for i, p := range ranked {
		if i == 0 || p.Rank != ranked[i-1].Rank {
			out = append(out, p.Confidence)
		}
	}

	return out
}
