package geom

// GCD returns the greatest common divisor of |a| and |b|. GCD(0, 0) is 0.
//
// Complexity: O(log min(a, b)).
func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

// GCDList returns the most frequent pairwise GCD across values, counting
// only GCDs ≥ minGCD. Frequency ties go to the larger GCD.
//
// Edge cases:
//   - empty input → 0;
//   - a single value → that value when ≥ minGCD, else 0;
//   - no pair reaching minGCD → 0.
//
// Complexity: O(n²·log m) for n values of magnitude ≤ m.
func GCDList(values []int, minGCD int) int {
	switch len(values) {
	case 0:
		return 0
	case 1:
		if values[0] >= minGCD {
			return values[0]
		}
		return 0
	}

	freq := make(map[int]int)
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			if g := GCD(values[i], values[j]); g >= minGCD {
				freq[g]++
			}
		}
	}

	best, bestCount := 0, 0
	for g, c := range freq {
		if c > bestCount || (c == bestCount && g > best) {
			best, bestCount = g, c
		}
	}

	return best
}

// Blankinship returns the winding-group offset for the pair
// (toroidal, poloidal): the smallest skip in [startSkip, toroidal) with
// (skip·poloidal) mod toroidal == gcd(toroidal, poloidal). Stepping through
// puncture indices by this skip visits the toroidal groups in geometric
// order around the surface.
//
// Returns 1 when toroidal == poloidal and 0 when no skip exists
// (degenerate windings). startSkip < 1 is treated as 1.
//
// Complexity: O(toroidal).
func Blankinship(toroidal, poloidal, startSkip int) int {
	if toroidal == poloidal {
		return 1
	}
	if toroidal <= 0 || poloidal <= 0 {
		return 0
	}
	if startSkip < 1 {
		startSkip = 1
	}
	g := GCD(toroidal, poloidal)
	for skip := startSkip; skip < toroidal; skip++ {
		if (skip*poloidal)%toroidal == g%toroidal {
			return skip
		}
	}

	return 0
}
