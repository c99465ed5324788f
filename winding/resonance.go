package winding

import (
	"slices"

	"github.com/katalvlaran/poincare/geom"
)

// resonanceShare is the fraction of confident windings that must be
// multiples of the fundamental winding for a divisor to be confirmed.
const resonanceShare = 0.75

// ResonanceCheck finds the toroidal resonance of winding t: the largest
// divisor d > 1 of t whose fundamental f = t/d is itself a confident
// winding (in windings), is a multiple of base, and divides at least 75 %
// of windings. The resonance is 1 when t is its own fundamental.
//
// When no divisor is confirmed the most frequent pairwise GCD of windings
// (at least base) stands in for f, provided it is a confident winding that
// divides t; fallback is then true. Otherwise the resonance is 1.
//
// Complexity: O(d(t)·n + n²) for n windings.
func ResonanceCheck(windings []int, t, base int) (resonance int, fallback bool) {
	if t <= 1 || len(windings) == 0 {
		return 1, false
	}
	if base < 1 {
		base = 1
	}
	for d := t; d > 1; d-- {
		if t%d != 0 {
			continue
		}
		f := t / d
		if f%base != 0 || !slices.Contains(windings, f) {
			continue
		}
		multiples := 0
		for _, w := range windings {
			if w%f == 0 {
				multiples++
			}
		}
		if float64(multiples) >= resonanceShare*float64(len(windings)) {
			return d, false
		}
	}

	f := geom.GCDList(windings, base)
	if f > 0 && t%f == 0 && slices.Contains(windings, f) {
		return t / f, true
	}

	return 1, true
}
