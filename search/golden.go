// SPDX-License-Identifier: MIT

package search

import (
	"math"

	"github.com/katalvlaran/poincare/geom"
)

// Probe is one evaluated point on the search line: position X and
// recurrence distance F.
type Probe struct {
	X, F float64
}

// Move tells how UpdateBracket rearranged a triple.
type Move int

const (
	// Shift drops A and slides the triple outward: A' = B, B' = C.
	Shift Move = iota
	// Swap exchanges A and B so the triple heads downhill; C is dropped.
	Swap
)

func (m Move) String() string {
	if m == Swap {
		return "swap"
	}

	return "shift"
}

// PrepareToBracket places the first bracket around the seed at a:
// b = a + step and c = b + Gold·(b − a).
func PrepareToBracket(a, step float64) (b, c float64) {
	b = a + step

	return b, b + geom.Gold*(b-a)
}

// Bracketed reports whether b is no worse than both neighbors.
func Bracketed(fa, fb, fc float64) bool {
	return fb <= fa && fb <= fc
}

// UpdateBracket extends a triple that does not yet bracket a minimum.
// When B is worse than A the pair is swapped so the search reverses;
// otherwise the triple shifts outward past C. The new C is extrapolated
// from the new pair: c' = b' + Gold·(b' − a').
func UpdateBracket(a, b, c Probe) (na, nb Probe, nc float64, move Move) {
	if b.F > a.F {
		na, nb, move = b, a, Swap
	} else {
		na, nb, move = b, c, Shift
	}

	return na, nb, nb.X + geom.Gold*(nb.X-na.X), move
}

// Quartet is the golden-section state: X0 and X3 bound the interval, X1
// and X2 are the interior probes.
type Quartet struct {
	X0, X1, X2, X3 float64
}

// Span returns |X3 − X0|.
func (q Quartet) Span() float64 {
	return math.Abs(q.X3 - q.X0)
}

// InitGolden turns a bracketing triple into a quartet. The new interior
// point goes into the larger of the two gaps: fresh is 2 when it sits
// between b and c (X1 = b) and 1 when it sits between a and b (X2 = b).
func InitGolden(a, b, c float64) (q Quartet, fresh int) {
	q.X0, q.X3 = a, c
	if math.Abs(c-b) > math.Abs(b-a) {
		q.X1, q.X2 = b, b+geom.GoldenC*(c-b)

		return q, 2
	}
	q.X1, q.X2 = b-geom.GoldenC*(b-a), b

	return q, 1
}

// GoldenStep narrows q given the distances f1 at X1 and f2 at X2. When
// f2 < f1 the minimum lies right of X1: X0 is dropped and a new X2 is
// placed (fresh = 2). Otherwise X3 is dropped and a new X1 is placed
// (fresh = 1).
//
// For a quartet in golden proportion the span shrinks by exactly GoldenR.
func GoldenStep(q Quartet, f1, f2 float64) (next Quartet, fresh int) {
	if f2 < f1 {
		return Quartet{
			X0: q.X1,
			X1: q.X2,
			X2: geom.GoldenR*q.X2 + geom.GoldenC*q.X3,
			X3: q.X3,
		}, 2
	}

	return Quartet{
		X0: q.X0,
		X1: geom.GoldenR*q.X1 + geom.GoldenC*q.X0,
		X2: q.X1,
		X3: q.X2,
	}, 1
}
