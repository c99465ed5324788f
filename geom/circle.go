package geom

import "math"

// IsPerpendicular reports whether the chord pair (p1→p2, p2→p3) has a
// vertical or horizontal chord that would make the slope-based circumcenter
// formula in CircleThroughThreePoints divide by zero.
//
// A vertical first chord combined with a horizontal second chord is the one
// axis-aligned case the formula handles directly, so it reports false.
//
// Complexity: O(1).
func IsPerpendicular(p1, p2, p3 Point) bool {
	dya := p2.Y - p1.Y
	dxa := p2.X - p1.X
	dyb := p3.Y - p2.Y
	dxb := p3.X - p2.X

	if math.Abs(dxa) <= Epsilon && math.Abs(dyb) <= Epsilon {
		return false
	}

	return math.Abs(dya) <= Epsilon ||
		math.Abs(dyb) <= Epsilon ||
		math.Abs(dxa) <= Epsilon ||
		math.Abs(dxb) <= Epsilon
}

// CircleThroughThreePoints returns the center of the circle through p1,
// p2 and p3 in the XY plane; the radius is the distance from the center to
// any of the three points. The Z component of the result is the mean Z of
// the inputs.
//
// Implementation:
//   - Up to six orderings of the points are tried; the first ordering that
//     is not IsPerpendicular and not collinear is solved with the chord
//     slope formula.
//
// Returns Degenerate when every ordering is perpendicular or collinear.
//
// Complexity: O(1).
func CircleThroughThreePoints(p1, p2, p3 Point) Point {
	orders := [6][3]Point{
		{p1, p2, p3},
		{p1, p3, p2},
		{p2, p1, p3},
		{p2, p3, p1},
		{p3, p2, p1},
		{p3, p1, p2},
	}
	for _, o := range orders {
		if IsPerpendicular(o[0], o[1], o[2]) {
			continue
		}
		if c, ok := circumcenter(o[0], o[1], o[2]); ok {
			c.Z = (p1.Z + p2.Z + p3.Z) / 3

			return c
		}
	}

	return Degenerate
}

// circumcenter solves the chord-slope equations for a non-perpendicular
// ordering. It fails when the two chords have the same slope.
func circumcenter(p1, p2, p3 Point) (Point, bool) {
	dya := p2.Y - p1.Y
	dxa := p2.X - p1.X
	dyb := p3.Y - p2.Y
	dxb := p3.X - p2.X

	if math.Abs(dxa) <= Epsilon && math.Abs(dyb) <= Epsilon {
		return Point{X: 0.5 * (p2.X + p3.X), Y: 0.5 * (p1.Y + p2.Y)}, true
	}

	aSlope := dya / dxa
	bSlope := dyb / dxb
	if math.Abs(aSlope-bSlope) <= Epsilon {
		return Point{}, false
	}

	cx := (aSlope*bSlope*(p1.Y-p3.Y) + bSlope*(p1.X+p2.X) - aSlope*(p2.X+p3.X)) /
		(2 * (bSlope - aSlope))
	cy := -(cx-(p1.X+p2.X)/2)/aSlope + (p1.Y+p2.Y)/2

	return Point{X: cx, Y: cy}, true
}
