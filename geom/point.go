package geom

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
)

// Vector is a 3-component double-precision vector.
type Vector = r3.Vector

// Point is a 3-component double-precision position. It shares its
// representation with Vector; the distinction is usage only.
type Point = r3.Vector

// Epsilon is the threshold below which cross products and coordinate
// deltas are treated as zero.
const Epsilon = 1e-12

// Degenerate is returned by fitting routines that cannot produce a
// meaningful point (collinear input in every ordering).
var Degenerate = Point{X: -1, Y: -1, Z: -1}

// Pt returns the point (x, y, z).
func Pt(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// SamePoint reports whether a and b coincide within Epsilon.
func SamePoint(a, b Point) bool {
	return a.Sub(b).Norm2() <= Epsilon*Epsilon
}

// Lerp returns a + t·(b − a).
func Lerp(a, b Point, t float64) Point {
	return a.Add(b.Sub(a).Mul(t))
}

// Centroid returns the arithmetic mean of pts, or the zero point for an
// empty slice.
//
// Complexity: O(n).
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	zs := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	n := float64(len(pts))

	return Point{X: floats.Sum(xs) / n, Y: floats.Sum(ys) / n, Z: floats.Sum(zs) / n}
}

// WrapAngle maps a into (−π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}

	return a
}
