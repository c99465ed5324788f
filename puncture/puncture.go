package puncture

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/poincare/geom"
)

// PoloidalNormal is the normal of the default poloidal section (the
// y = 0 plane crossed in the +Y direction at φ = 0).
var PoloidalNormal = geom.Vector{Y: 1}

// Crossing is one puncture together with where it happened in the sample
// sequence: the crossing lies between Samples[Index] and Samples[Index+1]
// at parameter T ∈ [0, 1).
type Crossing struct {
	Point geom.Point
	Index int
	T     float64
}

// Crossings walks samples once and returns every crossing of the plane
// through the origin with the given normal that moves in the normal's
// direction. Crossings in the opposite direction are ignored so that a
// trajectory contributes one puncture per revolution.
//
// Complexity: O(n).
func Crossings(samples []geom.Point, normal geom.Vector) []Crossing {
	var out []Crossing
	for i := 1; i < len(samples); i++ {
		d0 := samples[i-1].Dot(normal)
		d1 := samples[i].Dot(normal)
		if !(d0 < 0 && d1 >= 0) {
			continue
		}
		if samples[i].Sub(samples[i-1]).Dot(normal) <= 0 {
			continue
		}
		t := d0 / (d0 - d1)
		out = append(out, Crossing{
			Point: geom.Lerp(samples[i-1], samples[i], t),
			Index: i - 1,
			T:     t,
		})
	}

	return out
}

// Punctures returns the ordered puncture points of samples through the
// plane with the given normal. See Crossings for the direction rule.
//
// Complexity: O(n).
func Punctures(samples []geom.Point, normal geom.Vector) []geom.Point {
	cs := Crossings(samples, normal)
	if len(cs) == 0 {
		return nil
	}
	pts := make([]geom.Point, len(cs))
	for i, c := range cs {
		pts[i] = c.Point
	}

	return pts
}

// ToPoloidal projects a 3-D point onto poloidal section coordinates
// (R, Z) stored in the X and Y components.
func ToPoloidal(p geom.Point) geom.Point {
	return geom.Point{X: math.Hypot(p.X, p.Y), Y: p.Z}
}

// Poloidal projects every point with ToPoloidal.
func Poloidal(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = ToPoloidal(p)
	}

	return out
}

// FromPoloidal lifts section coordinates (R, Z) back to the φ = 0 plane.
func FromPoloidal(p geom.Point) geom.Point {
	return geom.Point{X: p.X, Z: p.Y}
}

// MeanSpacing returns the mean distance between consecutive samples, or 0
// when fewer than two samples exist.
//
// Complexity: O(n).
func MeanSpacing(samples []geom.Point) float64 {
	if len(samples) < 2 {
		return 0
	}
	d := make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		d[i-1] = samples[i].Distance(samples[i-1])
	}

	return floats.Sum(d) / float64(len(d))
}
