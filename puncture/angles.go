package puncture

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/poincare/geom"
)

// Ridge is a ridgeline point: the sample at a local maximum of Z, which a
// fieldline reaches once per poloidal revolution.
type Ridge struct {
	Point geom.Point
	Index int
}

// Ridgeline returns the local maxima of Z along samples, in order.
//
// Complexity: O(n).
func Ridgeline(samples []geom.Point) []Ridge {
	var out []Ridge
	for i := 1; i+1 < len(samples); i++ {
		if samples[i-1].Z < samples[i].Z && samples[i].Z >= samples[i+1].Z {
			out = append(out, Ridge{Point: samples[i], Index: i})
		}
	}

	return out
}

// RidgePoints strips the indices from rs.
func RidgePoints(rs []Ridge) []geom.Point {
	out := make([]geom.Point, len(rs))
	for i, r := range rs {
		out[i] = r.Point
	}

	return out
}

// RotationalSum returns, for every sample, the cumulative signed poloidal
// angle around axis (given in section coordinates (R, Z)). The angle is
// unwrapped so that one full poloidal revolution adds ±2π.
//
// Complexity: O(n).
func RotationalSum(samples []geom.Point, axis geom.Point) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}
	prev := poloidalAngle(samples[0], axis)
	sum := prev
	out[0] = sum
	for i := 1; i < len(samples); i++ {
		a := poloidalAngle(samples[i], axis)
		sum += geom.WrapAngle(a - prev)
		prev = a
		out[i] = sum
	}

	return out
}

// ToroidalAngle returns the unwrapped toroidal angle atan2(y, x) of every
// sample.
//
// Complexity: O(n).
func ToroidalAngle(samples []geom.Point) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}
	prev := math.Atan2(samples[0].Y, samples[0].X)
	sum := prev
	out[0] = sum
	for i := 1; i < len(samples); i++ {
		a := math.Atan2(samples[i].Y, samples[i].X)
		sum += geom.WrapAngle(a - prev)
		prev = a
		out[i] = sum
	}

	return out
}

// SafetyFactor estimates dφ/dθ by a least-squares line through the last
// quartile of (poloidal, toroidal) angle pairs. Returns 0 when fewer than
// two points are available or the poloidal angle does not vary.
//
// Complexity: O(n).
func SafetyFactor(toroidal, poloidal []float64) float64 {
	n := len(toroidal)
	if len(poloidal) < n {
		n = len(poloidal)
	}
	start := 3 * n / 4
	if n-start < 2 {
		start = 0
	}
	if n-start < 2 {
		return 0
	}
	x := poloidal[start:n]
	y := toroidal[start:n]
	if stat.Variance(x, nil) == 0 {
		return 0
	}
	_, beta := stat.LinearRegression(x, y, nil, false)

	return math.Abs(beta)
}

// Axis estimates the magnetic axis in section coordinates as the centroid
// of the poloidal puncture points.
func Axis(section []geom.Point) geom.Point {
	return geom.Centroid(section)
}

// poloidalAngle is the angle of sample p around axis in the (R, Z) section.
func poloidalAngle(p, axis geom.Point) float64 {
	s := ToPoloidal(p)

	return math.Atan2(s.Y-axis.Y, s.X-axis.X)
}
