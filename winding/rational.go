package winding

import (
	"math"

	"github.com/katalvlaran/poincare/geom"
)

// RationalCheck reports whether the section points repeat with period t:
// every point must lie within delta·factor of the centroid of its residue
// class (index mod t). It needs at least 2t points; with fewer it returns
// (−1, false) and the caller must ask for more punctures.
//
// On success the node count is 1 (each group collapses to a single node).
//
// Complexity: O(n).
func RationalCheck(points []geom.Point, t int, delta, factor float64) (nnodes int, ok bool) {
	if t <= 0 || len(points) < 2*t {
		return -1, false
	}
	tol := delta * factor
	class := make([]geom.Point, 0, len(points)/t+1)
	for r := 0; r < t; r++ {
		class = class[:0]
		for i := r; i < len(points); i += t {
			class = append(class, points[i])
		}
		c := geom.Centroid(class)
		for _, p := range class {
			if p.Distance(c) > tol {
				return 0, false
			}
		}
	}

	return 1, true
}

// FluxSurfaceNodes resolves how many nodes one toroidal group of a flux
// surface holds: the index k of the first group point (point k·t) whose
// poloidal angle around axis has drifted past the first point of the
// adjacent group. The adjacent group is the angular neighbor of point 0 on
// the side of the drift (point offset or point t − offset); for t = 1 the
// group must wrap a full revolution.
//
// It returns (nodes, 0) when resolved, and (−1, needed) otherwise, where
// needed estimates the puncture count that would resolve it from the
// observed drift rate (0 when the drift cannot be measured).
//
// Complexity: O(n).
func FluxSurfaceNodes(points []geom.Point, t, offset int, axis geom.Point) (nodes, needed int) {
	n := len(points)
	if t <= 0 || n <= t || (t > 1 && (offset <= 0 || offset >= t)) {
		return -1, 0
	}
	angle := func(p geom.Point) float64 { return math.Atan2(p.Y-axis.Y, p.X-axis.X) }
	a0 := angle(points[0])
	drift := geom.WrapAngle(angle(points[t]) - a0)
	if math.Abs(drift) < geom.Epsilon {
		return -1, 0
	}

	target := 2 * math.Pi
	if t > 1 {
		next := geom.WrapAngle(angle(points[offset]) - a0)
		prev := geom.WrapAngle(angle(points[t-offset]) - a0)
		target = math.Abs(prev)
		if math.Signbit(next) == math.Signbit(drift) {
			target = math.Abs(next)
		}
	}

	var sum float64
	prevA := a0
	for k := 1; k*t < n; k++ {
		a := angle(points[k*t])
		sum += geom.WrapAngle(a - prevA)
		prevA = a
		if math.Abs(sum) >= target {
			return k, 0
		}
	}
	steps := (n - 1) / t
	rate := math.Abs(sum) / float64(steps)
	if rate < geom.Epsilon {
		return -1, 0
	}
	k := int(math.Ceil(target/rate)) + 1

	return -1, k*t + 1
}
