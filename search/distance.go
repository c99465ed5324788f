// SPDX-License-Identifier: MIT

package search

import (
	"math"

	"github.com/katalvlaran/poincare/fieldline"
	"github.com/katalvlaran/poincare/geom"
	"github.com/katalvlaran/poincare/puncture"
)

// RecurrenceDistance returns the distance between the puncture of tr
// nearest to its launch point and the puncture ToroidalWinding turns
// later. Only punctures that already have such a successor are
// considered. It returns -1 when the winding is unset or no puncture has a
// successor yet.
//
// Complexity: O(n) over the punctures.
func RecurrenceDistance(tr *fieldline.Trajectory) float64 {
	t := tr.Props.ToroidalWinding
	pts := tr.Punctures()
	if t <= 0 || len(pts) <= t {
		return -1
	}
	i0, best := 0, math.Inf(1)
	for i := 0; i+t < len(pts); i++ {
		if d := pts[i].Distance(tr.Props.SrcPt); d < best {
			i0, best = i, d
		}
	}

	return pts[i0+t].Distance(pts[i0])
}

// NeedToMinimize reports whether a seed with recurrence distance d is
// still farther than maxSpacing from closing on itself.
func NeedToMinimize(d, maxSpacing float64) bool {
	return d > maxSpacing
}

// SeedPoints spreads seeds evenly along the chord p1–p2, excluding both
// ends: k = max(1, ⌈|p2 − p1| / maxSeedSpacing⌉ − 1) of them. It returns
// nil when the anchors coincide.
func SeedPoints(p1, p2 geom.Point, maxSeedSpacing float64) []geom.Point {
	dist := p1.Distance(p2)
	if dist < geom.Epsilon || maxSeedSpacing <= 0 {
		return nil
	}
	k := max(1, int(math.Ceil(dist/maxSeedSpacing))-1)
	out := make([]geom.Point, k)
	for i := range out {
		out[i] = geom.Lerp(p1, p2, float64(i+1)/float64(k+1))
	}

	return out
}

// SearchDirection returns the unit vector in the φ = 0 plane perpendicular
// to the chord p1–p2, pointing away from axis. All three points are 3-D
// points on that plane (Y = 0); axis may be produced with
// puncture.FromPoloidal.
func SearchDirection(p1, p2, axis geom.Point) geom.Vector {
	seg := p2.Sub(p1)
	dir := geom.Vector{X: -seg.Z, Z: seg.X}
	if dir.Norm() < geom.Epsilon {
		return geom.Vector{}
	}
	dir = dir.Normalize()
	mid := geom.Lerp(p1, p2, 0.5)
	if dir.Dot(mid.Sub(axis)) < 0 {
		dir = dir.Mul(-1)
	}

	return dir
}

// axisOf estimates the magnetic axis of tr on the φ = 0 plane.
func axisOf(tr *fieldline.Trajectory) geom.Point {
	return puncture.FromPoloidal(puncture.Axis(tr.Section()))
}
