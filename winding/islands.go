package winding

import (
	"math"

	"github.com/katalvlaran/poincare/geom"
)

// groupNodes returns points j, j+stride, j+2·stride, … of points.
func groupNodes(points []geom.Point, j, stride int) []geom.Point {
	var out []geom.Point
	for i := j; i < len(points); i += stride {
		out = append(out, points[i])
	}

	return out
}

// IslandWinding returns the winding around the island center over one
// full period: the mean angular advance of group 0 (points 0, stride,
// 2·stride, …) around its centroid, times nodes, in turns, rounded. It
// returns 0 when the group has fewer than three nodes.
//
// Complexity: O(n / stride).
func IslandWinding(points []geom.Point, stride, nodes int) int {
	if stride <= 0 {
		return 0
	}
	grp := groupNodes(points, 0, stride)
	if len(grp) < 3 {
		return 0
	}
	c := geom.Centroid(grp)
	var sum float64
	prev := math.Atan2(grp[0].Y-c.Y, grp[0].X-c.X)
	for _, p := range grp[1:] {
		a := math.Atan2(p.Y-c.Y, p.X-c.X)
		sum += geom.WrapAngle(a - prev)
		prev = a
	}
	mean := sum / float64(len(grp)-1)

	return int(math.Round(math.Abs(mean) * float64(nodes) / (2 * math.Pi)))
}

// IslandCenters estimates the O-point of each of the groups island
// groups: the center of the circle through three spread nodes of the
// group when it falls inside the group's hull, else the group centroid.
// Groups with fewer than three nodes are skipped. This is a best-effort
// estimate for display; it is not refined.
//
// Complexity: O(groups · k²) for k nodes per group.
func IslandCenters(points []geom.Point, groups int) []geom.Point {
	if groups <= 0 {
		return nil
	}
	var out []geom.Point
	for j := 0; j < groups; j++ {
		grp := groupNodes(points, j, groups)
		k := len(grp)
		if k < 3 {
			continue
		}
		center := geom.Centroid(grp)
		c := geom.CircleThroughThreePoints(grp[0], grp[k/3], grp[2*k/3])
		if c != geom.Degenerate {
			hull := geom.ChainHull(grp, geom.CounterClockwise)
			poly := make([]geom.Point, len(hull))
			for i, h := range hull {
				poly[i] = grp[h]
			}
			if geom.PointInPolygon(c, poly) {
				center = c
			}
		}
		out = append(out, center)
	}

	return out
}
