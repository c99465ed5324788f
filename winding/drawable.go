package winding

import "github.com/katalvlaran/poincare/geom"

// Drawable reports whether pair describes a non-self-intersecting
// structure over the first Toroidal section points (IntersectCheck).
//
// With g = gcd(t, p):
//   - no two of the first t points may coincide within tol;
//   - the first t/g points, visited in Blankinship(t/g, p/g) order, must
//     form a simple polygon;
//   - for g > 1, the g nodes of every group (points j, j + t/g, …) must
//     form a simple polygon of at least three nodes.
//
// Points are section coordinates; only X and Y are used.
//
// Complexity: O(t²).
func Drawable(points []geom.Point, pair Pair, tol float64) bool {
	t, p := pair.Toroidal, pair.Poloidal
	if t <= 0 || p <= 0 || len(points) < t {
		return false
	}
	pts := points[:t]
	if geom.HasDuplicates(pts, tol) {
		return false
	}
	g := geom.GCD(t, p)
	tg, pg := t/g, p/g

	if tg >= 3 {
		off := geom.Blankinship(tg, pg, 1)
		if off == 0 {
			return false
		}
		poly := make([]geom.Point, tg)
		for k := range poly {
			poly[k] = pts[(k*off)%tg]
		}
		if geom.PolygonSelfIntersects(poly) {
			return false
		}
	}

	if g > 1 {
		if g < 3 {
			return false
		}
		nodes := make([]geom.Point, g)
		for j := 0; j < tg; j++ {
			for m := range nodes {
				nodes[m] = pts[j+m*tg]
			}
			if geom.PolygonSelfIntersects(nodes) {
				return false
			}
		}
	}

	return true
}
