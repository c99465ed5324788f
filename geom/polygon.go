package geom

// PointInPolygon reports whether pt lies inside the closed polygon in the
// XY plane using ray casting. Points exactly on an edge may report either
// way. Polygons with fewer than three vertices contain nothing.
//
// Complexity: O(n).
func PointInPolygon(pt Point, polygon []Point) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}
	inside := false
	prev := polygon[n-1]
	for _, cur := range polygon {
		if (prev.Y > pt.Y) != (cur.Y > pt.Y) {
			x := (cur.X-prev.X)*(pt.Y-prev.Y)/(cur.Y-prev.Y) + prev.X
			if pt.X < x {
				inside = !inside
			}
		}
		prev = cur
	}

	return inside
}

// PolygonSelfIntersects reports whether any two non-adjacent edges of the
// closed polygon touch or cross. Coincident vertices count as touching.
//
// Complexity: O(n²).
func PolygonSelfIntersects(polygon []Point) bool {
	n := len(polygon)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a0, a1 := polygon[i], polygon[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // closing edge is adjacent to the first one
			}
			b0, b1 := polygon[j], polygon[(j+1)%n]
			if SegmentsIntersect(a0, a1, b0, b1) != NoIntersection {
				return true
			}
		}
	}

	return false
}

// PolylineSelfIntersects is PolygonSelfIntersects for an open polyline.
//
// Complexity: O(n²).
func PolylineSelfIntersects(line []Point) bool {
	for i := 0; i+1 < len(line); i++ {
		for j := i + 2; j+1 < len(line); j++ {
			if SegmentsIntersect(line[i], line[i+1], line[j], line[j+1]) != NoIntersection {
				return true
			}
		}
	}

	return false
}

// HasDuplicates reports whether two points of pts coincide within Epsilon
// scaled by tol (tol ≤ 0 uses Epsilon).
//
// Complexity: O(n²).
func HasDuplicates(pts []Point, tol float64) bool {
	if tol <= 0 {
		tol = Epsilon
	}
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			if pts[i].Sub(pts[j]).Norm() <= tol {
				return true
			}
		}
	}

	return false
}
