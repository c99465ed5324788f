package geom

// Orientation selects the winding direction of a hull.
type Orientation int

const (
	// CounterClockwise orders hull vertices counter-clockwise.
	CounterClockwise Orientation = iota
	// Clockwise orders hull vertices clockwise.
	Clockwise
)

// ChainHull computes the convex hull of points in the XY plane by
// gift wrapping (Jarvis march) and returns the indices of the hull
// vertices in the requested orientation, starting at the lowest point
// (smallest Y, then smallest X).
//
// Collinear points on a hull edge are skipped; only the far endpoint is
// kept. Duplicate points contribute a single index (the first one seen).
// Fewer than three distinct points yield those points as-is.
//
// Complexity: O(n·h) time for h hull vertices, O(h) space.
func ChainHull(points []Point, dir Orientation) []int {
	n := len(points)
	if n == 0 {
		return nil
	}

	start := 0
	for i := 1; i < n; i++ {
		if points[i].Y < points[start].Y ||
			(points[i].Y == points[start].Y && points[i].X < points[start].X) {
			start = i
		}
	}

	hull := []int{start}
	cur := start
	for guard := 0; guard <= n; guard++ {
		next := -1
		for r := 0; r < n; r++ {
			if r == cur || SamePoint(points[r], points[cur]) {
				continue
			}
			if next == -1 {
				next = r
				continue
			}
			a := points[next].Sub(points[cur])
			b := points[r].Sub(points[cur])
			cross := a.X*b.Y - a.Y*b.X
			if cross < -Epsilon || (cross <= Epsilon && b.Norm2() > a.Norm2()) {
				next = r
			}
		}
		if next == -1 || next == start || SamePoint(points[next], points[start]) {
			break
		}
		hull = append(hull, next)
		cur = next
	}

	if dir == Clockwise && len(hull) > 2 {
		for l, r := 1, len(hull)-1; l < r; l, r = l+1, r-1 {
			hull[l], hull[r] = hull[r], hull[l]
		}
	}

	return hull
}

// IsConvex reports whether every distinct point of the set is a vertex of
// its convex hull, i.e. the points are in convex position. Sets with fewer
// than three points are trivially convex.
//
// Complexity: O(n·h).
func IsConvex(points []Point) bool {
	if len(points) < 3 {
		return true
	}
	onHull := make([]bool, len(points))
	for _, i := range ChainHull(points, CounterClockwise) {
		onHull[i] = true
	}
	for i := range points {
		if onHull[i] {
			continue
		}
		dup := false
		for j := range points {
			if onHull[j] && SamePoint(points[i], points[j]) {
				dup = true
				break
			}
		}
		if !dup {
			return false
		}
	}

	return true
}
