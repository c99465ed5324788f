package geom

import "math"

// Intersection classifies the relation between two line segments.
type Intersection int

const (
	// NoIntersection: disjoint bounding boxes or no crossing.
	NoIntersection Intersection = iota
	// ProperCrossing: the segments cross at an interior point of both.
	ProperCrossing
	// SharedEndpoint: the segments share an endpoint.
	SharedEndpoint
	// EndpointOnSegment: an endpoint of one segment lies on the other.
	EndpointOnSegment
)

// String returns a short label for the relation.
func (i Intersection) String() string {
	switch i {
	case NoIntersection:
		return "none"
	case ProperCrossing:
		return "proper"
	case SharedEndpoint:
		return "shared-endpoint"
	case EndpointOnSegment:
		return "endpoint-on-segment"
	default:
		return "unknown"
	}
}

// Ccw reports the orientation of v1 relative to v0 in the XY plane.
//
// Returns:
//   - +1 when v1 is counter-clockwise from v0,
//   - −1 when v1 is clockwise from v0,
//   - 0 for the collinear case where v1 lies between the origin and v0.
//
// When the cross product is within Epsilon of zero the vectors are
// collinear and the sign is decided without it: opposite directions give
// −1, a strictly longer v1 gives +1, anything else 0. This keeps the
// result stable for near-zero cross products.
//
// Complexity: O(1).
func Ccw(v0, v1 Vector) int {
	cross := v0.X*v1.Y - v0.Y*v1.X
	if cross > Epsilon {
		return 1
	}
	if cross < -Epsilon {
		return -1
	}
	if v0.X*v1.X < 0 || v0.Y*v1.Y < 0 {
		return -1
	}
	if v0.X*v0.X+v0.Y*v0.Y < v1.X*v1.X+v1.Y*v1.Y {
		return 1
	}

	return 0
}

// SegmentsIntersect tests segment p0–p1 against segment q0–q1 in the XY
// plane.
//
// Implementation:
//   - Stage 1: shared endpoints short-circuit to SharedEndpoint.
//   - Stage 2: bounding-box rejection.
//   - Stage 3: ccw products of each segment against the other's endpoints.
//     Both negative is a ProperCrossing; a zero product (an endpoint on the
//     other segment) with the other product non-positive is EndpointOnSegment.
//
// Complexity: O(1).
func SegmentsIntersect(p0, p1, q0, q1 Point) Intersection {
	if SamePoint(p0, q0) || SamePoint(p0, q1) || SamePoint(p1, q0) || SamePoint(p1, q1) {
		return SharedEndpoint
	}

	if math.Max(p0.X, p1.X) < math.Min(q0.X, q1.X) ||
		math.Max(q0.X, q1.X) < math.Min(p0.X, p1.X) ||
		math.Max(p0.Y, p1.Y) < math.Min(q0.Y, q1.Y) ||
		math.Max(q0.Y, q1.Y) < math.Min(p0.Y, p1.Y) {
		return NoIntersection
	}

	dp := p1.Sub(p0)
	dq := q1.Sub(q0)
	c0 := Ccw(dp, q0.Sub(p0)) * Ccw(dp, q1.Sub(p0))
	c1 := Ccw(dq, p0.Sub(q0)) * Ccw(dq, p1.Sub(q0))

	switch {
	case c0 < 0 && c1 < 0:
		return ProperCrossing
	case c0 <= 0 && c1 <= 0:
		return EndpointOnSegment
	default:
		return NoIntersection
	}
}
