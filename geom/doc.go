// Package geom is the geometry kernel of poincare: point and vector
// primitives, orientation and segment-intersection tests, a chain
// (gift-wrapping) convex hull, circle fitting through three points,
// polygon predicates and the small number theory used for winding pairs.
//
// Points and vectors are plain r3.Vector values from github.com/golang/geo.
// Every 2-D predicate in this package reads only the X and Y components;
// callers project their data (for example a poloidal (R, Z) section) into
// that plane first.
//
// All functions are pure and allocation-light. Degenerate inputs never
// panic: they yield documented sentinels such as Degenerate or 0.
//
// Quick map:
//
//	Ccw, SegmentsIntersect           orientation and crossing tests
//	ChainHull, IsConvex              Jarvis march hull and convexity
//	CircleThroughThreePoints         circumcenter with 6-ordering fallback
//	PointInPolygon, PolygonSelfIntersects
//	GCD, GCDList, Blankinship        winding-pair arithmetic
//	GoldenR, GoldenC, Gold           golden-section constants
package geom
