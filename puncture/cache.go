package puncture

import "github.com/katalvlaran/poincare/geom"

// Cache memoizes the puncture list of one growing sample sequence. The
// entry is reused while the sample count and plane normal are unchanged
// and recomputed otherwise; sample sequences are append-only, so the count
// is a sufficient key.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	n      int
	normal geom.Vector
	valid  bool
	pts    []geom.Point
}

// Punctures returns Punctures(samples, normal), computing it only when the
// key changed since the last call.
func (c *Cache) Punctures(samples []geom.Point, normal geom.Vector) []geom.Point {
	if c.valid && c.n == len(samples) && c.normal == normal {
		return c.pts
	}
	c.pts = Punctures(samples, normal)
	c.n = len(samples)
	c.normal = normal
	c.valid = true

	return c.pts
}

// Reset drops the memoized entry.
func (c *Cache) Reset() {
	*c = Cache{}
}
