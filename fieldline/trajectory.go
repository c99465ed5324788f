package fieldline

import (
	"github.com/katalvlaran/poincare/geom"
	"github.com/katalvlaran/poincare/puncture"
)

// Trajectory is one fieldline: an append-only sample sequence produced by
// the external integrator plus its Properties.
type Trajectory struct {
	ID    ID
	Props Properties

	// Samples grows monotonically; it is never truncated.
	Samples []geom.Point

	// Requested is the sample count most recently asked of the integrator.
	Requested int

	// Stopped is set when the integrator ended the trajectory for its own
	// reasons (left the domain, hit a limit) rather than on request.
	Stopped bool

	cache puncture.Cache
}

// NewTrajectory returns a trajectory launched at seed with props.
func NewTrajectory(id ID, seed geom.Point, props Properties) *Trajectory {
	props.SrcPt = seed

	return &Trajectory{ID: id, Props: props, Samples: []geom.Point{}}
}

// Append adds samples to the end of the sequence.
func (t *Trajectory) Append(pts ...geom.Point) {
	t.Samples = append(t.Samples, pts...)
}

// Punctures returns the forward crossings of the default poloidal section,
// memoized on the sample count.
func (t *Trajectory) Punctures() []geom.Point {
	return t.cache.Punctures(t.Samples, puncture.PoloidalNormal)
}

// Section returns the punctures in section coordinates (R, Z).
func (t *Trajectory) Section() []geom.Point {
	return puncture.Poloidal(t.Punctures())
}

// Ready reports whether the integrator has delivered every requested
// sample, or has stopped.
func (t *Trajectory) Ready() bool {
	return t.Stopped || len(t.Samples) >= t.Requested
}
