package field

import (
	"errors"
	"math"

	"github.com/katalvlaran/poincare/geom"
)

// Sentinel errors for model construction and integration.
var (
	ErrBadModel          = errors.New("field: invalid model parameters")
	ErrNilModel          = errors.New("field: model is nil")
	ErrNilTrajectory     = errors.New("field: trajectory is nil")
	ErrUnknownTrajectory = errors.New("field: trajectory was not spawned by this integrator")
)

// Model maps a seed on the φ = 0 plane to the fieldline point at toroidal
// angle phi. ok is false when the seed lies outside the model's domain.
type Model interface {
	Trace(seed geom.Point, phi float64) (p geom.Point, ok bool)
}

// section returns the minor radius and poloidal angle of p around the
// magnetic axis at major radius r0.
func section(p geom.Point, r0 float64) (r, theta float64) {
	dr := math.Hypot(p.X, p.Y) - r0

	return math.Hypot(dr, p.Z), math.Atan2(p.Z, dr)
}

// lift returns the 3-D point at minor radius r, poloidal angle theta and
// toroidal angle phi.
func lift(r0, r, theta, phi float64) geom.Point {
	big := r0 + r*math.Cos(theta)

	return geom.Point{X: big * math.Cos(phi), Y: big * math.Sin(phi), Z: r * math.Sin(theta)}
}

// Tokamak has circular flux surfaces around the axis at major radius R0.
// The poloidal angle advances by φ/q(r) with q(r) = Q0 + Q2·r². Shape adds
// an m = ShapeM radial ripple of relative amplitude Shape that leaves the
// seed itself unchanged.
type Tokamak struct {
	R0, Q0, Q2  float64
	MinorRadius float64
	Shape       float64
	ShapeM      int
}

// Validate reports whether the parameters describe a usable model.
func (m Tokamak) Validate() error {
	if !(m.MinorRadius > 0) || !(m.R0 > m.MinorRadius) || !(m.Q0 > 0) || m.Q2 < 0 {
		return ErrBadModel
	}

	return nil
}

// Q returns the safety factor at minor radius r.
func (m Tokamak) Q(r float64) float64 { return m.Q0 + m.Q2*r*r }

// Trace implements Model.
func (m Tokamak) Trace(seed geom.Point, phi float64) (geom.Point, bool) {
	r0, th0 := section(seed, m.R0)
	if r0 > m.MinorRadius {
		return geom.Point{}, false
	}
	th := th0 + phi/m.Q(r0)
	r := r0
	if m.Shape != 0 && m.ShapeM > 0 {
		mf := float64(m.ShapeM)
		r = r0 * (1 + m.Shape*(math.Cos(mf*th)-math.Cos(mf*th0)))
	}

	return lift(m.R0, r, th, phi), true
}

// IslandChain embeds M islands around the q = M/N surface at minor radius
// R1. Inside an island (distance below Width from its center) a fieldline
// circles the island center at Nu·φ/M while the center itself advances
// poloidally at φ·N/M. Outside, surfaces are circular with rotational
// transform N/M + Shear·(r − R1).
type IslandChain struct {
	R0, R1      float64
	M, N        int
	Width       float64
	Nu          float64
	Shear       float64
	Theta0      float64 // poloidal angle of island 0 at φ = 0
	MinorRadius float64
}

// Validate reports whether the parameters describe a usable model.
func (m IslandChain) Validate() error {
	switch {
	case m.M <= 0 || m.N <= 0:
		return ErrBadModel
	case !(m.R1 > 0) || !(m.Width > 0) || m.Width >= m.R1:
		return ErrBadModel
	case !(m.MinorRadius > m.R1+m.Width) || !(m.R0 > m.MinorRadius):
		return ErrBadModel
	}

	return nil
}

// Center returns the section coordinates (R, Z) of island j at φ = 0.
func (m IslandChain) Center(j int) geom.Point {
	th := m.Theta0 + 2*math.Pi*float64(j)/float64(m.M)

	return geom.Point{X: m.R0 + m.R1*math.Cos(th), Y: m.R1 * math.Sin(th)}
}

// Trace implements Model.
func (m IslandChain) Trace(seed geom.Point, phi float64) (geom.Point, bool) {
	r, th := section(seed, m.R0)
	if r > m.MinorRadius {
		return geom.Point{}, false
	}
	mf := float64(m.M)
	for j := 0; j < m.M; j++ {
		thj := m.Theta0 + 2*math.Pi*float64(j)/mf
		a := r - m.R1
		b := m.R1 * geom.WrapAngle(th-thj)
		rho := math.Hypot(a, b)
		if rho >= m.Width {
			continue
		}
		psi := math.Atan2(b, a) + m.Nu*phi/mf
		thc := thj + phi*float64(m.N)/mf
		rr := m.R1 + rho*math.Cos(psi)

		return lift(m.R0, rr, thc+rho*math.Sin(psi)/m.R1, phi), true
	}
	iota := float64(m.N)/mf + m.Shear*(r-m.R1)

	return lift(m.R0, r, th+phi*iota, phi), true
}
