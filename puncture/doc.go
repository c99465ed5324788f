// Package puncture turns a trajectory sample sequence into the signals the
// winding analyzer works on:
//
//   - Punctures: forward-direction crossings of a plane through the origin,
//     linearly interpolated between the bracketing samples;
//   - Ridgeline: one point per poloidal revolution (local maxima of Z);
//   - RotationalSum / ToroidalAngle: unwrapped poloidal and toroidal angles;
//   - SafetyFactor: least-squares slope of toroidal vs poloidal angle;
//   - MeanSpacing: the mean inter-sample distance ("delta").
//
// Everything is a pure function of its inputs and is recomputed from
// scratch on each call, because sample sequences keep growing between
// rounds. Cache memoizes the puncture list per trajectory keyed on the
// sample count.
//
// Coordinates: the torus symmetry axis is Z; the toroidal angle is
// atan2(y, x). The default poloidal section is the half plane y = 0, x > 0
// (normal +Y), whose forward crossings happen once per toroidal transit.
package puncture
