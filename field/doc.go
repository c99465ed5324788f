// Package field provides analytic magnetic-field models and an Integrator
// that samples their fieldlines.
//
// The models are closed-form maps from a seed point on the φ = 0 poloidal
// plane to the point reached after a toroidal angle φ, which makes them
// exact references for the classifier and the search:
//
//   - Tokamak: nested circular surfaces with q(r) = Q0 + Q2·r²;
//   - IslandChain: an M/N island chain embedded in sheared surfaces.
//
// Integrator samples a Model at StepsPerTurn points per toroidal turn,
// offset by half a step so that every φ = 2πk crossing falls strictly
// between two samples. It satisfies the engine's integrator contract and
// extends several trajectories concurrently.
package field
