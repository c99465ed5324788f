// Package search locates rational surfaces precisely once the classifier
// has found one.
//
// A trajectory classified Rational becomes an OriginalRational record. Its
// first puncture and the puncture of the adjacent toroidal group
// (WindingGroupOffset later) span a chord; seeds are spread along that
// chord and launched as SearchingSeed trajectories. Each seed then searches
// the line through it, perpendicular to the chord, for the launch point
// whose recurrence distance (the gap between a puncture and the puncture
// ToroidalWinding turns later) is smallest.
//
// The search along one line runs in two phases:
//
//   - bracketing: a triple A, B, C is grown outward by the golden ratio
//     until B is no worse than both neighbors;
//   - golden-section: a quartet X0 < X1 < X2 < X3 is narrowed by GoldenR
//     per step until its span drops below MaxSpacing.
//
// Every probe is its own trajectory, so each step spawns at most one new
// trajectory and waits a round for the integrator to fill it. The B member
// drives the bracketing phase, the X0 member drives the golden-section
// phase; the other members are passive. The winner is promoted to
// WaitingSeed; when every seed of a rational waits, they all become
// FinishedSeed.
//
// Controller.Step dispatches one transition function per
// (AnalysisMethod, SearchState) pair. Transitions never mutate the arena
// directly: they queue commands on a fieldline.Batch that the caller
// applies after the whole pass.
//
// The pure line-search arithmetic (PrepareToBracket, UpdateBracket,
// InitGolden, GoldenStep) is exported separately.
package search
