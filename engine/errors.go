// SPDX-License-Identifier: MIT

package engine

import "errors"

// Sentinel errors returned by the engine.
var (
	// ErrNilIntegrator indicates New was called without an integrator.
	ErrNilIntegrator = errors.New("engine: integrator is nil")

	// ErrRejectedSeed indicates the integrator returned no trajectory for a
	// seed, typically because it lies outside the domain.
	ErrRejectedSeed = errors.New("engine: seed rejected by integrator")

	// ErrRoundLimit indicates Run used up its rounds with work still pending.
	ErrRoundLimit = errors.New("engine: round limit reached before settling")
)
