package config

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by Validate and Load.
var (
	ErrConfidence    = errors.New("config: confidence threshold must be in (0, 1]")
	ErrFactor        = errors.New("config: rational surface factor must be finite and > 0")
	ErrPunctures     = errors.New("config: puncture limits must satisfy 0 < min <= max")
	ErrWinding       = errors.New("config: winding limits must be non-negative")
	ErrOverride      = errors.New("config: override windings must both be positive")
	ErrIterations    = errors.New("config: iteration limits must be positive")
	ErrSpacing       = errors.New("config: spacings must be finite and > 0")
	ErrPeriodMode    = errors.New("config: unknown period mode")
	ErrSamples       = errors.New("config: initial samples must be at least 2")
	ErrVarianceRanks = errors.New("config: variance ranks must be positive")
	ErrRead          = errors.New("config: cannot read file")
	ErrParse         = errors.New("config: cannot parse yaml")
)

// Validate checks c and returns the first violated constraint.
//
// Implementation:
//   - Stage 1: classification tunables.
//   - Stage 2: puncture and sample limits.
//   - Stage 3: search tunables (checked even when the search is disabled,
//     so a file stays valid when the switch flips).
//
// Complexity: O(1).
func (c Config) Validate() error {
	// Stage 1
	if !(c.ConfidenceThreshold > 0 && c.ConfidenceThreshold <= 1) {
		return ErrConfidence
	}
	if !finitePositive(c.RationalSurfaceFactor) {
		return ErrFactor
	}
	if c.MaxToroidalWinding < 0 {
		return ErrWinding
	}
	if !c.Override.IsZero() && (c.Override.Toroidal <= 0 || c.Override.Poloidal <= 0) {
		return ErrOverride
	}
	if !knownMode(c.PeriodMode) {
		return fmt.Errorf("%w: %q", ErrPeriodMode, c.PeriodMode)
	}
	if c.VarianceRanks <= 0 {
		return ErrVarianceRanks
	}

	// Stage 2
	if c.MinPunctures <= 0 || c.MaxPunctures < c.MinPunctures {
		return ErrPunctures
	}
	if c.InitialSamples < 2 {
		return ErrSamples
	}

	// Stage 3
	if c.RationalSurfaceMaxIterations <= 0 || c.MaxIterations <= 0 {
		return ErrIterations
	}
	if !finitePositive(c.MaxSpacing) || !finitePositive(c.MaxSeedSpacing) || !finitePositive(c.BracketStep) {
		return ErrSpacing
	}

	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
