package config

import "math"

const (
	panicThresholdInvalid = "config: WithConfidenceThreshold: threshold must be in (0, 1]"
	panicFactorInvalid    = "config: WithRationalSurfaceFactor: factor must be finite and > 0"
	panicPuncturesInvalid = "config: WithPunctures: need 0 < min <= max"
	panicOverrideInvalid  = "config: WithOverride: windings must be positive"
	panicIterInvalid      = "config: WithIterations: limits must be positive"
	panicSpacingInvalid   = "config: WithSpacing: spacings must be finite and > 0"
	panicModeInvalid      = "config: WithPeriodMode: unknown mode"
)

// Option mutates a Config. Options panic only on nonsensical values.
type Option func(*Config)

// WithConfidenceThreshold sets the winding-pair acceptance threshold.
func WithConfidenceThreshold(v float64) Option {
	if !(v > 0 && v <= 1) {
		panic(panicThresholdInvalid)
	}

	return func(c *Config) { c.ConfidenceThreshold = v }
}

// WithRationalSurfaceFactor sets the rational check tolerance factor.
func WithRationalSurfaceFactor(v float64) Option {
	if !(v > 0) || math.IsInf(v, 0) {
		panic(panicFactorInvalid)
	}

	return func(c *Config) { c.RationalSurfaceFactor = v }
}

// WithMaxToroidalWinding bounds accepted toroidal windings; 0 disables it.
func WithMaxToroidalWinding(n int) Option {
	if n < 0 {
		n = 0
	}

	return func(c *Config) { c.MaxToroidalWinding = n }
}

// WithPunctures sets the minimum and maximum puncture counts.
func WithPunctures(minP, maxP int) Option {
	if minP <= 0 || maxP < minP {
		panic(panicPuncturesInvalid)
	}

	return func(c *Config) {
		c.MinPunctures = minP
		c.MaxPunctures = maxP
	}
}

// WithOverride forces a winding pair when no candidate is drawable.
func WithOverride(toroidal, poloidal int) Option {
	if toroidal <= 0 || poloidal <= 0 {
		panic(panicOverrideInvalid)
	}

	return func(c *Config) { c.Override = Override{Toroidal: toroidal, Poloidal: poloidal} }
}

// WithSearch enables the rational-surface search.
func WithSearch() Option {
	return func(c *Config) { c.SearchEnabled = true }
}

// WithIterations sets the per-rational and absolute search caps.
func WithIterations(perRational, absolute int) Option {
	if perRational <= 0 || absolute <= 0 {
		panic(panicIterInvalid)
	}

	return func(c *Config) {
		c.RationalSurfaceMaxIterations = perRational
		c.MaxIterations = absolute
	}
}

// WithSpacing sets the convergence spacing, seed spacing and bracket step.
func WithSpacing(maxSpacing, seedSpacing, bracketStep float64) Option {
	for _, v := range []float64{maxSpacing, seedSpacing, bracketStep} {
		if !(v > 0) || math.IsInf(v, 0) {
			panic(panicSpacingInvalid)
		}
	}

	return func(c *Config) {
		c.MaxSpacing = maxSpacing
		c.MaxSeedSpacing = seedSpacing
		c.BracketStep = bracketStep
	}
}

// WithPeriodMode selects the periodicity scoring mode.
func WithPeriodMode(mode string) Option {
	if !knownMode(mode) {
		panic(panicModeInvalid)
	}

	return func(c *Config) { c.PeriodMode = mode }
}

// WithInitialSamples sets the first sample target of new trajectories.
func WithInitialSamples(n int) Option {
	if n < 2 {
		n = 2
	}

	return func(c *Config) { c.InitialSamples = n }
}

// WithVerbosity sets the diagnostic level.
func WithVerbosity(v int) Option {
	return func(c *Config) { c.Verbosity = v }
}

func knownMode(mode string) bool {
	switch mode {
	case ModeCentroidDeviation, ModeCoordinateDeviation, ModePointDistance, ModeNormalizedPointDistance:
		return true
	default:
		return false
	}
}
