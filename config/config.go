package config

// Defaults (single source of truth for Default()).
const (
	// DefaultConfidenceThreshold is the minimum winding-pair confidence.
	DefaultConfidenceThreshold = 0.90

	// DefaultRationalSurfaceFactor scales the mean sample spacing into the
	// tolerance of the rational check.
	DefaultRationalSurfaceFactor = 0.10

	// DefaultMaxToroidalWinding bounds the toroidal winding of accepted pairs.
	DefaultMaxToroidalWinding = 50

	// DefaultMinPunctures is the puncture count below which no analysis runs.
	DefaultMinPunctures = 20

	// DefaultMaxPunctures caps every "need more points" request.
	DefaultMaxPunctures = 500

	// DefaultInitialSamples is the first sample target of a new trajectory.
	DefaultInitialSamples = 4000

	// DefaultRationalSurfaceMaxIterations caps search generations per rational.
	DefaultRationalSurfaceMaxIterations = 2

	// DefaultMaxIterations is the absolute search backstop.
	DefaultMaxIterations = 30

	// DefaultMaxSpacing is the recurrence distance (and golden-section span)
	// at which a search trial counts as converged.
	DefaultMaxSpacing = 0.005

	// DefaultMaxSeedSpacing is the largest gap between search seeds.
	DefaultMaxSeedSpacing = 0.5

	// DefaultBracketStep is the first bracket step along the search line.
	DefaultBracketStep = 0.02

	// DefaultVarianceRanks is how many dense variance ranks contribute
	// candidate periods to the winding merge.
	DefaultVarianceRanks = 3

	// DefaultPeriodMode is the periodicity scoring mode.
	DefaultPeriodMode = ModePointDistance
)

// Periodicity scoring modes accepted in PeriodMode.
const (
	ModeCentroidDeviation       = "centroid-deviation"
	ModeCoordinateDeviation     = "coordinate-deviation"
	ModePointDistance           = "point-distance"
	ModeNormalizedPointDistance = "normalized-point-distance"
)

// Override is a user-forced (toroidal, poloidal) winding pair. The zero
// value means "no override".
type Override struct {
	Toroidal int `yaml:"toroidal"`
	Poloidal int `yaml:"poloidal"`
}

// IsZero reports whether no override is set.
func (o Override) IsZero() bool { return o.Toroidal == 0 && o.Poloidal == 0 }

// Config is the full set of tunables. Field comments name the default.
type Config struct {
	// Classification.
	ConfidenceThreshold   float64  `yaml:"confidence_threshold"`    // 0.90
	RationalSurfaceFactor float64  `yaml:"rational_surface_factor"` // 0.10
	MaxToroidalWinding    int      `yaml:"max_toroidal_winding"`    // 50; 0 disables the bound
	Override              Override `yaml:"override"`
	MinPunctures          int      `yaml:"min_punctures"` // 20
	MaxPunctures          int      `yaml:"max_punctures"` // 500
	PeriodMode            string   `yaml:"period_mode"`   // point-distance
	VarianceRanks         int      `yaml:"variance_ranks"`

	// Rational-surface search.
	SearchEnabled                bool    `yaml:"search_enabled"`
	RationalSurfaceMaxIterations int     `yaml:"rational_surface_max_iterations"` // 2
	MaxIterations                int     `yaml:"max_iterations"`                  // 30
	MaxSpacing                   float64 `yaml:"max_spacing"`
	MaxSeedSpacing               float64 `yaml:"max_seed_spacing"`
	BracketStep                  float64 `yaml:"bracket_step"`

	// Engine.
	InitialSamples int `yaml:"initial_samples"`

	// Verbosity gates diagnostics: 0 warn, 1 info, 2+ debug.
	Verbosity int `yaml:"verbosity"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		ConfidenceThreshold:          DefaultConfidenceThreshold,
		RationalSurfaceFactor:        DefaultRationalSurfaceFactor,
		MaxToroidalWinding:           DefaultMaxToroidalWinding,
		MinPunctures:                 DefaultMinPunctures,
		MaxPunctures:                 DefaultMaxPunctures,
		PeriodMode:                   DefaultPeriodMode,
		VarianceRanks:                DefaultVarianceRanks,
		RationalSurfaceMaxIterations: DefaultRationalSurfaceMaxIterations,
		MaxIterations:                DefaultMaxIterations,
		MaxSpacing:                   DefaultMaxSpacing,
		MaxSeedSpacing:               DefaultMaxSeedSpacing,
		BracketStep:                  DefaultBracketStep,
		InitialSamples:               DefaultInitialSamples,
	}
}

// New returns Default() with opts applied in order.
func New(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
