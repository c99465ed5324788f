package geom

// Golden-section constants. Gold extrapolates a bracket outward; GoldenR and
// GoldenC place interior points of a bracketed interval.
const (
	GoldenR = 0.61803398875
	GoldenC = 1 - GoldenR
	Gold    = 1.61803398875
)
