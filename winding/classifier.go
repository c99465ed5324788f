package winding

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/poincare/config"
	"github.com/katalvlaran/poincare/fieldline"
	"github.com/katalvlaran/poincare/geom"
	"github.com/katalvlaran/poincare/puncture"
)

// duplicateFraction scales the mean sample spacing into the tolerance under
// which two punctures count as the same vertex in Drawable.
const duplicateFraction = 1e-3

// Analysis is the full periodicity analysis of one sample sequence. It is
// what Classify decides on, exposed for diagnostics and tests.
type Analysis struct {
	Section      []geom.Point // punctures in section coordinates
	Axis         geom.Point   // magnetic axis estimate (section coordinates)
	Delta        float64      // mean sample spacing
	SafetyFactor float64
	Counts       []int // poloidal winding count at each puncture

	Table      []Pair // confidence table by toroidal winding
	Collapsed  []Pair // collapsed and ranked
	Toroidal   []Period
	Poloidal   []Period
	Candidates []Candidate

	// ConfidencePair is the first drawable pair by confidence alone.
	ConfidencePair    Pair
	HasConfidencePair bool

	// Pair is the chosen winding pair; Found is false when no candidate is
	// drawable.
	Pair              Pair
	Found             bool
	Offset            int
	Resonance         int
	ResonanceFallback bool
}

// Classifier runs the winding analysis and classification.
type Classifier struct {
	cfg  config.Config
	mode Mode
	log  *slog.Logger
}

// NewClassifier validates cfg and returns a Classifier. A nil logger
// discards.
func NewClassifier(cfg config.Config, log *slog.Logger) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := ParseMode(cfg.PeriodMode)
	if err != nil {
		return nil, err
	}

	return &Classifier{cfg: cfg, mode: mode, log: config.OrNop(log)}, nil
}

// Analyze runs the periodicity analysis on samples.
//
// Implementation:
//   - Stage 1: punctures, section coordinates, axis, rotational sum; every
//     puncture is tagged with floor(rotational sum / 2π) interpolated at
//     the crossing.
//   - Stage 2: confidence table, collapse and ranks.
//   - Stage 3: periodicity stats on punctures and on ridgeline points.
//   - Stage 4: confidence-only candidate, then the merged candidate list;
//     the first drawable candidate within MaxToroidalWinding wins.
//   - Stage 5: Blankinship offset and resonance of the winner.
//
// Complexity: O(S + n²) for S samples and n punctures.
func (c *Classifier) Analyze(samples []geom.Point) Analysis {
	var a Analysis

	// Stage 1
	cs := puncture.Crossings(samples, puncture.PoloidalNormal)
	pts := make([]geom.Point, len(cs))
	for i, cr := range cs {
		pts[i] = cr.Point
	}
	a.Section = puncture.Poloidal(pts)
	a.Axis = puncture.Axis(a.Section)
	a.Delta = puncture.MeanSpacing(samples)
	rot := puncture.RotationalSum(samples, a.Axis)
	a.SafetyFactor = puncture.SafetyFactor(puncture.ToroidalAngle(samples), rot)
	a.Counts = make([]int, len(cs))
	for i, cr := range cs {
		r := rot[cr.Index]
		if cr.Index+1 < len(rot) {
			r += cr.T * (rot[cr.Index+1] - rot[cr.Index])
		}
		a.Counts[i] = int(math.Floor(r / (2 * math.Pi)))
	}

	// Stage 2
	a.Table = PoloidalWindingCheck(a.Counts)
	a.Collapsed = RankByConfidence(Collapse(a.Table))

	// Stage 3
	n := len(a.Section)
	a.Toroidal = PeriodicityStats(a.Section, n/2, c.mode)
	ridge := puncture.RidgePoints(puncture.Ridgeline(samples))
	a.Poloidal = PeriodicityStats(ridge, len(ridge)/2, c.mode)

	// Stage 4
	tol := a.Delta * duplicateFraction
	for _, p := range a.Collapsed {
		if p.Confidence < c.cfg.ConfidenceThreshold {
			break
		}
		if c.withinBound(p.Toroidal) && Drawable(a.Section, p, tol) {
			a.ConfidencePair, a.HasConfidencePair = p, true
			break
		}
	}
	a.Candidates = MergeRanks(a.Table, a.Collapsed, a.Toroidal, a.Poloidal,
		c.cfg.ConfidenceThreshold, c.cfg.VarianceRanks)
	for _, cand := range a.Candidates {
		if c.withinBound(cand.Toroidal) && Drawable(a.Section, cand.Pair, tol) {
			a.Pair, a.Found = cand.Pair, true
			break
		}
	}

	// Stage 5
	if a.Found {
		c.resolve(&a, a.Pair)
	}

	return a
}

// resolve fills Offset and Resonance for pair.
func (c *Classifier) resolve(a *Analysis, pair Pair) {
	a.Offset = geom.Blankinship(pair.Toroidal, pair.Poloidal, 1)
	a.Resonance, a.ResonanceFallback = ResonanceCheck(
		Windings(a.Table, c.cfg.ConfidenceThreshold), pair.Toroidal, 1)
}

func (c *Classifier) withinBound(t int) bool {
	return c.cfg.MaxToroidalWinding == 0 || t <= c.cfg.MaxToroidalWinding
}

// Classify returns the updated properties of tr. Terminal trajectories are
// returned unchanged. tr itself is not modified.
//
// Decision order:
//   - too few punctures → AddingPoints;
//   - no drawable pair → the override pair if one is set, else more
//     punctures, else Chaotic once MaxPunctures is reached;
//   - toroidal resonance > 1, or a 1:1 pair → IslandChain or
//     IslandsWithinIslands (more punctures while the node count is
//     implausibly low);
//   - RationalCheck → Rational;
//   - otherwise FluxSurface once the node count per group is resolved.
//
// A trajectory the integrator stopped is Terminated instead of waiting for
// punctures it will never get.
func (c *Classifier) Classify(tr *fieldline.Trajectory) fieldline.Properties {
	if tr.Props.AnalysisState.Terminal() {
		return tr.Props
	}
	props := tr.Props.Clone()
	maxP := props.MaxPunctures
	if maxP <= 0 {
		maxP = c.cfg.MaxPunctures
	}
	n := len(tr.Punctures())
	if n < c.cfg.MinPunctures {
		return c.needMore(tr, props, c.cfg.MinPunctures, maxP, n)
	}
	canGrow := n < maxP && !tr.Stopped

	a := c.Analyze(tr.Samples)
	props.SafetyFactor = a.SafetyFactor
	pair := a.Pair
	if !a.Found {
		override := props.Override
		if override.IsZero() {
			override = fieldline.WindingPair{Toroidal: c.cfg.Override.Toroidal, Poloidal: c.cfg.Override.Poloidal}
		}
		switch {
		case !override.IsZero():
			pair = Pair{Toroidal: override.Toroidal, Poloidal: override.Poloidal}
			c.resolve(&a, pair)
			c.log.Debug("no drawable winding pair, using override", "id", tr.ID, "pair", override)
		case canGrow:
			return c.needMore(tr, props, 2*n, maxP, n)
		default:
			props.Type = fieldline.Chaotic
			props.AnalysisState = fieldline.Completed
			props.NPuncturesNeeded = 0
			c.log.Info("classified", "id", tr.ID, "type", props.Type, "punctures", n)

			return props
		}
	}

	t, p := pair.Toroidal, pair.Poloidal
	props.ToroidalWinding = t
	props.PoloidalWinding = p
	props.WindingGroupOffset = a.Offset
	props.ToroidalResonance = a.Resonance
	if a.ResonanceFallback {
		c.log.Debug("resonance unconfirmed, most frequent gcd used", "id", tr.ID, "resonance", a.Resonance)
	}

	if a.Resonance > 1 || (t == 1 && p == 1) {
		return c.islands(tr, props, a, n, maxP, canGrow)
	}

	nnodes, ok := RationalCheck(a.Section, t, a.Delta, c.cfg.RationalSurfaceFactor)
	switch {
	case nnodes < 0:
		return c.needMore(tr, props, max(2*t, n+t), maxP, n)
	case ok:
		props.Type = fieldline.Rational
		props.NNodes = nnodes
		return c.complete(tr, props, n)
	}

	nodes, needed := FluxSurfaceNodes(a.Section, t, a.Offset, a.Axis)
	if nodes < 0 && canGrow {
		if needed <= n {
			needed = 2 * n
		}
		return c.needMore(tr, props, needed, maxP, n)
	}
	if nodes < 0 {
		nodes = n / t
	}
	props.Type = fieldline.FluxSurface
	props.NNodes = nodes

	return c.complete(tr, props, n)
}

// islands finishes the classification of an island structure.
func (c *Classifier) islands(tr *fieldline.Trajectory, props fieldline.Properties, a Analysis, n, maxP int, canGrow bool) fieldline.Properties {
	t, p := props.ToroidalWinding, props.PoloidalWinding
	g := geom.GCD(t, p)
	tg := t / g
	windingP := max(IslandWinding(a.Section, tg, g), 1)
	resGCD := geom.GCD(props.ToroidalResonance, windingP)

	props.PoloidalWindingP = windingP
	props.PoloidalResonance = geom.GCD(p, props.ToroidalResonance)
	props.Islands = t / props.ToroidalResonance
	props.IslandGroups = resGCD
	props.NNodes = g / resGCD
	props.Type = fieldline.IslandChain
	if resGCD > 1 {
		props.Type = fieldline.IslandsWithinIslands
	}

	lowNodes := props.NNodes < 4 || (t == 1 && p == 1 && props.NNodes <= 5)
	if lowNodes && canGrow {
		return c.needMore(tr, props, 2*n, maxP, n)
	}
	props.OPoints = IslandCenters(a.Section, tg)

	return c.complete(tr, props, n)
}

func (c *Classifier) complete(tr *fieldline.Trajectory, props fieldline.Properties, n int) fieldline.Properties {
	props.AnalysisState = fieldline.Completed
	props.NPuncturesNeeded = 0
	c.log.Info("classified",
		"id", tr.ID,
		"type", props.Type,
		"toroidal", props.ToroidalWinding,
		"poloidal", props.PoloidalWinding,
		"nnodes", props.NNodes,
		"punctures", n)

	return props
}

// needMore asks for needed punctures (capped at maxP). A trajectory that
// cannot grow past its n punctures, because the integrator stopped it or
// the cap is reached, is Terminated instead.
func (c *Classifier) needMore(tr *fieldline.Trajectory, props fieldline.Properties, needed, maxP, n int) fieldline.Properties {
	needed = min(needed, maxP)
	if tr.Stopped || needed <= n {
		props.AnalysisState = fieldline.Terminated
		props.NPuncturesNeeded = 0
		c.log.Debug("cannot reach the punctures needed", "id", tr.ID, "punctures", n)

		return props
	}
	props.AnalysisState = fieldline.AddingPoints
	props.NPuncturesNeeded = needed
	c.log.Debug("need more punctures", "id", tr.ID, "needed", needed)

	return props
}
