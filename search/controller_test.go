package search_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/poincare/config"
	"github.com/katalvlaran/poincare/field"
	"github.com/katalvlaran/poincare/fieldline"
	"github.com/katalvlaran/poincare/geom"
	"github.com/katalvlaran/poincare/search"
	"github.com/katalvlaran/poincare/winding"
)

const deg = math.Pi / 180

// session wires an integrator, classifier and controller over one arena
// and runs rounds the way the engine does.
type session struct {
	t     *testing.T
	in    *field.Integrator
	sp    fieldline.Spawner
	arena *fieldline.Arena
	cl    *winding.Classifier
	ctl   *search.Controller
	cfg   config.Config
}

func newSession(t *testing.T, m field.Model, cfg config.Config, seeds ...geom.Point) *session {
	t.Helper()
	in, err := field.NewIntegrator(m, nil)
	require.NoError(t, err)
	cl, err := winding.NewClassifier(cfg, nil)
	require.NoError(t, err)
	ctl, err := search.NewController(cfg, nil)
	require.NoError(t, err)
	s := &session{t: t, in: in, sp: in, arena: fieldline.NewArena(), cl: cl, ctl: ctl, cfg: cfg}
	for _, seed := range seeds {
		trs, err := in.Spawn(context.Background(), seed, geom.Vector{})
		require.NoError(t, err)
		require.Len(t, trs, 1)
		require.NoError(t, s.arena.Insert(trs[0]))
	}

	return s
}

// round extends, terminates, classifies, steps the controller and applies
// the batch. It reports whether everything is settled afterwards.
func (s *session) round() bool {
	ctx := context.Background()
	steps := s.in.StepsPerTurn()
	for _, tr := range s.arena.Live() {
		need := max(tr.Props.NPuncturesNeeded, s.cfg.MinPunctures)
		if tr.Props.AnalysisState.Terminal() || len(tr.Punctures()) >= need {
			continue
		}
		require.NoError(s.t, s.in.ExtendSamples(ctx, tr, (need+1)*steps))
	}
	for _, tr := range s.arena.Live() {
		need := max(tr.Props.NPuncturesNeeded, s.cfg.MinPunctures)
		if tr.Stopped && !tr.Props.AnalysisState.Terminal() && len(tr.Punctures()) < need {
			tr.Props.AnalysisState = fieldline.Terminated
			tr.Props.NPuncturesNeeded = 0
		}
	}
	for _, tr := range s.arena.Live() {
		if tr.Props.AnalysisMethod == fieldline.Default && !tr.Props.AnalysisState.Terminal() {
			tr.Props = s.cl.Classify(tr)
		}
	}
	var b fieldline.Batch
	s.ctl.Step(s.arena, &b)
	_, err := s.arena.Apply(ctx, &b, s.sp)
	require.NoError(s.t, err)

	for _, tr := range s.arena.Live() {
		if tr.Props.AnalysisMethod == fieldline.Default && !tr.Props.AnalysisState.Terminal() {
			return false
		}
	}

	return s.ctl.Settled(s.arena)
}

func (s *session) run(maxRounds int) int {
	for r := 1; r <= maxRounds; r++ {
		if s.round() {
			return r
		}
	}
	s.t.Fatalf("not settled after %d rounds", maxRounds)

	return 0
}

// insert launches a trajectory at seed with props and extends it to
// punctures crossings of the section.
func (s *session) insert(seed geom.Point, props fieldline.Properties, punctures int) *fieldline.Trajectory {
	s.t.Helper()
	trs, err := s.in.Spawn(context.Background(), seed, geom.Vector{})
	require.NoError(s.t, err)
	require.Len(s.t, trs, 1)
	tr := trs[0]
	props.SrcPt = tr.Props.SrcPt
	tr.Props = props
	require.NoError(s.t, s.arena.Insert(tr))
	if punctures > 0 {
		require.NoError(s.t, s.in.ExtendSamples(context.Background(), tr, punctures*s.in.StepsPerTurn()))
		require.Len(s.t, tr.Punctures(), punctures)
	}

	return tr
}

// rational inserts a finished 5:2 OriginalRational record at r = 0.5.
func (s *session) rational() *fieldline.Trajectory {
	return s.insert(seedAt(0.5, 0), fieldline.Properties{
		Type:            fieldline.Rational,
		AnalysisState:   fieldline.Completed,
		AnalysisMethod:  fieldline.Default,
		SearchState:     fieldline.OriginalRational,
		ToroidalWinding: 5,
		PoloidalWinding: 2,
	}, 0)
}

// onLine inserts a search trajectory of orig at x along the outward radial
// line through r = 0.5, θ = 0, where q = 5/2.
func (s *session) onLine(orig *fieldline.Trajectory, method fieldline.AnalysisMethod, state fieldline.SearchState, x float64, punctures int) *fieldline.Trajectory {
	props := fieldline.Properties{
		AnalysisMethod:   method,
		SearchState:      state,
		AnalysisState:    fieldline.AddingPoints,
		ToroidalWinding:  5,
		PoloidalWinding:  2,
		NPuncturesNeeded: 11,
		Iteration:        1,
		SrcRational:      orig.ID,
		SearchOrigin:     seedAt(0.5, 0),
		SearchDir:        geom.Vector{X: 1},
		X:                x,
	}

	return s.insert(props.LaunchPoint(), props, punctures)
}

// bracket lays out orig with a seed slot A at x = 0 driven by B at 0.02,
// and C at 0.02·(1+Gold).
func (s *session) bracket() (orig, a, b, c *fieldline.Trajectory) {
	orig = s.rational()
	xb, xc := search.PrepareToBracket(0, 0.02)
	a = s.onLine(orig, fieldline.RationalMinimize, fieldline.MinimizingA, 0, 11)
	c = s.onLine(orig, fieldline.RationalMinimize, fieldline.MinimizingC, xc, 11)
	b = s.onLine(orig, fieldline.RationalMinimize, fieldline.MinimizingB, xb, 11)
	for _, tr := range []*fieldline.Trajectory{a, b, c} {
		tr.Props.SrcSeed = a.ID
	}
	b.Props.Iteration, c.Props.Iteration = 2, 2
	b.Props.Bracket = fieldline.Bracket{A: a.ID, C: c.ID}
	orig.Props.Children = []fieldline.ID{a.ID}

	return orig, a, b, c
}

// rejectAfter lets the first n spawns through and rejects the rest.
type rejectAfter struct {
	fieldline.Spawner
	n, calls, rejected int
}

func (r *rejectAfter) Spawn(ctx context.Context, seed geom.Point, hint geom.Vector) ([]*fieldline.Trajectory, error) {
	r.calls++
	if r.calls > r.n {
		r.rejected++

		return nil, nil
	}

	return r.Spawner.Spawn(ctx, seed, hint)
}

func seedAt(r, th float64) geom.Point {
	return geom.Pt(3+r*math.Cos(th), 0, r*math.Sin(th))
}

func originals(a *fieldline.Arena) []*fieldline.Trajectory {
	var out []*fieldline.Trajectory
	for _, tr := range a.Live() {
		if tr.Props.SearchState == fieldline.OriginalRational {
			out = append(out, tr)
		}
	}

	return out
}

func TestSeedPointsAndDirection(t *testing.T) {
	p1, p2 := seedAt(0.5, 10*deg), seedAt(0.5, 82*deg)
	seeds := search.SeedPoints(p1, p2, 0.5)
	require.Len(t, seeds, 1)
	assert.InDelta(t, 0.5*math.Cos(36*deg), seeds[0].Sub(geom.Pt(3, 0, 0)).Norm(), 1e-12)

	seeds = search.SeedPoints(p1, p2, 0.1)
	require.Len(t, seeds, 5)
	assert.InDelta(t, seeds[0].Distance(p1), seeds[1].Distance(seeds[0]), 1e-12)
	assert.Nil(t, search.SeedPoints(p1, p1, 0.1))

	dir := search.SearchDirection(p1, p2, geom.Pt(3, 0, 0))
	assert.InDelta(t, 1, dir.Norm(), 1e-12)
	assert.InDelta(t, 0, dir.Dot(p2.Sub(p1)), 1e-12)
	assert.InDelta(t, 0, dir.Y, 0)
	// radial at the chord midpoint, pointing outward
	assert.InDelta(t, math.Cos(46*deg), dir.X, 1e-12)
	assert.InDelta(t, math.Sin(46*deg), dir.Z, 1e-12)
}

func TestRecurrenceDistance(t *testing.T) {
	ctx := context.Background()
	in, err := field.NewIntegrator(field.Tokamak{R0: 3, Q0: 2.5, MinorRadius: 1}, nil)
	require.NoError(t, err)
	trs, err := in.Spawn(ctx, seedAt(0.5, 10*deg), geom.Vector{})
	require.NoError(t, err)
	tr := trs[0]
	tr.Props.ToroidalWinding = 5

	require.NoError(t, in.ExtendSamples(ctx, tr, 3*in.StepsPerTurn()))
	assert.Equal(t, -1.0, search.RecurrenceDistance(tr))

	require.NoError(t, in.ExtendSamples(ctx, tr, 7*in.StepsPerTurn()))
	assert.InDelta(t, 0, search.RecurrenceDistance(tr), 1e-9)

	tr.Props.ToroidalWinding = 2
	assert.InDelta(t, 2*0.5*math.Sin(36*deg), search.RecurrenceDistance(tr), 5e-3)

	assert.True(t, search.NeedToMinimize(0.1, 0.005))
	assert.False(t, search.NeedToMinimize(0.005, 0.005))
}

func TestSearchDisabled(t *testing.T) {
	s := newSession(t, field.Tokamak{R0: 3, Q0: 2.5, MinorRadius: 1}, config.Default(), seedAt(0.5, 10*deg))
	assert.Equal(t, 1, s.run(3))
	assert.Empty(t, originals(s.arena))
	assert.Equal(t, 1, s.arena.Len())
}

func TestSearchSeedsAlreadyOnSurface(t *testing.T) {
	cfg := config.New(config.WithSearch(), config.WithSpacing(0.005, 0.2, 0.02))
	s := newSession(t, field.Tokamak{R0: 3, Q0: 2.5, MinorRadius: 1}, cfg, seedAt(0.5, 10*deg))
	rounds := s.run(10)
	assert.Equal(t, 3, rounds)

	orig := originals(s.arena)
	require.Len(t, orig, 1)
	kids := s.arena.Children(orig[0].ID)
	require.Len(t, kids, 2)
	for _, k := range kids {
		assert.Equal(t, fieldline.FinishedSeed, k.Props.SearchState)
		assert.Equal(t, orig[0].ID, k.Props.SrcRational)
		assert.Equal(t, 1, k.Props.Iteration)
		assert.Zero(t, k.Props.X)
	}
	assert.Equal(t, 3, s.arena.Len())
}

func TestSearchConvergesOnRationalSurface(t *testing.T) {
	// q(r) = 2 + 2r² crosses 5/2 at r = 0.5; the seed between the anchors
	// sits at r = 0.5·cos 36°.
	cfg := config.New(
		config.WithSearch(),
		config.WithIterations(30, 30),
		config.WithSpacing(0.005, 0.5, 0.02),
	)
	m := field.Tokamak{R0: 3, Q0: 2, Q2: 2, MinorRadius: 1}
	s := newSession(t, m, cfg, seedAt(0.5, 10*deg))
	s.run(40)

	orig := originals(s.arena)
	require.Len(t, orig, 1)
	assert.Equal(t, fieldline.Rational, orig[0].Props.Type)
	kids := s.arena.Children(orig[0].ID)
	require.Len(t, kids, 1)
	best := kids[0]
	assert.Equal(t, fieldline.FinishedSeed, best.Props.SearchState)
	assert.Equal(t, best.ID, best.Props.SrcSeed)
	assert.InDelta(t, 0.5-0.5*math.Cos(36*deg), best.Props.X, 0.006)
	assert.Less(t, search.RecurrenceDistance(best), 0.03)
	assert.Greater(t, best.Props.Iteration, 3)

	// every trial but the winner is gone
	assert.Equal(t, 2, s.arena.Len())
}

func TestSearchIterationCapPicksBest(t *testing.T) {
	cfg := config.New(config.WithSearch(), config.WithSpacing(0.005, 0.5, 0.02))
	m := field.Tokamak{R0: 3, Q0: 2, Q2: 2, MinorRadius: 1}
	s := newSession(t, m, cfg, seedAt(0.5, 10*deg))
	s.run(20)

	orig := originals(s.arena)
	require.Len(t, orig, 1)
	kids := s.arena.Children(orig[0].ID)
	require.Len(t, kids, 1)
	best := kids[0]
	assert.Equal(t, fieldline.FinishedSeed, best.Props.SearchState)
	assert.InDelta(t, 0.02*(1+geom.Gold+geom.Gold*geom.Gold), best.Props.X, 1e-9)
	assert.Equal(t, 2, s.arena.Len())
}

func TestSearchSurvivesRejectedSpawns(t *testing.T) {
	cfg := config.New(
		config.WithSearch(),
		config.WithIterations(30, 30),
		config.WithSpacing(0.005, 0.5, 0.02),
	)
	m := field.Tokamak{R0: 3, Q0: 2, Q2: 2, MinorRadius: 1}
	tests := []struct {
		name string
		n    int
	}{
		// spawns: 1 seed, 2 first C, 3 first B, then extensions and golden trials
		{"first B", 2},
		{"first extension", 3},
		{"second extension", 4},
		{"first golden trial", 5},
		{"later golden trial", 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newSession(t, m, cfg, seedAt(0.5, 10*deg))
			sp := &rejectAfter{Spawner: s.in, n: tc.n}
			s.sp = sp
			s.run(40)
			assert.Positive(t, sp.rejected)

			orig := originals(s.arena)
			require.Len(t, orig, 1)
			kids := s.arena.Children(orig[0].ID)
			require.Len(t, kids, 1)
			assert.Equal(t, fieldline.FinishedSeed, kids[0].Props.SearchState)
			assert.Equal(t, kids[0].ID, kids[0].Props.SrcSeed)
			assert.GreaterOrEqual(t, search.RecurrenceDistance(kids[0]), 0.0)
			assert.Equal(t, 2, s.arena.Len())
		})
	}
}

func TestSearchOrphanedBracketPicksBest(t *testing.T) {
	cfg := config.New(config.WithSearch(), config.WithSpacing(0.005, 0.5, 0.02))
	s := newSession(t, field.Tokamak{R0: 3, Q0: 2, Q2: 2, MinorRadius: 1}, cfg)
	orig, a, b, c := s.bracket()
	require.NoError(t, s.arena.Remove(b.ID))

	assert.False(t, s.round())
	assert.False(t, s.arena.Has(c.ID))
	assert.Equal(t, fieldline.RationalSearch, a.Props.AnalysisMethod)
	assert.Equal(t, fieldline.WaitingSeed, a.Props.SearchState)

	assert.True(t, s.round())
	assert.Equal(t, []fieldline.ID{a.ID}, orig.Props.Children)
	assert.Equal(t, fieldline.FinishedSeed, a.Props.SearchState)
}

func TestSearchSwapReversesBracket(t *testing.T) {
	// A sits on q = 5/2; B is worse, so the bracket turns back past A.
	cfg := config.New(
		config.WithSearch(),
		config.WithIterations(30, 30),
		config.WithSpacing(0.005, 0.5, 0.02),
	)
	s := newSession(t, field.Tokamak{R0: 3, Q0: 2, Q2: 2, MinorRadius: 1}, cfg)
	orig, a, b, c := s.bracket()
	require.Greater(t, search.RecurrenceDistance(b), search.RecurrenceDistance(a))

	assert.False(t, s.round())
	assert.False(t, s.arena.Has(c.ID))
	assert.Equal(t, fieldline.MinimizingA, b.Props.SearchState)
	assert.Equal(t, fieldline.MinimizingB, a.Props.SearchState)
	assert.Equal(t, b.ID, a.Props.Bracket.A)
	next, ok := s.arena.Get(a.Props.Bracket.C)
	require.True(t, ok)
	assert.Equal(t, fieldline.MinimizingC, next.Props.SearchState)
	assert.InDelta(t, -0.02*geom.Gold, next.Props.X, 1e-12)
	assert.Equal(t, 3, next.Props.Iteration)

	s.run(40)
	kids := s.arena.Children(orig.ID)
	require.Len(t, kids, 1)
	assert.Equal(t, fieldline.FinishedSeed, kids[0].Props.SearchState)
	assert.InDelta(t, 0, kids[0].Props.X, 0.006)
	assert.Equal(t, 2, s.arena.Len())
}

func TestSearchRetiresTerminatedSeed(t *testing.T) {
	cfg := config.New(config.WithSearch(), config.WithSpacing(0.005, 0.5, 0.02))
	s := newSession(t, field.Tokamak{R0: 3, Q0: 2, Q2: 2, MinorRadius: 1}, cfg)
	orig := s.rational()
	seed := s.onLine(orig, fieldline.RationalSearch, fieldline.SearchingSeed, -0.1, 8)
	seed.Props.SrcSeed = seed.ID
	seed.Props.Iteration = 1
	orig.Props.Children = []fieldline.ID{seed.ID}
	seed.Stopped = true
	// enough punctures for a distance, too few for the search
	require.Positive(t, search.RecurrenceDistance(seed))

	assert.True(t, s.round())
	assert.Equal(t, fieldline.Terminated, seed.Props.AnalysisState)
	assert.False(t, s.arena.Has(seed.ID))
	assert.Empty(t, orig.Props.Children)
	assert.Equal(t, 1, s.arena.Len())
}

func TestSearchTerminatedMemberIsSkipped(t *testing.T) {
	cfg := config.New(config.WithSearch(), config.WithSpacing(0.005, 0.5, 0.02))
	s := newSession(t, field.Tokamak{R0: 3, Q0: 2, Q2: 2, MinorRadius: 1}, cfg)
	orig, a, b, c := s.bracket()
	c.Stopped = true
	c.Props.AnalysisState = fieldline.Terminated

	assert.False(t, s.round())
	assert.False(t, s.arena.Has(b.ID))
	assert.False(t, s.arena.Has(c.ID))
	assert.Equal(t, fieldline.WaitingSeed, a.Props.SearchState)

	assert.True(t, s.round())
	assert.Equal(t, []fieldline.ID{a.ID}, orig.Props.Children)
}

func TestSearchInvalidQuartetAbandonsSeed(t *testing.T) {
	cfg := config.New(config.WithSearch(), config.WithSpacing(0.005, 0.5, 0.02))
	s := newSession(t, field.Tokamak{R0: 3, Q0: 2, Q2: 2, MinorRadius: 1}, cfg)
	orig := s.rational()
	q, fresh := search.InitGolden(0, 0.02, 0.02*(1+geom.Gold))
	require.Equal(t, 2, fresh)
	x0 := s.onLine(orig, fieldline.RationalMinimize, fieldline.MinimizingX0, q.X0, 11)
	x1 := s.onLine(orig, fieldline.RationalMinimize, fieldline.MinimizingX1, q.X1, 11)
	x2 := s.onLine(orig, fieldline.RationalMinimize, fieldline.MinimizingX2, q.X2, 3)
	x3 := s.onLine(orig, fieldline.RationalMinimize, fieldline.MinimizingX3, q.X3, 11)
	x2.Stopped = true
	for _, tr := range []*fieldline.Trajectory{x0, x1, x2, x3} {
		tr.Props.SrcSeed = x0.ID
	}
	x0.Props.Quartet = fieldline.Quartet{X1: x1.ID, X2: x2.ID, X3: x3.ID}
	orig.Props.Children = []fieldline.ID{x0.ID}

	assert.True(t, s.round())
	assert.Equal(t, 1, s.arena.Len())
	assert.Empty(t, orig.Props.Children)
}

func TestStepSkipsUnknownStates(t *testing.T) {
	ctl, err := search.NewController(config.New(config.WithSearch()), nil)
	require.NoError(t, err)
	a := fieldline.NewArena()
	tr := fieldline.NewTrajectory(fieldline.NoID, seedAt(0.5, 0), fieldline.Properties{
		AnalysisMethod: fieldline.Default,
		SearchState:    fieldline.DeadSeed,
	})
	require.NoError(t, a.Insert(tr))
	var b fieldline.Batch
	assert.Zero(t, ctl.Step(a, &b))
	assert.True(t, b.Empty())
	assert.True(t, ctl.Settled(a))
}

func TestNewControllerRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxSpacing = 0
	_, err := search.NewController(cfg, nil)
	assert.ErrorIs(t, err, config.ErrSpacing)
}
