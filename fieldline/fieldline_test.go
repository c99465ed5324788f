package fieldline_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/poincare/fieldline"
	"github.com/katalvlaran/poincare/geom"
)

// stubSpawner hands out one trajectory per seed unless the seed has a
// negative X, and records terminations.
type stubSpawner struct {
	extra      int
	terminated []fieldline.ID
	fail       error
}

func (s *stubSpawner) Spawn(_ context.Context, seed geom.Point, _ geom.Vector) ([]*fieldline.Trajectory, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	if seed.X < 0 {
		return nil, nil
	}
	out := []*fieldline.Trajectory{fieldline.NewTrajectory(fieldline.NoID, seed, fieldline.Properties{})}
	for i := 0; i < s.extra; i++ {
		out = append(out, fieldline.NewTrajectory(fieldline.ID(-1-i), seed, fieldline.Properties{}))
	}

	return out, nil
}

func (s *stubSpawner) Terminate(_ context.Context, tr *fieldline.Trajectory) {
	s.terminated = append(s.terminated, tr.ID)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "Unknown", fieldline.Unknown.String())
	assert.Equal(t, "Rational", fieldline.Rational.String())
	assert.Equal(t, "OPoint|XPoint|IslandChain|IslandsWithinIslands", fieldline.Irrational.String())
	assert.True(t, fieldline.IslandChain.IsIrrational())
	assert.True(t, fieldline.IslandsWithinIslands.IsIsland())
	assert.False(t, fieldline.FluxSurface.IsIrrational())
	assert.False(t, fieldline.OPoint.IsIsland())
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "AddingPoints", fieldline.AddingPoints.String())
	assert.True(t, fieldline.Completed.Terminal())
	assert.True(t, fieldline.Terminated.Terminal())
	assert.False(t, fieldline.AddOPoints.Terminal())
	assert.Equal(t, "MinimizingX3", fieldline.MinimizingX3.String())
	assert.Equal(t, "Invalid", fieldline.SearchState(99).String())
	assert.Equal(t, "RationalMinimize", fieldline.RationalMinimize.String())
}

func TestPropertiesDerive(t *testing.T) {
	p := fieldline.Properties{
		Type:            fieldline.Rational,
		AnalysisState:   fieldline.Completed,
		ToroidalWinding: 5,
		Iteration:       2,
		Children:        []fieldline.ID{4, 5},
		OPoints:         []geom.Point{geom.Pt(1, 0, 0)},
		Bracket:         fieldline.Bracket{A: 3, C: 4},
		SearchOrigin:    geom.Pt(1, 0, 0),
		SearchDir:       geom.Pt(0, 0, 1),
	}
	c := p.Clone()
	c.Children[0] = 99
	assert.Equal(t, fieldline.ID(4), p.Children[0], "Clone must not share children")

	d := p.Derive(fieldline.RationalMinimize, fieldline.MinimizingA)
	assert.Equal(t, 3, d.Iteration)
	assert.Equal(t, fieldline.Unknown, d.Type)
	assert.Equal(t, fieldline.StateUnknown, d.AnalysisState)
	assert.Equal(t, fieldline.MinimizingA, d.SearchState)
	assert.Empty(t, d.Children)
	assert.Empty(t, d.OPoints)
	assert.Equal(t, fieldline.Bracket{}, d.Bracket)
	assert.Equal(t, 5, d.ToroidalWinding, "winding pair carries over to trials")

	d.X = 0.5
	assert.Equal(t, geom.Pt(1, 0, 0.5), d.LaunchPoint())
}

func TestTrajectoryPunctures(t *testing.T) {
	tr := fieldline.NewTrajectory(1, geom.Pt(1, 0, 0), fieldline.Properties{})
	assert.Equal(t, geom.Pt(1, 0, 0), tr.Props.SrcPt)

	const steps = 36
	for k := 0; k <= 3*steps; k++ {
		phi := (float64(k) - 0.5) * 2 * math.Pi / steps
		tr.Append(geom.Pt(2*math.Cos(phi), 2*math.Sin(phi), 0.1))
	}
	pts := tr.Punctures()
	require.Len(t, pts, 3)
	for _, p := range pts {
		assert.InDelta(t, 0, p.Y, 1e-12)
	}
	sec := tr.Section()
	assert.InDelta(t, 0.1, sec[0].Y, 1e-12)

	tr.Requested = len(tr.Samples) + 1
	assert.False(t, tr.Ready())
	tr.Stopped = true
	assert.True(t, tr.Ready())
}

func TestArenaInsertAndLive(t *testing.T) {
	a := fieldline.NewArena()
	require.ErrorIs(t, a.Insert(nil), fieldline.ErrNilTrajectory)

	t1 := fieldline.NewTrajectory(fieldline.NoID, geom.Pt(1, 0, 0), fieldline.Properties{})
	require.NoError(t, a.Insert(t1))
	assert.Equal(t, fieldline.ID(1), t1.ID)

	t5 := fieldline.NewTrajectory(5, geom.Pt(1, 0, 0), fieldline.Properties{})
	require.NoError(t, a.Insert(t5))
	assert.Equal(t, fieldline.ID(6), a.Reserve(), "counter stays ahead of explicit IDs")

	dup := fieldline.NewTrajectory(5, geom.Pt(1, 0, 0), fieldline.Properties{})
	assert.ErrorIs(t, a.Insert(dup), fieldline.ErrDuplicateID)

	live := a.Live()
	require.Len(t, live, 2)
	assert.Equal(t, fieldline.ID(1), live[0].ID)
	assert.Equal(t, fieldline.ID(5), live[1].ID)

	require.NoError(t, a.Remove(1))
	assert.ErrorIs(t, a.Remove(1), fieldline.ErrUnknownID)
	assert.Equal(t, 1, a.Len())
}

func TestApplyOrdersSpawnsUpdatesRetires(t *testing.T) {
	ctx := context.Background()
	a := fieldline.NewArena()
	orig := fieldline.NewTrajectory(fieldline.NoID, geom.Pt(1, 0, 0), fieldline.Properties{SearchState: fieldline.OriginalRational})
	require.NoError(t, a.Insert(orig))
	seed := fieldline.NewTrajectory(fieldline.NoID, geom.Pt(1.1, 0, 0), fieldline.Properties{
		SearchState: fieldline.SearchingSeed,
		SrcRational: orig.ID,
	})
	require.NoError(t, a.Insert(seed))
	seed.Props.SrcSeed = seed.ID
	orig.Props.Children = []fieldline.ID{seed.ID}

	sp := &stubSpawner{extra: 1}
	var b fieldline.Batch
	assert.True(t, b.Empty())

	a1, a2, bad := a.Reserve(), a.Reserve(), a.Reserve()
	props := seed.Props.Derive(fieldline.RationalMinimize, fieldline.MinimizingB)
	b.Spawn(a1, geom.Pt(1.2, 0, 0), geom.Vector{}, props)
	b.Spawn(a2, geom.Pt(1.3, 0, 0), geom.Vector{}, props)
	b.Spawn(bad, geom.Pt(-1, 0, 0), geom.Vector{}, props)
	b.Update(a1, func(p *fieldline.Properties) { p.Bracket.C = a2 })
	b.Retire(seed.ID, a1)
	b.Retire(seed.ID, a1)
	require.Len(t, b.Retires, 1)
	assert.True(t, b.Retiring(seed.ID))

	res, err := a.Apply(ctx, &b, sp)
	require.NoError(t, err)
	assert.Equal(t, []fieldline.ID{a1, a2}, res.Spawned)
	assert.Equal(t, []fieldline.ID{bad}, res.Rejected)
	assert.Equal(t, []fieldline.ID{seed.ID}, res.Retired)

	got, ok := a.Get(a1)
	require.True(t, ok)
	assert.Equal(t, a2, got.Props.Bracket.C, "updates run after spawns")
	assert.Equal(t, geom.Pt(1.2, 0, 0), got.Props.SrcPt)
	assert.Equal(t, a1, got.Props.SrcSeed, "SrcSeed is redirected to the replacement")

	assert.Equal(t, []fieldline.ID{a1}, orig.Props.Children, "placeholder replaced in place")
	assert.False(t, a.Has(seed.ID))
	// two extra handles (one per accepted seed) plus the retired seed
	assert.Len(t, sp.terminated, 3)
	assert.Len(t, a.Children(orig.ID), 1)
}

func TestApplyRemovesChildWithoutReplacement(t *testing.T) {
	a := fieldline.NewArena()
	orig := fieldline.NewTrajectory(fieldline.NoID, geom.Pt(1, 0, 0), fieldline.Properties{})
	require.NoError(t, a.Insert(orig))
	c1 := fieldline.NewTrajectory(fieldline.NoID, geom.Pt(1, 0, 0), fieldline.Properties{SrcRational: orig.ID})
	c2 := fieldline.NewTrajectory(fieldline.NoID, geom.Pt(1, 0, 0), fieldline.Properties{SrcRational: orig.ID})
	require.NoError(t, a.Insert(c1))
	require.NoError(t, a.Insert(c2))
	orig.Props.Children = []fieldline.ID{c1.ID, c2.ID}

	var b fieldline.Batch
	b.Retire(c1.ID, fieldline.NoID)
	_, err := a.Apply(context.Background(), &b, &stubSpawner{})
	require.NoError(t, err)
	assert.Equal(t, []fieldline.ID{c2.ID}, orig.Props.Children)
}

func TestApplySpawnerError(t *testing.T) {
	a := fieldline.NewArena()
	var b fieldline.Batch
	b.Spawn(a.Reserve(), geom.Pt(1, 0, 0), geom.Vector{}, fieldline.Properties{})
	boom := errors.New("boom")
	_, err := a.Apply(context.Background(), &b, &stubSpawner{fail: boom})
	assert.ErrorIs(t, err, boom)
}

func TestApplyRejectsZeroID(t *testing.T) {
	a := fieldline.NewArena()
	var b fieldline.Batch
	b.Spawn(fieldline.NoID, geom.Pt(1, 0, 0), geom.Vector{}, fieldline.Properties{})
	_, err := a.Apply(context.Background(), &b, &stubSpawner{})
	assert.ErrorIs(t, err, fieldline.ErrNoID)
}

func TestApplyDropsRejectedChildren(t *testing.T) {
	a := fieldline.NewArena()
	orig := fieldline.NewTrajectory(fieldline.NoID, geom.Pt(1, 0, 0), fieldline.Properties{})
	require.NoError(t, a.Insert(orig))

	good, bad := a.Reserve(), a.Reserve()
	props := fieldline.Properties{SrcRational: orig.ID, SearchState: fieldline.SearchingSeed}
	var b fieldline.Batch
	b.Spawn(good, geom.Pt(1.1, 0, 0), geom.Vector{}, props)
	b.Spawn(bad, geom.Pt(-1.1, 0, 0), geom.Vector{}, props)
	b.Update(orig.ID, func(p *fieldline.Properties) {
		p.SearchState = fieldline.OriginalRational
		p.Children = []fieldline.ID{good, bad}
	})

	res, err := a.Apply(context.Background(), &b, &stubSpawner{})
	require.NoError(t, err)
	assert.Equal(t, []fieldline.ID{bad}, res.Rejected)
	assert.Equal(t, []fieldline.ID{good}, orig.Props.Children)
}
