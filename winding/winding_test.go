package winding_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/poincare/config"
	"github.com/katalvlaran/poincare/geom"
	"github.com/katalvlaran/poincare/winding"
)

const deg = math.Pi / 180

// circlePoints places n section points on a circle of radius r around
// (3, 0), the k-th at angle theta0 + k·step.
func circlePoints(n int, r, theta0, step float64) []geom.Point {
	out := make([]geom.Point, n)
	for k := range out {
		a := theta0 + float64(k)*step
		out[k] = geom.Pt(3+r*math.Cos(a), r*math.Sin(a), 0)
	}

	return out
}

// islandPoints places n points on rings of radius rho around three island
// centers; point k sits on island k mod 3 at ring angle (k/3)·psiStep.
func islandPoints(n int, rho, psiStep float64) []geom.Point {
	out := make([]geom.Point, n)
	for k := range out {
		c := 60*deg + float64(k%3)*120*deg
		psi := float64(k/3) * psiStep
		out[k] = geom.Pt(3+0.5*math.Cos(c)+rho*math.Cos(psi), 0.5*math.Sin(c)+rho*math.Sin(psi), 0)
	}

	return out
}

func rationalCounts(n int) []int {
	out := make([]int, n)
	for k := range out {
		out[k] = int(math.Floor((10 + 144*float64(k)) / 360))
	}

	return out
}

func TestPoloidalWindingCheck(t *testing.T) {
	pairs := winding.PoloidalWindingCheck(rationalCounts(20))
	byT := map[int]winding.Pair{}
	for _, p := range pairs {
		byT[p.Toroidal] = p
	}
	_, ok := byT[1]
	assert.False(t, ok, "t=1 advances by 0 most often and is skipped")
	assert.Equal(t, 2, byT[5].Poloidal)
	assert.InDelta(t, 1, byT[5].Confidence, 1e-12)
	assert.Equal(t, 4, byT[10].Poloidal)
	assert.InDelta(t, 0.8, byT[2].Confidence, 0.05)
	assert.Less(t, byT[3].Confidence, 0.9)

	assert.Empty(t, winding.PoloidalWindingCheck([]int{0}))
}

func TestCollapseAndRank(t *testing.T) {
	pairs := []winding.Pair{
		{Toroidal: 3, Poloidal: 1, Confidence: 0.8},
		{Toroidal: 5, Poloidal: 2, Confidence: 1},
		{Toroidal: 6, Poloidal: 2, Confidence: 0.95},
		{Toroidal: 10, Poloidal: 4, Confidence: 0.9},
		{Toroidal: 12, Poloidal: 5, Confidence: 0.95},
	}
	got := winding.Collapse(pairs)
	require.Len(t, got, 3)
	assert.Equal(t, winding.Pair{Toroidal: 3, Poloidal: 1, Confidence: 0.95}, got[0])
	assert.Equal(t, winding.Pair{Toroidal: 5, Poloidal: 2, Confidence: 1}, got[1])

	ranked := winding.RankByConfidence(got)
	assert.Equal(t, 5, ranked[0].Toroidal)
	assert.Equal(t, 0, ranked[0].Rank)
	// equal confidence: larger toroidal winding first, same dense rank
	assert.Equal(t, 12, ranked[1].Toroidal)
	assert.Equal(t, 3, ranked[2].Toroidal)
	assert.Equal(t, 1, ranked[1].Rank)
	assert.Equal(t, 1, ranked[2].Rank)

	assert.Equal(t, []int{5, 6, 12}, winding.Windings(pairs, 0.95))
}

func TestPeriodicityStats(t *testing.T) {
	pts := circlePoints(24, 0.5, 0, 120*deg)
	for _, mode := range []winding.Mode{
		winding.CentroidDeviation, winding.CoordinateDeviation,
		winding.PointDistance, winding.NormalizedPointDistance,
	} {
		t.Run(mode.String(), func(t *testing.T) {
			stats := winding.PeriodicityStats(pts, 12, mode)
			require.Len(t, stats, 12)
			ranks := winding.RankIndex(stats)
			assert.Equal(t, 0, ranks[3])
			assert.Equal(t, 0, ranks[6])
			assert.Equal(t, 0, ranks[12])
			assert.Positive(t, ranks[1])
			assert.Equal(t, 12, stats[0].Period, "ties list the larger period first")
		})
	}
	assert.Empty(t, winding.PeriodicityStats(pts[:1], 5, winding.PointDistance))
}

func TestParseMode(t *testing.T) {
	m, err := winding.ParseMode(config.ModeNormalizedPointDistance)
	require.NoError(t, err)
	assert.Equal(t, winding.NormalizedPointDistance, m)
	_, err = winding.ParseMode("fourier")
	assert.ErrorIs(t, err, winding.ErrUnknownMode)
}

func TestMergeRanksPrefersLargerToroidalOnTies(t *testing.T) {
	table := []winding.Pair{
		{Toroidal: 2, Poloidal: 1, Confidence: 0.5},
		{Toroidal: 5, Poloidal: 2, Confidence: 1},
		{Toroidal: 7, Poloidal: 3, Confidence: 0.92},
		{Toroidal: 10, Poloidal: 4, Confidence: 1},
	}
	collapsed := winding.RankByConfidence(winding.Collapse(table))
	tor := []winding.Period{{Period: 5, Rank: 0}, {Period: 10, Rank: 0}, {Period: 7, Rank: 1}, {Period: 2, Rank: 2}}
	pol := []winding.Period{{Period: 2, Rank: 0}, {Period: 4, Rank: 0}, {Period: 3, Rank: 1}}

	cands := winding.MergeRanks(table, collapsed, tor, pol, 0.9, 3)
	require.Len(t, cands, 3)
	assert.Equal(t, 10, cands[0].Toroidal)
	assert.Equal(t, 5, cands[1].Toroidal)
	assert.Zero(t, cands[1].Distance)
	assert.Equal(t, 7, cands[2].Toroidal)
	assert.Equal(t, 1, cands[2].ConfRank)
	assert.Equal(t, 1, cands[2].VarRank)
	assert.InDelta(t, math.Sqrt2, cands[2].Distance, 1e-12)
}

func TestResonanceCheck(t *testing.T) {
	tests := []struct {
		name     string
		windings []int
		t        int
		want     int
		fallback bool
	}{
		{"island chain", []int{3, 6, 9, 12, 15}, 12, 4, false},
		{"fundamental", []int{5, 10}, 5, 1, true},
		{"gcd fallback not a winding", []int{6, 10, 15}, 15, 1, true},
		{"divisor", []int{4, 8, 12}, 8, 2, false},
		{"below share", []int{2, 4, 5, 7, 9}, 4, 1, true},
		{"no windings", nil, 6, 1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, fb := winding.ResonanceCheck(tc.windings, tc.t, 1)
			assert.Equal(t, tc.want, res)
			assert.Equal(t, tc.fallback, fb)
		})
	}
}

func TestDrawable(t *testing.T) {
	pent := circlePoints(10, 0.5, 10*deg, 144*deg)
	assert.True(t, winding.Drawable(pent, winding.Pair{Toroidal: 5, Poloidal: 2}, 1e-9))
	assert.False(t, winding.Drawable(pent, winding.Pair{Toroidal: 10, Poloidal: 4}, 1e-9), "repeated vertices")
	assert.False(t, winding.Drawable(pent[:4], winding.Pair{Toroidal: 5, Poloidal: 2}, 1e-9), "too few points")

	// visiting a regular pentagon in index order draws a pentagram
	star := circlePoints(5, 0.5, 0, 144*deg)
	assert.True(t, geom.PolygonSelfIntersects(star))
	assert.False(t, winding.Drawable(star, winding.Pair{Toroidal: 5, Poloidal: 1}, 1e-9))

	isl := islandPoints(24, 0.06, 88.2*deg)
	assert.True(t, winding.Drawable(isl, winding.Pair{Toroidal: 12, Poloidal: 4}, 1e-9))
	assert.False(t, winding.Drawable(isl, winding.Pair{Toroidal: 6, Poloidal: 2}, 1e-9), "two nodes per island")
	assert.False(t, winding.Drawable(isl, winding.Pair{Toroidal: 24, Poloidal: 8}, 1e-9), "ring wraps twice")
}

func TestRationalCheckRoundTrip(t *testing.T) {
	const delta, factor = 1.0, 0.1
	clusters := circlePoints(5, 0.5, 10*deg, 144*deg)
	var pts []geom.Point
	for k := 0; k < 20; k++ {
		noise := 0.01 * math.Sin(float64(k))
		pts = append(pts, clusters[k%5].Add(geom.Pt(noise, -noise, 0)))
	}
	nnodes, ok := winding.RationalCheck(pts, 5, delta, factor)
	assert.True(t, ok)
	assert.Equal(t, 1, nnodes)

	pts[7] = pts[7].Add(geom.Pt(0.5, 0, 0))
	_, ok = winding.RationalCheck(pts, 5, delta, factor)
	assert.False(t, ok)

	nnodes, ok = winding.RationalCheck(pts[:9], 5, delta, factor)
	assert.False(t, ok)
	assert.Equal(t, -1, nnodes)
}

func TestFluxSurfaceNodes(t *testing.T) {
	axis := geom.Pt(3, 0, 0)
	pts := circlePoints(71, 0.5, 10*deg, 145.2*deg)

	nodes, needed := winding.FluxSurfaceNodes(pts, 5, 3, axis)
	assert.Equal(t, 13, nodes)
	assert.Zero(t, needed)

	nodes, needed = winding.FluxSurfaceNodes(pts[:20], 5, 3, axis)
	assert.Equal(t, -1, nodes)
	assert.Equal(t, 71, needed)

	// drifting the other way wraps toward the previous group instead
	back := circlePoints(71, 0.5, 10*deg, 142.8*deg)
	nodes, _ = winding.FluxSurfaceNodes(back, 5, 3, axis)
	assert.Equal(t, 13, nodes)

	nodes, _ = winding.FluxSurfaceNodes(pts, 5, 0, axis)
	assert.Equal(t, -1, nodes)
}

func TestIslandWindingAndCenters(t *testing.T) {
	pts := islandPoints(60, 0.06, 88.2*deg)
	assert.Equal(t, 1, winding.IslandWinding(pts, 3, 4))
	assert.Equal(t, 0, winding.IslandWinding(pts[:6], 3, 4))

	centers := winding.IslandCenters(pts, 3)
	require.Len(t, centers, 3)
	for j, c := range centers {
		a := 60*deg + float64(j)*120*deg
		want := geom.Pt(3+0.5*math.Cos(a), 0.5*math.Sin(a), 0)
		assert.InDelta(t, 0, c.Sub(want).Norm(), 5e-3, "island %d", j)
	}
	assert.Nil(t, winding.IslandCenters(pts, 0))
}
