package winding

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/poincare/config"
	"github.com/katalvlaran/poincare/geom"
)

// ErrUnknownMode indicates an unrecognized periodicity scoring mode name.
var ErrUnknownMode = errors.New("winding: unknown periodicity mode")

// Mode selects how PeriodicityStats scores a candidate period.
type Mode int

const (
	// CentroidDeviation: mean squared distance of each residue class from
	// its centroid.
	CentroidDeviation Mode = iota
	// CoordinateDeviation: mean variance of the X coordinate per class.
	CoordinateDeviation
	// PointDistance: mean squared distance between points one period apart.
	PointDistance
	// NormalizedPointDistance: PointDistance with each term divided by the
	// cumulative index of the later point.
	NormalizedPointDistance
)

func (m Mode) String() string {
	switch m {
	case CentroidDeviation:
		return config.ModeCentroidDeviation
	case CoordinateDeviation:
		return config.ModeCoordinateDeviation
	case PointDistance:
		return config.ModePointDistance
	case NormalizedPointDistance:
		return config.ModeNormalizedPointDistance
	default:
		return "invalid"
	}
}

// ParseMode maps a config mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	for _, m := range []Mode{CentroidDeviation, CoordinateDeviation, PointDistance, NormalizedPointDistance} {
		if m.String() == name {
			return m, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Period is a scored candidate period with its dense rank (0 = best).
type Period struct {
	Period int
	Score  float64
	Rank   int
}

// PeriodicityStats scores every period 1..maxPeriod over points (periods
// that leave fewer than two points per residue class are skipped) and
// returns them sorted by ascending score with dense ranks. Equal scores are
// ordered by larger period first.
//
// Complexity: O(maxPeriod · n).
func PeriodicityStats(points []geom.Point, maxPeriod int, mode Mode) []Period {
	n := len(points)
	maxPeriod = min(maxPeriod, n/2)
	out := make([]Period, 0, max(maxPeriod, 0))
	for t := 1; t <= maxPeriod; t++ {
		out = append(out, Period{Period: t, Score: periodScore(points, t, mode)})
	}
	slices.SortStableFunc(out, func(a, b Period) int {
		switch {
		case !sameScore(a.Score, b.Score) && a.Score < b.Score:
			return -1
		case !sameScore(a.Score, b.Score):
			return 1
		case a.Period > b.Period:
			return -1
		case a.Period < b.Period:
			return 1
		default:
			return 0
		}
	})
	rank := 0
	for i := range out {
		if i > 0 && !sameScore(out[i].Score, out[i-1].Score) {
			rank++
		}
		out[i].Rank = rank
	}

	return out
}

// RankIndex maps period → rank.
func RankIndex(ps []Period) map[int]int {
	out := make(map[int]int, len(ps))
	for _, p := range ps {
		out[p.Period] = p.Rank
	}

	return out
}

// worstRank is one past the largest rank in ps.
func worstRank(ps []Period) int {
	if len(ps) == 0 {
		return 0
	}

	return ps[len(ps)-1].Rank + 1
}

func periodScore(points []geom.Point, t int, mode Mode) float64 {
	n := len(points)
	switch mode {
	case CentroidDeviation, CoordinateDeviation:
		var total float64
		class := make([]geom.Point, 0, n/t+1)
		xs := make([]float64, 0, n/t+1)
		for r := 0; r < t; r++ {
			class, xs = class[:0], xs[:0]
			for i := r; i < n; i += t {
				class = append(class, points[i])
				xs = append(xs, points[i].X)
			}
			if mode == CoordinateDeviation {
				if len(xs) > 1 {
					total += stat.Variance(xs, nil)
				}
				continue
			}
			c := geom.Centroid(class)
			var dev float64
			for _, p := range class {
				dev += p.Sub(c).Norm2()
			}
			total += dev / float64(len(class))
		}

		return total / float64(t)
	default:
		var sum, weight float64
		for i := 0; i+t < n; i++ {
			d := points[i+t].Sub(points[i]).Norm2()
			w := 1.0
			if mode == NormalizedPointDistance {
				w = 1 / float64(i+t+1)
			}
			sum += w * d
			weight += w
		}
		if weight == 0 {
			return 0
		}

		return sum / weight
	}
}
