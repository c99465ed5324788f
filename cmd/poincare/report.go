package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/poincare/engine"
	"github.com/katalvlaran/poincare/geom"
)

type report struct {
	Run          string             `yaml:"run"`
	Rounds       int                `yaml:"rounds"`
	Settled      bool               `yaml:"settled"`
	Metrics      map[string]float64 `yaml:"metrics,omitempty"`
	Trajectories []trajectoryReport `yaml:"trajectories"`
}

type trajectoryReport struct {
	ID           int64         `yaml:"id"`
	Type         string        `yaml:"type"`
	State        string        `yaml:"state"`
	Toroidal     int           `yaml:"toroidal"`
	Poloidal     int           `yaml:"poloidal"`
	Offset       int           `yaml:"offset"`
	Islands      int           `yaml:"islands,omitempty"`
	IslandGroups int           `yaml:"island_groups,omitempty"`
	NNodes       int           `yaml:"nnodes"`
	SafetyFactor float64       `yaml:"safety_factor"`
	Punctures    int           `yaml:"punctures"`
	OPoints      [][2]float64  `yaml:"o_points,omitempty,flow"`
	Children     []childReport `yaml:"children,omitempty"`
}

type childReport struct {
	ID        int64      `yaml:"id"`
	Launch    [3]float64 `yaml:"launch,flow"`
	Punctures int        `yaml:"punctures"`
}

func newReport(e *engine.Engine, rounds int, settled bool) report {
	rep := report{Run: e.RunID().String(), Rounds: rounds, Settled: settled}
	for _, r := range e.Results() {
		tr := trajectoryReport{
			ID:           int64(r.ID),
			Type:         r.Type.String(),
			State:        r.State.String(),
			Toroidal:     r.ToroidalWinding,
			Poloidal:     r.PoloidalWinding,
			Offset:       r.WindingGroupOffset,
			Islands:      r.Islands,
			IslandGroups: r.IslandGroups,
			NNodes:       r.NNodes,
			SafetyFactor: r.SafetyFactor,
			Punctures:    count(r.Bins),
		}
		for _, o := range r.OPoints {
			tr.OPoints = append(tr.OPoints, [2]float64{o.X, o.Y})
		}
		for _, c := range r.Children {
			tr.Children = append(tr.Children, childReport{
				ID:        int64(c.ID),
				Launch:    [3]float64{c.Launch.X, c.Launch.Y, c.Launch.Z},
				Punctures: count(c.Bins),
			})
		}
		rep.Trajectories = append(rep.Trajectories, tr)
	}

	return rep
}

// gatherMetrics flattens g into one value per series: counters and gauges
// by value, histograms by sample count. Labelled series are keyed
// name{label="value"}.
func gatherMetrics(g prometheus.Gatherer) (map[string]float64, error) {
	mfs, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("poincare: metrics: %w", err)
	}
	out := make(map[string]float64)
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			if lps := m.GetLabel(); len(lps) > 0 {
				pairs := make([]string, len(lps))
				for i, lp := range lps {
					pairs[i] = fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
				}
				key += "{" + strings.Join(pairs, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[key+"_count"] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}

	return out, nil
}

func count(bins [][]geom.Point) int {
	n := 0
	for _, b := range bins {
		n += len(b)
	}

	return n
}
