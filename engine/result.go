// SPDX-License-Identifier: MIT

package engine

import (
	"slices"

	"github.com/katalvlaran/poincare/fieldline"
	"github.com/katalvlaran/poincare/geom"
)

// Result is the rendering-facing view of one finished trajectory.
type Result struct {
	ID    fieldline.ID
	Type  fieldline.Type
	State fieldline.AnalysisState

	ToroidalWinding    int
	PoloidalWinding    int
	PoloidalWindingP   int
	WindingGroupOffset int
	Islands            int
	IslandGroups       int
	NNodes             int
	SafetyFactor       float64

	// Bins holds the punctures per toroidal group, groups in curve order.
	Bins [][]geom.Point
	// OPoints are the island centers in section coordinates.
	OPoints []geom.Point
	// Children is set for an original rational with a finished search.
	Children []Child
}

// Child is one minimized seed of a rational surface.
type Child struct {
	ID     fieldline.ID
	Launch geom.Point
	Bins   [][]geom.Point
}

// Results returns every terminal Default-method trajectory in ID order.
// Search trials appear only as Children of their rational.
func (e *Engine) Results() []Result {
	var out []Result
	for _, tr := range e.arena.Live() {
		p := tr.Props
		if p.AnalysisMethod != fieldline.Default || !p.AnalysisState.Terminal() {
			continue
		}
		r := Result{
			ID:                 tr.ID,
			Type:               p.Type,
			State:              p.AnalysisState,
			ToroidalWinding:    p.ToroidalWinding,
			PoloidalWinding:    p.PoloidalWinding,
			PoloidalWindingP:   p.PoloidalWindingP,
			WindingGroupOffset: p.WindingGroupOffset,
			Islands:            p.Islands,
			IslandGroups:       p.IslandGroups,
			NNodes:             p.NNodes,
			SafetyFactor:       p.SafetyFactor,
			Bins:               Bins(tr.Punctures(), p.ToroidalWinding, p.WindingGroupOffset),
			OPoints:            slices.Clone(p.OPoints),
		}
		if p.SearchState == fieldline.OriginalRational {
			for _, id := range p.Children {
				child, ok := e.arena.Get(id)
				if !ok || child.Props.SearchState != fieldline.FinishedSeed {
					continue
				}
				r.Children = append(r.Children, Child{
					ID:     id,
					Launch: child.Props.LaunchPoint(),
					Bins:   Bins(child.Punctures(), p.ToroidalWinding, p.WindingGroupOffset),
				})
			}
		}
		out = append(out, r)
	}

	return out
}

// Bins splits points into t toroidal groups, group j holding points
// j, j+t, j+2t, … in order. Groups are listed by stepping offset, so
// consecutive bins are poloidal neighbors; groups the stepping misses
// follow in index order. t <= 1 yields a single bin.
//
// Complexity: O(n + t).
func Bins(points []geom.Point, t, offset int) [][]geom.Point {
	if len(points) == 0 {
		return nil
	}
	if t <= 1 {
		return [][]geom.Point{slices.Clone(points)}
	}
	groups := make([][]geom.Point, t)
	for i, p := range points {
		groups[i%t] = append(groups[i%t], p)
	}
	if offset <= 0 {
		offset = 1
	}
	out := make([][]geom.Point, 0, t)
	seen := make([]bool, t)
	for k, j := 0, 0; k < t && !seen[j]; k, j = k+1, (j+offset)%t {
		seen[j] = true
		out = append(out, groups[j])
	}
	for j := range groups {
		if !seen[j] {
			out = append(out, groups[j])
		}
	}

	return out
}
