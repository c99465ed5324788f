// SPDX-License-Identifier: MIT

package search

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/poincare/config"
	"github.com/katalvlaran/poincare/fieldline"
	"github.com/katalvlaran/poincare/geom"
)

// transition advances one trajectory. It reads the arena as it was at the
// start of the pass and queues its effects on the batch.
type transition func(c *Controller, p *pass, tr *fieldline.Trajectory)

type stateKey struct {
	method fieldline.AnalysisMethod
	state  fieldline.SearchState
}

// pass is the context of one Step.
type pass struct {
	arena *fieldline.Arena
	batch *fieldline.Batch
	fired int

	slots map[fieldline.ID][]*fieldline.Trajectory
}

// slot returns the live RationalMinimize trajectories of seed slot id, in
// ID order. The index is built on first use.
func (p *pass) slot(id fieldline.ID) []*fieldline.Trajectory {
	if p.slots == nil {
		p.slots = make(map[fieldline.ID][]*fieldline.Trajectory)
		for _, tr := range p.arena.Live() {
			if tr.Props.AnalysisMethod == fieldline.RationalMinimize {
				p.slots[tr.Props.SrcSeed] = append(p.slots[tr.Props.SrcSeed], tr)
			}
		}
	}

	return p.slots[id]
}

// Controller runs the rational-surface search state machine.
type Controller struct {
	cfg   config.Config
	log   *slog.Logger
	table map[stateKey]transition
}

// NewController validates cfg and returns a Controller. A nil logger
// discards.
func NewController(cfg config.Config, log *slog.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{cfg: cfg, log: config.OrNop(log)}
	c.table = map[stateKey]transition{
		{fieldline.Default, fieldline.NoSearch}:              (*Controller).beginSearch,
		{fieldline.Default, fieldline.OriginalRational}:      (*Controller).checkRational,
		{fieldline.RationalSearch, fieldline.SearchingSeed}:  (*Controller).searchingSeed,
		{fieldline.RationalMinimize, fieldline.MinimizingB}:  (*Controller).minimizingB,
		{fieldline.RationalMinimize, fieldline.MinimizingX0}: (*Controller).minimizingX0,
		{fieldline.RationalMinimize, fieldline.MinimizingA}:  (*Controller).awaitDriver,
		{fieldline.RationalMinimize, fieldline.MinimizingC}:  (*Controller).awaitDriver,
		{fieldline.RationalMinimize, fieldline.MinimizingX1}: (*Controller).awaitDriver,
		{fieldline.RationalMinimize, fieldline.MinimizingX2}: (*Controller).awaitDriver,
		{fieldline.RationalMinimize, fieldline.MinimizingX3}: (*Controller).awaitDriver,
	}
	for _, k := range []stateKey{
		{fieldline.RationalSearch, fieldline.WaitingSeed},
		{fieldline.RationalSearch, fieldline.FinishedSeed},
		{fieldline.RationalSearch, fieldline.IslandOPoint},
		{fieldline.RationalSearch, fieldline.IslandBoundarySearch},
	} {
		c.table[k] = passive
	}

	return c, nil
}

func passive(*Controller, *pass, *fieldline.Trajectory) {}

// Step runs one transition for every live trajectory, in ID order, and
// returns how many active transitions fired. Effects are queued on b; the
// caller applies b once the pass is over.
func (c *Controller) Step(a *fieldline.Arena, b *fieldline.Batch) int {
	p := &pass{arena: a, batch: b}
	for _, tr := range a.Live() {
		if b.Retiring(tr.ID) {
			continue
		}
		fn, ok := c.table[stateKey{tr.Props.AnalysisMethod, tr.Props.SearchState}]
		if !ok {
			c.log.Debug("no search transition",
				"id", tr.ID, "method", tr.Props.AnalysisMethod, "state", tr.Props.SearchState)
			continue
		}
		fn(c, p, tr)
	}

	return p.fired
}

// Settled reports whether no search work is pending: no Rational
// trajectory is waiting to start a search and every search trajectory has
// finished.
func (c *Controller) Settled(a *fieldline.Arena) bool {
	for _, tr := range a.Live() {
		switch tr.Props.AnalysisMethod {
		case fieldline.Default:
			if tr.Props.SearchState == fieldline.NoSearch && c.eligible(tr) {
				return false
			}
		default:
			if tr.Props.SearchState != fieldline.FinishedSeed {
				return false
			}
		}
	}

	return true
}

func (c *Controller) eligible(tr *fieldline.Trajectory) bool {
	return c.cfg.SearchEnabled &&
		tr.Props.Type == fieldline.Rational &&
		tr.Props.AnalysisState == fieldline.Completed &&
		tr.Props.ToroidalWinding > 0
}

// ready reports whether the integrator has delivered what tr asked for.
func ready(tr *fieldline.Trajectory) bool {
	return tr.Stopped || len(tr.Punctures()) >= tr.Props.NPuncturesNeeded
}

// distance is the recurrence distance of tr, or -1 when the integrator
// stopped tr before it had the punctures it needed.
func distance(tr *fieldline.Trajectory) float64 {
	if tr.Props.AnalysisState == fieldline.Terminated {
		return -1
	}

	return RecurrenceDistance(tr)
}

// beginSearch turns a Rational trajectory into an OriginalRational record
// and spawns its seeds.
func (c *Controller) beginSearch(p *pass, tr *fieldline.Trajectory) {
	if !c.eligible(tr) {
		return
	}
	p.fired++
	pts := tr.Punctures()
	off := tr.Props.WindingGroupOffset
	var seeds []geom.Point
	var p1, p2 geom.Point
	var dir geom.Vector
	if off > 0 && off < len(pts) {
		p1, p2 = pts[0], pts[off]
		seeds = SeedPoints(p1, p2, c.cfg.MaxSeedSpacing)
		dir = SearchDirection(p1, p2, axisOf(tr))
	}
	if dir.Norm() == 0 {
		seeds = nil
	}

	ids := make([]fieldline.ID, len(seeds))
	for i, s := range seeds {
		id := p.arena.Reserve()
		props := tr.Props.Derive(fieldline.RationalSearch, fieldline.SearchingSeed)
		props.SrcRational = tr.ID
		props.SrcSeed = id
		props.RationalPt1, props.RationalPt2 = p1, p2
		props.SearchOrigin, props.SearchDir, props.X = s, dir, 0
		props.AnalysisState = fieldline.AddingPoints
		props.NPuncturesNeeded = 2*props.ToroidalWinding + 1
		p.batch.Spawn(id, s, geom.Vector{}, props)
		ids[i] = id
	}
	p.batch.Update(tr.ID, func(pr *fieldline.Properties) {
		pr.SearchState = fieldline.OriginalRational
		pr.RationalPt1, pr.RationalPt2 = p1, p2
		pr.Children = ids
	})
	if len(ids) == 0 {
		c.log.Warn("rational surface has no usable anchors, search skipped",
			"id", tr.ID, "toroidal", tr.Props.ToroidalWinding, "offset", off)

		return
	}
	c.log.Info("rational surface search started",
		"id", tr.ID,
		"toroidal", tr.Props.ToroidalWinding,
		"poloidal", tr.Props.PoloidalWinding,
		"seeds", len(ids))
}

// checkRational flips every seed of a rational to FinishedSeed once all of
// them are WaitingSeed.
func (c *Controller) checkRational(p *pass, tr *fieldline.Trajectory) {
	kids := p.arena.Children(tr.ID)
	waiting := 0
	for _, k := range kids {
		switch k.Props.SearchState {
		case fieldline.WaitingSeed:
			waiting++
		case fieldline.FinishedSeed:
		default:
			return
		}
	}
	if waiting == 0 {
		return
	}
	p.fired++
	for _, k := range kids {
		p.batch.Update(k.ID, func(pr *fieldline.Properties) { pr.SearchState = fieldline.FinishedSeed })
	}
	c.log.Info("rational surface search finished", "id", tr.ID, "seeds", len(kids))
}

// searchingSeed either accepts a seed that already closes on itself or
// sets up the first bracket around it.
func (c *Controller) searchingSeed(p *pass, tr *fieldline.Trajectory) {
	if !ready(tr) {
		return
	}
	p.fired++
	d := distance(tr)
	switch {
	case d < 0:
		c.log.Debug("seed cannot resolve its recurrence distance", "id", tr.ID)
		c.retire(p, tr, fieldline.NoID)
	case !NeedToMinimize(d, c.cfg.MaxSpacing):
		p.batch.Update(tr.ID, func(pr *fieldline.Properties) { pr.SearchState = fieldline.WaitingSeed })
		c.log.Debug("seed already on the surface", "id", tr.ID, "distance", d)
	default:
		xb, xc := PrepareToBracket(tr.Props.X, c.cfg.BracketStep)
		gen := tr.Props.Iteration + 1
		cID := c.spawnTrial(p, tr, gen, xc, fieldline.MinimizingC)
		bID := p.arena.Reserve()
		props := c.trialProps(tr, gen, xb, fieldline.MinimizingB)
		props.Bracket = fieldline.Bracket{A: tr.ID, C: cID}
		p.batch.Spawn(bID, props.LaunchPoint(), geom.Vector{}, props)
		p.batch.Update(tr.ID, func(pr *fieldline.Properties) {
			pr.AnalysisMethod = fieldline.RationalMinimize
			pr.SearchState = fieldline.MinimizingA
		})
		c.log.Debug("bracketing", "seed", tr.ID, "distance", d, "b", xb, "c", xc)
	}
}

// minimizingB drives the bracketing phase from the B member.
func (c *Controller) minimizingB(p *pass, tr *fieldline.Trajectory) {
	members, all := siblings(p.arena, tr, tr.Props.Bracket.A, tr.Props.Bracket.C)
	if !all {
		p.fired++
		c.pickBest(p, members, "bracket member missing")

		return
	}
	a, cc := members[1], members[2]
	if !ready(a) || !ready(tr) || !ready(cc) {
		return
	}
	p.fired++
	pa := Probe{X: a.Props.X, F: distance(a)}
	pb := Probe{X: tr.Props.X, F: distance(tr)}
	pc := Probe{X: cc.Props.X, F: distance(cc)}
	if pa.F < 0 || pb.F < 0 || pc.F < 0 {
		c.pickBest(p, members, "bracket invalid")

		return
	}
	if c.capped(members...) {
		c.pickBest(p, members, "iteration cap")

		return
	}

	if Bracketed(pa.F, pb.F, pc.F) {
		q, fresh := InitGolden(pa.X, pb.X, pc.X)
		x1, x2 := tr.ID, fieldline.NoID
		bState := fieldline.MinimizingX1
		if fresh == 2 {
			x2 = c.spawnTrial(p, tr, nextGen(members), q.X2, fieldline.MinimizingX2)
		} else {
			x1 = c.spawnTrial(p, tr, nextGen(members), q.X1, fieldline.MinimizingX1)
			x2, bState = tr.ID, fieldline.MinimizingX2
		}
		quartet := fieldline.Quartet{X1: x1, X2: x2, X3: cc.ID}
		p.batch.Update(a.ID, func(pr *fieldline.Properties) {
			pr.SearchState = fieldline.MinimizingX0
			pr.Bracket = fieldline.Bracket{}
			pr.Quartet = quartet
		})
		p.batch.Update(tr.ID, func(pr *fieldline.Properties) {
			pr.SearchState = bState
			pr.Bracket = fieldline.Bracket{}
		})
		p.batch.Update(cc.ID, func(pr *fieldline.Properties) { pr.SearchState = fieldline.MinimizingX3 })
		c.log.Debug("minimum bracketed", "a", pa, "b", pb, "c", pc)

		return
	}

	na, nb, xc, move := UpdateBracket(pa, pb, pc)
	newA, newB := tr, cc
	if move == Swap {
		newA, newB = tr, a
		c.retire(p, cc, newA.ID)
	} else {
		c.retire(p, a, newA.ID)
	}
	cID := c.spawnTrial(p, newB, nextGen(members), xc, fieldline.MinimizingC)
	p.batch.Update(newA.ID, func(pr *fieldline.Properties) {
		pr.SearchState = fieldline.MinimizingA
		pr.Bracket = fieldline.Bracket{}
	})
	p.batch.Update(newB.ID, func(pr *fieldline.Properties) {
		pr.SearchState = fieldline.MinimizingB
		pr.Bracket = fieldline.Bracket{A: newA.ID, C: cID}
	})
	c.log.Debug("bracket extended", "move", move, "a", na, "b", nb, "c", xc)
}

// minimizingX0 drives the golden-section phase from the X0 member.
func (c *Controller) minimizingX0(p *pass, tr *fieldline.Trajectory) {
	q := tr.Props.Quartet
	members, all := siblings(p.arena, tr, q.X1, q.X2, q.X3)
	if !all {
		p.fired++
		c.pickBest(p, members, "quartet member missing")

		return
	}
	x1, x2, x3 := members[1], members[2], members[3]
	for _, m := range members {
		if !ready(m) {
			return
		}
	}
	p.fired++
	f := make([]float64, len(members))
	for i, m := range members {
		f[i] = distance(m)
		if f[i] < 0 {
			c.log.Debug("quartet invalid, abandoning seed", "x0", tr.ID, "member", m.ID)
			for _, x := range members {
				c.retire(p, x, fieldline.NoID)
			}
			if seed, ok := p.arena.Get(tr.Props.SrcSeed); ok {
				c.retire(p, seed, fieldline.NoID)
			}

			return
		}
	}
	if c.capped(members...) {
		c.pickBest(p, members, "iteration cap")

		return
	}

	gq := Quartet{X0: tr.Props.X, X1: x1.Props.X, X2: x2.Props.X, X3: x3.Props.X}
	if gq.Span() <= c.cfg.MaxSpacing {
		best := x1
		if f[2] < f[1] {
			best = x2
		}
		c.promote(p, best, members)
		c.log.Debug("golden section converged", "best", best.ID, "x", best.Props.X, "span", gq.Span())

		return
	}

	next, fresh := GoldenStep(gq, f[1], f[2])
	if fresh == 2 {
		nID := c.spawnTrial(p, x1, nextGen(members), next.X2, fieldline.MinimizingX2)
		c.retire(p, tr, x1.ID)
		quartet := fieldline.Quartet{X1: x2.ID, X2: nID, X3: x3.ID}
		p.batch.Update(x1.ID, func(pr *fieldline.Properties) {
			pr.SearchState = fieldline.MinimizingX0
			pr.Quartet = quartet
		})
		p.batch.Update(x2.ID, func(pr *fieldline.Properties) { pr.SearchState = fieldline.MinimizingX1 })
	} else {
		nID := c.spawnTrial(p, tr, nextGen(members), next.X1, fieldline.MinimizingX1)
		c.retire(p, x3, tr.ID)
		quartet := fieldline.Quartet{X1: nID, X2: x1.ID, X3: x2.ID}
		p.batch.Update(tr.ID, func(pr *fieldline.Properties) { pr.Quartet = quartet })
		p.batch.Update(x1.ID, func(pr *fieldline.Properties) { pr.SearchState = fieldline.MinimizingX2 })
		p.batch.Update(x2.ID, func(pr *fieldline.Properties) { pr.SearchState = fieldline.MinimizingX3 })
	}
	c.log.Debug("golden step", "x0", next.X0, "x3", next.X3, "span", next.Span())
}

// awaitDriver keeps a passive bracket or quartet member waiting on the B
// or X0 member of its seed slot. When the slot has no driver left, as
// after the integrator rejected it, the lowest member settles the slot
// with pickBest once every member is ready.
func (c *Controller) awaitDriver(p *pass, tr *fieldline.Trajectory) {
	members := p.slot(tr.Props.SrcSeed)
	for _, m := range members {
		if m.Props.SearchState == fieldline.MinimizingB || m.Props.SearchState == fieldline.MinimizingX0 {
			return
		}
	}
	if len(members) == 0 || members[0].ID != tr.ID {
		return
	}
	for _, m := range members {
		if !ready(m) {
			return
		}
	}
	p.fired++
	c.pickBest(p, members, "search driver lost")
}

// pickBest promotes the member with the smallest valid recurrence
// distance and retires the rest. With no valid member everything is
// retired and the seed slot is dropped.
func (c *Controller) pickBest(p *pass, members []*fieldline.Trajectory, reason string) {
	var best *fieldline.Trajectory
	bestD := math.Inf(1)
	for _, m := range members {
		if !ready(m) {
			continue
		}
		if d := distance(m); d >= 0 && d < bestD {
			best, bestD = m, d
		}
	}
	if best == nil {
		c.log.Debug("no valid candidate, abandoning seed", "reason", reason)
		for _, m := range members {
			c.retire(p, m, fieldline.NoID)
		}

		return
	}
	c.log.Debug("picking best candidate", "reason", reason, "id", best.ID, "distance", bestD)
	c.promote(p, best, members)
}

// promote makes best the WaitingSeed of its seed slot and retires the
// other members.
func (c *Controller) promote(p *pass, best *fieldline.Trajectory, members []*fieldline.Trajectory) {
	p.batch.Update(best.ID, func(pr *fieldline.Properties) {
		pr.AnalysisMethod = fieldline.RationalSearch
		pr.SearchState = fieldline.WaitingSeed
		pr.Bracket = fieldline.Bracket{}
		pr.Quartet = fieldline.Quartet{}
	})
	for _, m := range members {
		if m.ID != best.ID {
			c.retire(p, m, best.ID)
		}
	}
}

// retire queues tr for deletion. The seed slot holder hands its place in
// the children list to replaceWith.
func (c *Controller) retire(p *pass, tr *fieldline.Trajectory, replaceWith fieldline.ID) {
	if tr.ID != tr.Props.SrcSeed {
		replaceWith = fieldline.NoID
	}
	p.batch.Retire(tr.ID, replaceWith)
}

// capped reports whether any member has run past the iteration caps.
func (c *Controller) capped(members ...*fieldline.Trajectory) bool {
	for _, m := range members {
		if m.Props.Iteration > c.cfg.RationalSurfaceMaxIterations || m.Props.Iteration > c.cfg.MaxIterations {
			return true
		}
	}

	return false
}

// trialProps derives the properties of a probe at x on from's search line.
// The probe belongs to generation gen.
func (c *Controller) trialProps(from *fieldline.Trajectory, gen int, x float64, state fieldline.SearchState) fieldline.Properties {
	props := from.Props.Derive(fieldline.RationalMinimize, state)
	props.Iteration = gen
	props.X = x
	props.AnalysisState = fieldline.AddingPoints
	props.NPuncturesNeeded = 2*props.ToroidalWinding + 1

	return props
}

// spawnTrial queues a probe at x and returns its reserved ID.
func (c *Controller) spawnTrial(p *pass, from *fieldline.Trajectory, gen int, x float64, state fieldline.SearchState) fieldline.ID {
	id := p.arena.Reserve()
	props := c.trialProps(from, gen, x, state)
	p.batch.Spawn(id, props.LaunchPoint(), geom.Vector{}, props)

	return id
}

// nextGen is one past the newest member's generation.
func nextGen(members []*fieldline.Trajectory) int {
	gen := 0
	for _, m := range members {
		gen = max(gen, m.Props.Iteration)
	}

	return gen + 1
}

// siblings returns the driver followed by the live trajectories among
// ids, and whether all of them were live.
func siblings(a *fieldline.Arena, driver *fieldline.Trajectory, ids ...fieldline.ID) ([]*fieldline.Trajectory, bool) {
	out := []*fieldline.Trajectory{driver}
	all := true
	for _, id := range ids {
		tr, ok := a.Get(id)
		if !ok {
			all = false
			continue
		}
		out = append(out, tr)
	}

	return out, all
}
