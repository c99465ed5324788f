package fieldline

import (
	"context"
	"fmt"
	"slices"

	"github.com/katalvlaran/poincare/geom"
)

// Spawner creates and stops trajectories on behalf of Arena.Apply. The
// round engine's integrator satisfies it.
type Spawner interface {
	// Spawn launches trajectories from seed; zero results means the seed
	// was rejected (for example, outside the domain).
	Spawn(ctx context.Context, seed geom.Point, hint geom.Vector) ([]*Trajectory, error)
	// Terminate stops integrating tr.
	Terminate(ctx context.Context, tr *Trajectory)
}

// SpawnCmd asks for a new trajectory under a reserved ID.
type SpawnCmd struct {
	ID    ID
	Seed  geom.Point
	Hint  geom.Vector
	Props Properties
}

// UpdateCmd mutates the properties of a live trajectory at commit time.
type UpdateCmd struct {
	ID    ID
	Apply func(*Properties)
}

// RetireCmd removes a trajectory. When it is the seed placeholder in its
// rational's children list and ReplaceWith is live, the list entry is
// replaced in place instead of removed.
type RetireCmd struct {
	ID          ID
	ReplaceWith ID
}

// Batch buffers the commands emitted during one round. Nothing in it takes
// effect until Arena.Apply, so every decision in a round sees the state at
// the start of that round.
type Batch struct {
	Spawns  []SpawnCmd
	Updates []UpdateCmd
	Retires []RetireCmd

	retiring map[ID]struct{}
}

// Spawn queues a SpawnCmd.
func (b *Batch) Spawn(id ID, seed geom.Point, hint geom.Vector, props Properties) {
	b.Spawns = append(b.Spawns, SpawnCmd{ID: id, Seed: seed, Hint: hint, Props: props})
}

// Update queues a properties mutation.
func (b *Batch) Update(id ID, fn func(*Properties)) {
	b.Updates = append(b.Updates, UpdateCmd{ID: id, Apply: fn})
}

// Retire queues a retirement. Retiring the same ID twice is a no-op.
func (b *Batch) Retire(id, replaceWith ID) {
	if id == NoID || b.Retiring(id) {
		return
	}
	if b.retiring == nil {
		b.retiring = make(map[ID]struct{})
	}
	b.retiring[id] = struct{}{}
	b.Retires = append(b.Retires, RetireCmd{ID: id, ReplaceWith: replaceWith})
}

// Retiring reports whether id is already queued for retirement.
func (b *Batch) Retiring(id ID) bool {
	_, ok := b.retiring[id]

	return ok
}

// Empty reports whether the batch holds no commands.
func (b *Batch) Empty() bool {
	return len(b.Spawns) == 0 && len(b.Updates) == 0 && len(b.Retires) == 0
}

// ApplyResult reports what a commit did.
type ApplyResult struct {
	Spawned  []ID
	Rejected []ID
	Retired  []ID
}

// Apply commits b to the arena.
//
// Implementation:
//   - Stage 1: spawns. The first handle returned for a seed takes the
//     reserved ID; extra handles are terminated. A rejected seed leaves its
//     ID unused and is reported in Rejected.
//   - Stage 2: updates, in queue order, on live records. Rejected IDs are
//     then dropped from the children list of their rational.
//   - Stage 3: retirements. Children lists are fixed first (replace or
//     remove), then SrcSeed references to a replaced seed are redirected,
//     then the record is removed and terminated.
//
// A spawn under NoID fails with ErrNoID. Errors from the spawner abort the
// commit and are returned wrapped; the commands applied so far stay
// applied.
//
// Complexity: O(s + u + r·(c + n)) for c children and n live records.
func (a *Arena) Apply(ctx context.Context, b *Batch, sp Spawner) (ApplyResult, error) {
	var res ApplyResult
	rejectedFrom := make(map[ID]ID)

	// Stage 1
	for _, cmd := range b.Spawns {
		if cmd.ID == NoID {
			return res, fmt.Errorf("fieldline: spawn: %w", ErrNoID)
		}
		trs, err := sp.Spawn(ctx, cmd.Seed, cmd.Hint)
		if err != nil {
			return res, fmt.Errorf("fieldline: spawn %d: %w", cmd.ID, err)
		}
		if len(trs) == 0 {
			res.Rejected = append(res.Rejected, cmd.ID)
			rejectedFrom[cmd.ID] = cmd.Props.SrcRational
			continue
		}
		tr := trs[0]
		tr.ID = cmd.ID
		tr.Props = cmd.Props.Clone()
		tr.Props.SrcPt = cmd.Seed
		if err := a.Insert(tr); err != nil {
			return res, fmt.Errorf("fieldline: spawn %d: %w", cmd.ID, err)
		}
		for _, extra := range trs[1:] {
			sp.Terminate(ctx, extra)
		}
		res.Spawned = append(res.Spawned, cmd.ID)
	}

	// Stage 2
	for _, cmd := range b.Updates {
		if tr, ok := a.Get(cmd.ID); ok && cmd.Apply != nil {
			cmd.Apply(&tr.Props)
		}
	}
	for id, src := range rejectedFrom {
		if orig, ok := a.Get(src); ok {
			if idx := slices.Index(orig.Props.Children, id); idx >= 0 {
				orig.Props.Children = slices.Delete(orig.Props.Children, idx, idx+1)
			}
		}
	}

	// Stage 3
	for _, cmd := range b.Retires {
		tr, ok := a.Get(cmd.ID)
		if !ok {
			continue
		}
		a.unlinkChild(tr, cmd.ReplaceWith)
		_ = a.Remove(cmd.ID)
		sp.Terminate(ctx, tr)
		res.Retired = append(res.Retired, cmd.ID)
	}

	return res, nil
}

// unlinkChild removes tr from its rational's children list, or swaps in
// replaceWith when that record is live and not already listed.
func (a *Arena) unlinkChild(tr *Trajectory, replaceWith ID) {
	orig, ok := a.Get(tr.Props.SrcRational)
	if !ok {
		return
	}
	idx := slices.Index(orig.Props.Children, tr.ID)
	if idx < 0 {
		return
	}
	if replaceWith != NoID && a.Has(replaceWith) && !slices.Contains(orig.Props.Children, replaceWith) {
		orig.Props.Children[idx] = replaceWith
		for _, other := range a.Live() {
			if other.Props.SrcSeed == tr.ID {
				other.Props.SrcSeed = replaceWith
			}
		}

		return
	}
	orig.Props.Children = slices.Delete(orig.Props.Children, idx, idx+1)
}
