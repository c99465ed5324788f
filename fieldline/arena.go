package fieldline

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Arena is the ID-keyed store of live trajectories.
//
// IDs come from an atomic counter and are never reused, so a stale ID can
// only ever miss, not alias a newer record. mu guards records; the records
// themselves are owned by the round in progress.
type Arena struct {
	mu      sync.RWMutex
	nextID  atomic.Int64
	records map[ID]*Trajectory
}

// NewArena returns an empty arena.
// Complexity: O(1).
func NewArena() *Arena {
	return &Arena{records: make(map[ID]*Trajectory)}
}

// Reserve returns a fresh ID without inserting anything. Spawn commands
// carry reserved IDs so that siblings can reference each other before the
// commit that creates them.
// Complexity: O(1).
func (a *Arena) Reserve() ID {
	return ID(a.nextID.Add(1))
}

// Insert adds tr under tr.ID. A zero ID is replaced by a reserved one.
//
// Errors:
//   - ErrNilTrajectory: tr == nil.
//   - ErrDuplicateID: tr.ID is already live.
//
// Complexity: O(1) amortized.
func (a *Arena) Insert(tr *Trajectory) error {
	if tr == nil {
		return ErrNilTrajectory
	}
	if tr.ID == NoID {
		tr.ID = a.Reserve()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.records[tr.ID]; ok {
		return ErrDuplicateID
	}
	a.records[tr.ID] = tr
	a.bumpPast(tr.ID)

	return nil
}

// bumpPast keeps the counter ahead of externally chosen IDs.
func (a *Arena) bumpPast(id ID) {
	for {
		cur := a.nextID.Load()
		if int64(id) <= cur || a.nextID.CompareAndSwap(cur, int64(id)) {
			return
		}
	}
}

// Get returns the live trajectory with the given ID.
// Complexity: O(1).
func (a *Arena) Get(id ID) (*Trajectory, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	tr, ok := a.records[id]

	return tr, ok
}

// Has reports whether id is live.
func (a *Arena) Has(id ID) bool {
	_, ok := a.Get(id)

	return ok
}

// Remove deletes id. Removing an unknown ID returns ErrUnknownID.
// Callers normally retire through a Batch, which also fixes children lists.
// Complexity: O(1).
func (a *Arena) Remove(id ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.records[id]; !ok {
		return ErrUnknownID
	}
	delete(a.records, id)

	return nil
}

// Len returns the number of live trajectories.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.records)
}

// Live returns every live trajectory sorted by ascending ID, which is also
// creation order. The slice is a snapshot; the pointers are shared.
// Complexity: O(n log n).
func (a *Arena) Live() []*Trajectory {
	a.mu.RLock()
	out := make([]*Trajectory, 0, len(a.records))
	for _, tr := range a.records {
		out = append(out, tr)
	}
	a.mu.RUnlock()
	slices.SortFunc(out, func(x, y *Trajectory) int {
		switch {
		case x.ID < y.ID:
			return -1
		case x.ID > y.ID:
			return 1
		default:
			return 0
		}
	})

	return out
}

// Children returns the live children of the OriginalRational record id, in
// list order.
func (a *Arena) Children(id ID) []*Trajectory {
	orig, ok := a.Get(id)
	if !ok {
		return nil
	}
	out := make([]*Trajectory, 0, len(orig.Props.Children))
	for _, c := range orig.Props.Children {
		if tr, ok := a.Get(c); ok {
			out = append(out, tr)
		}
	}

	return out
}
