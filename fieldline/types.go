package fieldline

import "strings"

// ID identifies a trajectory inside an Arena. IDs are positive and never
// reused; NoID marks an absent reference.
type ID int64

// NoID is the zero reference.
const NoID ID = 0

// Type is the topological classification of a fieldline. Values are bit
// flags so that Irrational can be tested as a superset.
type Type uint16

const (
	Unknown              Type = 0
	Rational             Type = 1 << 0
	FluxSurface          Type = 1 << 1
	OPoint               Type = 1 << 2
	XPoint               Type = 1 << 3
	IslandChain          Type = 1 << 4
	IslandsWithinIslands Type = 1 << 5
	Chaotic              Type = 1 << 6

	// Irrational is the superset of the island and fixed-point types.
	Irrational = OPoint | XPoint | IslandChain | IslandsWithinIslands
)

// IsIrrational reports whether t is one of the Irrational members.
func (t Type) IsIrrational() bool { return t&Irrational != 0 }

// IsIsland reports whether t is an island structure.
func (t Type) IsIsland() bool { return t&(IslandChain|IslandsWithinIslands) != 0 }

func (t Type) String() string {
	if t == Unknown {
		return "Unknown"
	}
	names := []struct {
		f Type
		s string
	}{
		{Rational, "Rational"},
		{FluxSurface, "FluxSurface"},
		{OPoint, "OPoint"},
		{XPoint, "XPoint"},
		{IslandChain, "IslandChain"},
		{IslandsWithinIslands, "IslandsWithinIslands"},
		{Chaotic, "Chaotic"},
	}
	var parts []string
	for _, n := range names {
		if t&n.f != 0 {
			parts = append(parts, n.s)
		}
	}
	if len(parts) == 0 {
		return "Invalid"
	}

	return strings.Join(parts, "|")
}

// AnalysisState tracks the classification progress of a trajectory.
type AnalysisState int

const (
	StateUnknown AnalysisState = iota
	AddingPoints
	AddBoundaryPoint
	AddOPoints
	Completed
	Terminated
)

// Terminal reports whether no further classification happens.
func (s AnalysisState) Terminal() bool { return s == Completed || s == Terminated }

func (s AnalysisState) String() string {
	switch s {
	case StateUnknown:
		return "Unknown"
	case AddingPoints:
		return "AddingPoints"
	case AddBoundaryPoint:
		return "AddBoundaryPoint"
	case AddOPoints:
		return "AddOPoints"
	case Completed:
		return "Completed"
	case Terminated:
		return "Terminated"
	default:
		return "Invalid"
	}
}

// AnalysisMethod selects which state machine owns a trajectory.
type AnalysisMethod int

const (
	// Default trajectories are owned by the classifier.
	Default AnalysisMethod = iota
	// RationalSearch trajectories are seeds of a rational-surface search.
	RationalSearch
	// RationalMinimize trajectories are bracket/golden-section trials.
	RationalMinimize
)

func (m AnalysisMethod) String() string {
	switch m {
	case Default:
		return "Default"
	case RationalSearch:
		return "RationalSearch"
	case RationalMinimize:
		return "RationalMinimize"
	default:
		return "Invalid"
	}
}

// SearchState enumerates the sub-states of the rational-surface search.
type SearchState int

const (
	NoSearch SearchState = iota
	OriginalRational
	SearchingSeed
	WaitingSeed
	MinimizingA
	MinimizingB
	MinimizingC
	MinimizingX0
	MinimizingX1
	MinimizingX2
	MinimizingX3
	IslandOPoint
	IslandBoundarySearch
	DeadSeed
	FinishedSeed
)

var searchStateNames = [...]string{
	NoSearch:             "NoSearch",
	OriginalRational:     "OriginalRational",
	SearchingSeed:        "SearchingSeed",
	WaitingSeed:          "WaitingSeed",
	MinimizingA:          "MinimizingA",
	MinimizingB:          "MinimizingB",
	MinimizingC:          "MinimizingC",
	MinimizingX0:         "MinimizingX0",
	MinimizingX1:         "MinimizingX1",
	MinimizingX2:         "MinimizingX2",
	MinimizingX3:         "MinimizingX3",
	IslandOPoint:         "IslandOPoint",
	IslandBoundarySearch: "IslandBoundarySearch",
	DeadSeed:             "DeadSeed",
	FinishedSeed:         "FinishedSeed",
}

func (s SearchState) String() string {
	if s < 0 || int(s) >= len(searchStateNames) {
		return "Invalid"
	}

	return searchStateNames[s]
}

// WindingPair is a (toroidal, poloidal) winding candidate.
type WindingPair struct {
	Toroidal int
	Poloidal int
}

// IsZero reports whether the pair is unset.
func (w WindingPair) IsZero() bool { return w.Toroidal == 0 && w.Poloidal == 0 }
