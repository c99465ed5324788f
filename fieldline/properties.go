package fieldline

import (
	"slices"

	"github.com/katalvlaran/poincare/geom"
)

// Bracket holds the outer members of a bracketing triple. It lives on the
// B member, whose completion drives the bracket step.
type Bracket struct {
	A, C ID
}

// Quartet holds the golden-section siblings of the X0 member, which drives
// the minimization step.
type Quartet struct {
	X1, X2, X3 ID
}

// Properties is the classification and search record attached to one
// trajectory.
//
// Classification fields (Type … SafetyFactor) are written by the classifier
// only while AnalysisMethod is Default. Search fields (SearchState,
// Iteration, anchors, sibling IDs) are written by the search controller
// only, and only through a Batch.
type Properties struct {
	Type           Type
	AnalysisState  AnalysisState
	AnalysisMethod AnalysisMethod
	SearchState    SearchState

	ToroidalWinding    int
	PoloidalWinding    int
	PoloidalWindingP   int // winding around the secondary (island) axis
	ToroidalResonance  int
	PoloidalResonance  int
	WindingGroupOffset int // Blankinship skip
	Islands            int
	IslandGroups       int
	NNodes             int
	NPuncturesNeeded   int
	SafetyFactor       float64

	// MaxPunctures caps NPuncturesNeeded.
	MaxPunctures int
	// Override forces a winding pair when no candidate is drawable.
	Override WindingPair

	// OPoints are the estimated island centers in section coordinates.
	OPoints []geom.Point

	// Iteration counts search generations; children start at parent+1.
	Iteration int

	// SrcPt is the launch point; the recurrence distance is measured from
	// the puncture nearest to it.
	SrcPt geom.Point
	// RationalPt1 and RationalPt2 are the adjacent puncture anchors of the
	// original rational surface that seeds are placed between.
	RationalPt1 geom.Point
	RationalPt2 geom.Point

	// SearchOrigin + X·SearchDir is the launch point of a search trial.
	SearchOrigin geom.Point
	SearchDir    geom.Vector
	X            float64

	// Children lists the seed slots of an OriginalRational record.
	Children []ID
	// SrcSeed is the seed placeholder this trial belongs to.
	SrcSeed ID
	// SrcRational is the OriginalRational record this trial belongs to.
	SrcRational ID

	Bracket Bracket
	Quartet Quartet
}

// Clone returns a deep copy of p.
func (p Properties) Clone() Properties {
	c := p
	c.Children = slices.Clone(p.Children)
	c.OPoints = slices.Clone(p.OPoints)

	return c
}

// Derive returns the properties of a trajectory spawned from p: a deep
// copy with Iteration+1, the given search state, classification reset to
// Unknown and no children, bracket or quartet references.
func (p Properties) Derive(method AnalysisMethod, state SearchState) Properties {
	c := p.Clone()
	c.Iteration = p.Iteration + 1
	c.AnalysisMethod = method
	c.SearchState = state
	c.Type = Unknown
	c.AnalysisState = StateUnknown
	c.NPuncturesNeeded = 0
	c.Children = nil
	c.OPoints = nil
	c.Bracket = Bracket{}
	c.Quartet = Quartet{}

	return c
}

// LaunchPoint returns SearchOrigin + X·SearchDir.
func (p Properties) LaunchPoint() geom.Point {
	return p.SearchOrigin.Add(p.SearchDir.Mul(p.X))
}
