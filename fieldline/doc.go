// Package fieldline defines the data model shared by the classifier, the
// rational-surface search and the round engine:
//
//   - Type, AnalysisState, AnalysisMethod, SearchState: the tagged states
//     of a trajectory;
//   - Properties: the mutable classification/search record attached 1:1
//     to every trajectory;
//   - Trajectory: an append-only sample sequence plus its Properties;
//   - Arena: the ID-keyed store of live trajectories;
//   - Batch: buffered Spawn/Update/Retire commands applied atomically at
//     the end of a round.
//
// Trajectories reference each other (children of an original rational,
// bracket and golden-section siblings) only through IDs. Deleting a
// trajectory removes its ID from every children list in the same commit,
// so lists never hold dead IDs.
//
// Concurrency:
//
//	The Arena guards its map with a sync.RWMutex, so lookups are safe from
//	any goroutine. Properties and Samples of an individual trajectory are
//	owned by the round in progress and are not synchronized.
package fieldline
