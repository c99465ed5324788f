// Package winding detects the periodicity of a fieldline's Poincaré
// punctures and classifies the fieldline topologically.
//
// The analysis combines two independent signals:
//
//   - confidence: how consistently the accumulated poloidal winding count
//     advances by the same amount between punctures t apart
//     (PoloidalWindingCheck, Collapse, RankByConfidence);
//   - variance: how closely punctures (and ridgeline points) repeat with a
//     given period (PeriodicityStats).
//
// MergeRanks reconciles both into an ordered candidate list; the first
// candidate that is Drawable (its groups form simple polygons) is the
// winding pair. ResonanceCheck then separates island chains from plain
// surfaces, and RationalCheck / FluxSurfaceNodes resolve the rest.
//
// Classifier.Classify runs the whole pipeline on one trajectory. It never
// blocks: when more punctures are needed it sets AnalysisState to
// AddingPoints with NPuncturesNeeded and returns.
//
// Ranks are dense (equal scores share a rank). Every tie in candidate
// order goes to the larger toroidal winding.
package winding
