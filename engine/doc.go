// Package engine drives classification and rational-surface search in
// rounds over every live trajectory.
//
// One round:
//
//  1. asks the Integrator for more samples on every trajectory that still
//     lacks punctures (batched through ExtendAll when the integrator has it);
//  2. marks trajectories the integrator stopped early as Terminated;
//  3. classifies every Default-method trajectory that is not terminal;
//  4. runs one search.Controller pass when the search is enabled;
//  5. applies the buffered fieldline.Batch.
//
// Rounds are single-threaded; only the integrator may fan out. Waiting for
// samples is never a blocking call: a trajectory that is short of punctures
// keeps its AddingPoints state and is served again next round.
//
// Results exposes what a renderer needs: classification, windings and the
// punctures of every finished trajectory binned by toroidal group, in the
// order that traces one continuous curve.
//
// Metrics are registered on the prometheus.Registerer given to New; a nil
// registerer keeps them unregistered.
package engine
