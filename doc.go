// Package poincare classifies magnetic fieldlines in toroidal geometry from
// the points where they puncture a poloidal plane, and locates rational
// surfaces precisely once one is found.
//
// 🚀 What is in the box?
//
//	• Punctures: forward crossings of a cutting plane, interpolated
//	• Winding analysis: (toroidal, poloidal) pairs from poloidal-angle
//	  sums, ranked by confidence and by periodicity statistics
//	• Classification: rational surface, flux surface, island chain,
//	  islands within islands, chaotic
//	• Rational-surface search: bracketing plus golden-section line search,
//	  one trajectory per probe
//	• Round engine: drives an external integrator, buffers every arena
//	  change until the end of the round
//
// Packages:
//
//	geom/        3-D points (r3), gcd/Blankinship, golden constants, hulls, circles
//	puncture/    plane crossings, section coordinates, rotational sums
//	fieldline/   trajectory records, states, ID arena, buffered batches
//	winding/     winding-pair analysis and the classifier
//	search/      rational-surface search controller and line-search steps
//	field/       analytic reference models and a sampling integrator
//	engine/      rounds, metrics, rendering-facing results
//	config/      tunables, YAML loading, slog setup
//	cmd/poincare   command-line driver
//
// Quick example:
//
//	in, _ := field.NewIntegrator(field.Tokamak{R0: 3, Q0: 2.5, MinorRadius: 1}, nil)
//	e, _ := engine.New(config.Default(), in, nil, nil)
//	_, _ = e.Add(ctx, geom.Pt(3.5, 0, 0.1))
//	_, _ = e.Run(ctx, 10)
//	for _, r := range e.Results() {
//		fmt.Println(r.Type, r.ToroidalWinding, r.PoloidalWinding)
//	}
//
//	go get github.com/katalvlaran/poincare
package poincare
