// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/poincare/config"
	"github.com/katalvlaran/poincare/field"
	"github.com/katalvlaran/poincare/fieldline"
	"github.com/katalvlaran/poincare/geom"
	"github.com/katalvlaran/poincare/search"
	"github.com/katalvlaran/poincare/winding"
)

// Integrator produces trajectory samples. Extension may be asynchronous:
// the engine only looks at the sample count on the next round.
type Integrator interface {
	fieldline.Spawner
	// ExtendSamples asks for at least target samples on tr.
	ExtendSamples(ctx context.Context, tr *fieldline.Trajectory, target int) error
}

// batchExtender is implemented by integrators that extend many
// trajectories in one call, such as field.Integrator.
type batchExtender interface {
	ExtendAll(ctx context.Context, reqs []field.Request) error
}

// sampler is implemented by integrators with a fixed sampling density.
type sampler interface {
	StepsPerTurn() int
}

// Engine owns the arena and runs rounds over it.
type Engine struct {
	cfg     config.Config
	in      Integrator
	arena   *fieldline.Arena
	cl      *winding.Classifier
	ctl     *search.Controller
	log     *slog.Logger
	metrics *metrics
	runID   uuid.UUID
	rounds  int
}

// New returns an Engine over in. Metrics go to reg (nil keeps them
// unregistered); a nil logger discards.
//
// Errors:
//   - ErrNilIntegrator;
//   - any config.Validate error.
func New(cfg config.Config, in Integrator, reg prometheus.Registerer, log *slog.Logger) (*Engine, error) {
	if in == nil {
		return nil, ErrNilIntegrator
	}
	runID := uuid.New()
	log = config.OrNop(log).With("run", runID.String())
	cl, err := winding.NewClassifier(cfg, log)
	if err != nil {
		return nil, err
	}
	ctl, err := search.NewController(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:     cfg,
		in:      in,
		arena:   fieldline.NewArena(),
		cl:      cl,
		ctl:     ctl,
		log:     log,
		metrics: newMetrics(reg),
		runID:   runID,
	}, nil
}

// RunID identifies this engine in logs.
func (e *Engine) RunID() uuid.UUID { return e.runID }

// Arena exposes the trajectory store, read-only by convention between
// rounds.
func (e *Engine) Arena() *fieldline.Arena { return e.arena }

// Rounds returns how many rounds have run.
func (e *Engine) Rounds() int { return e.rounds }

// Add launches a Default-method trajectory at seed and returns its ID.
//
// Errors:
//   - ErrRejectedSeed when the integrator returns no trajectory;
//   - integrator errors, wrapped.
func (e *Engine) Add(ctx context.Context, seed geom.Point) (fieldline.ID, error) {
	trs, err := e.in.Spawn(ctx, seed, geom.Vector{})
	if err != nil {
		return fieldline.NoID, fmt.Errorf("engine: spawn: %w", err)
	}
	if len(trs) == 0 {
		e.metrics.rejected.Inc()
		return fieldline.NoID, ErrRejectedSeed
	}
	for _, extra := range trs[1:] {
		e.in.Terminate(ctx, extra)
	}
	tr := trs[0]
	tr.ID = fieldline.NoID
	tr.Props = fieldline.Properties{
		SrcPt:        seed,
		MaxPunctures: e.cfg.MaxPunctures,
	}
	if err = e.arena.Insert(tr); err != nil {
		return fieldline.NoID, fmt.Errorf("engine: insert: %w", err)
	}
	e.log.Debug("trajectory added", "id", tr.ID, "seed", seed)

	return tr.ID, nil
}

// Round runs one round and reports whether the engine has settled.
//
// Implementation:
//   - Stage 1: extend every trajectory short of punctures;
//   - Stage 2: force Terminated on trajectories the integrator stopped;
//   - Stage 3: classify Default-method trajectories;
//   - Stage 4: one search pass, then commit its batch.
//
// Errors: ctx.Err(), integrator and commit errors, wrapped.
func (e *Engine) Round(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	start := time.Now()
	e.rounds++

	// Stage 1
	if err := e.extend(ctx); err != nil {
		return false, fmt.Errorf("engine: extend: %w", err)
	}

	// Stage 2
	for _, tr := range e.arena.Live() {
		if tr.Stopped && !tr.Props.AnalysisState.Terminal() && len(tr.Punctures()) < e.need(tr) {
			tr.Props.AnalysisState = fieldline.Terminated
			tr.Props.NPuncturesNeeded = 0
			e.metrics.terminated.Inc()
			e.log.Info("trajectory stopped early", "id", tr.ID, "punctures", len(tr.Punctures()))
		}
	}

	// Stage 3
	for _, tr := range e.arena.Live() {
		if tr.Props.AnalysisMethod != fieldline.Default || tr.Props.AnalysisState.Terminal() {
			continue
		}
		tr.Props = e.cl.Classify(tr)
		if tr.Props.AnalysisState.Terminal() {
			e.metrics.classified.WithLabelValues(tr.Props.Type.String()).Inc()
		}
	}

	// Stage 4
	var b fieldline.Batch
	if e.cfg.SearchEnabled {
		e.metrics.transitions.Add(float64(e.ctl.Step(e.arena, &b)))
	}
	res, err := e.arena.Apply(ctx, &b, e.in)
	if err != nil {
		return false, fmt.Errorf("engine: apply: %w", err)
	}
	e.metrics.spawned.Add(float64(len(res.Spawned)))
	e.metrics.rejected.Add(float64(len(res.Rejected)))
	e.metrics.retired.Add(float64(len(res.Retired)))
	e.metrics.live.Set(float64(e.arena.Len()))
	e.metrics.rounds.Inc()
	e.metrics.roundDuration.Observe(time.Since(start).Seconds())

	settled := e.Settled()
	e.log.Debug("round done",
		"round", e.rounds,
		"live", e.arena.Len(),
		"spawned", len(res.Spawned),
		"retired", len(res.Retired),
		"settled", settled)

	return settled, nil
}

// Run repeats Round until the engine settles or maxRounds have run, and
// returns the number of rounds used. maxRounds <= 0 means no limit.
//
// Errors: ErrRoundLimit, or the first Round error.
func (e *Engine) Run(ctx context.Context, maxRounds int) (int, error) {
	for r := 1; maxRounds <= 0 || r <= maxRounds; r++ {
		settled, err := e.Round(ctx)
		if err != nil {
			return r, err
		}
		if settled {
			e.log.Info("settled", "rounds", r, "trajectories", e.arena.Len())
			return r, nil
		}
	}
	e.log.Warn("round limit reached", "rounds", maxRounds)

	return maxRounds, ErrRoundLimit
}

// Settled reports whether every Default-method trajectory is terminal and
// the search has no pending work.
func (e *Engine) Settled() bool {
	for _, tr := range e.arena.Live() {
		if tr.Props.AnalysisMethod == fieldline.Default && !tr.Props.AnalysisState.Terminal() {
			return false
		}
	}

	return e.ctl.Settled(e.arena)
}

// need is the puncture count a trajectory waits for.
func (e *Engine) need(tr *fieldline.Trajectory) int {
	return max(tr.Props.NPuncturesNeeded, e.cfg.MinPunctures)
}

// extend requests samples for every trajectory that is short of
// punctures and has no request outstanding.
func (e *Engine) extend(ctx context.Context) error {
	var reqs []field.Request
	for _, tr := range e.arena.Live() {
		if tr.Props.AnalysisState.Terminal() || tr.Stopped || !tr.Ready() {
			continue
		}
		need, n := e.need(tr), len(tr.Punctures())
		if n >= need {
			continue
		}
		reqs = append(reqs, field.Request{Trajectory: tr, Target: e.target(tr, need, n)})
	}
	if len(reqs) == 0 {
		return nil
	}
	if be, ok := e.in.(batchExtender); ok {
		return be.ExtendAll(ctx, reqs)
	}
	for _, r := range reqs {
		if err := e.in.ExtendSamples(ctx, r.Trajectory, r.Target); err != nil {
			return err
		}
	}

	return nil
}

// target estimates the sample count that yields need punctures: exactly
// when the integrator samples at a fixed density, from the observed
// samples per puncture otherwise.
func (e *Engine) target(tr *fieldline.Trajectory, need, n int) int {
	have := len(tr.Samples)
	var t int
	switch s, ok := e.in.(sampler); {
	case ok && s.StepsPerTurn() > 0:
		t = (need + 1) * s.StepsPerTurn()
	case n >= 2:
		perPuncture := float64(have) / float64(n)
		t = int(math.Ceil(float64(need+1) * perPuncture))
	default:
		t = max(e.cfg.InitialSamples, 2*have)
	}

	return max(t, have+1)
}
