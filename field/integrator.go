package field

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/poincare/config"
	"github.com/katalvlaran/poincare/fieldline"
	"github.com/katalvlaran/poincare/geom"
)

// DefaultStepsPerTurn is the sampling density of a new Integrator.
const DefaultStepsPerTurn = 200

const (
	panicStepsInvalid   = "field: WithStepsPerTurn: need at least 8 steps per turn"
	panicWorkersInvalid = "field: WithWorkers: need at least one worker"
)

// Option configures an Integrator.
type Option func(*Integrator)

// WithStepsPerTurn sets the number of samples per toroidal turn.
func WithStepsPerTurn(n int) Option {
	if n < 8 {
		panic(panicStepsInvalid)
	}

	return func(in *Integrator) { in.stepsPerTurn = n }
}

// WithMaxSamples stops every trajectory at n samples; 0 means unbounded.
func WithMaxSamples(n int) Option {
	return func(in *Integrator) { in.maxSamples = max(n, 0) }
}

// WithWorkers bounds the goroutines used by ExtendAll.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(in *Integrator) { in.workers = n }
}

// Request asks ExtendAll to grow one trajectory to Target samples.
type Request struct {
	Trajectory *fieldline.Trajectory
	Target     int
}

// Integrator samples the fieldlines of a Model.
//
// Spawn registers the seed of every trajectory it hands out; ExtendSamples
// and ExtendAll only serve registered trajectories. The registry is
// guarded by a mutex, and distinct trajectories may be extended
// concurrently.
type Integrator struct {
	model        Model
	log          *slog.Logger
	stepsPerTurn int
	maxSamples   int
	workers      int

	mu    sync.Mutex
	seeds map[*fieldline.Trajectory]geom.Point
}

// NewIntegrator returns an Integrator over model. A nil logger discards.
func NewIntegrator(model Model, log *slog.Logger, opts ...Option) (*Integrator, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	in := &Integrator{
		model:        model,
		log:          config.OrNop(log),
		stepsPerTurn: DefaultStepsPerTurn,
		workers:      runtime.GOMAXPROCS(0),
		seeds:        make(map[*fieldline.Trajectory]geom.Point),
	}
	for _, opt := range opts {
		opt(in)
	}

	return in, nil
}

// StepsPerTurn returns the sampling density.
func (in *Integrator) StepsPerTurn() int { return in.stepsPerTurn }

// Spawn launches one trajectory at seed, or none when the model rejects
// the seed. The velocity hint is unused: analytic models have no state
// beyond position.
func (in *Integrator) Spawn(ctx context.Context, seed geom.Point, _ geom.Vector) ([]*fieldline.Trajectory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := in.model.Trace(seed, 0); !ok {
		in.log.Debug("seed rejected", "seed", seed)

		return nil, nil
	}
	tr := fieldline.NewTrajectory(fieldline.NoID, seed, fieldline.Properties{})
	in.mu.Lock()
	in.seeds[tr] = seed
	in.mu.Unlock()

	return []*fieldline.Trajectory{tr}, nil
}

// Terminate stops tr and forgets it.
func (in *Integrator) Terminate(_ context.Context, tr *fieldline.Trajectory) {
	if tr == nil {
		return
	}
	in.mu.Lock()
	delete(in.seeds, tr)
	in.mu.Unlock()
	tr.Stopped = true
}

// ExtendSamples grows tr to target samples. Sample k sits at toroidal
// angle (k − ½)·2π/StepsPerTurn. The trajectory is marked Stopped when it
// leaves the model domain or reaches the sample cap.
//
// Errors:
//   - ErrNilTrajectory, ErrUnknownTrajectory;
//   - ctx.Err() when the context is done.
//
// Complexity: O(target − len(tr.Samples)).
func (in *Integrator) ExtendSamples(ctx context.Context, tr *fieldline.Trajectory, target int) error {
	if tr == nil {
		return ErrNilTrajectory
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	in.mu.Lock()
	seed, ok := in.seeds[tr]
	in.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownTrajectory, tr.ID)
	}
	if tr.Stopped {
		return nil
	}
	if in.maxSamples > 0 && target >= in.maxSamples {
		target = in.maxSamples
		defer func() { tr.Stopped = true }()
	}
	tr.Requested = max(tr.Requested, target)
	n := len(tr.Samples)
	if target <= n {
		return nil
	}

	h := 2 * math.Pi / float64(in.stepsPerTurn)
	phis := make([]float64, target-n)
	if len(phis) == 1 {
		phis[0] = (float64(n) - 0.5) * h
	} else {
		floats.Span(phis, (float64(n)-0.5)*h, (float64(target)-1.5)*h)
	}
	for _, phi := range phis {
		p, ok := in.model.Trace(seed, phi)
		if !ok {
			tr.Stopped = true
			in.log.Debug("trajectory left the domain", "id", tr.ID, "samples", len(tr.Samples))

			return nil
		}
		tr.Append(p)
	}

	return nil
}

// ExtendAll runs ExtendSamples for every request on a bounded worker pool.
// The first error cancels the remaining work and is returned.
func (in *Integrator) ExtendAll(ctx context.Context, reqs []Request) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.workers)
	for _, r := range reqs {
		g.Go(func() error {
			return in.ExtendSamples(gctx, r.Trajectory, r.Target)
		})
	}

	return g.Wait()
}
