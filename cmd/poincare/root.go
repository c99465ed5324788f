package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/poincare/config"
	"github.com/katalvlaran/poincare/field"
	"github.com/katalvlaran/poincare/geom"
)

var errUnknownModel = errors.New("poincare: unknown model")

// options collects the flags shared by every subcommand.
type options struct {
	configPath string
	verbosity  int
	rounds     int

	model  string
	q0, q2 float64
	shape  float64
	shapeM int

	islandM, islandN int
	islandWidth      float64
	islandNu         float64

	seeds      int
	rMin, rMax float64
	thetaDeg   float64
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "poincare",
		Short: "Classify toroidal fieldlines from their Poincaré punctures",
		Long: `poincare launches fieldlines in an analytic toroidal field, classifies
each one from its punctures through the poloidal plane (rational surface,
flux surface, island chain, chaotic) and, with the search subcommand,
refines every rational surface it finds.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML config file; defaults apply when empty")
	pf.IntVarP(&opts.verbosity, "verbosity", "v", 0, "diagnostics: 0 warn, 1 info, 2 debug (overrides the config file)")
	pf.IntVar(&opts.rounds, "rounds", 200, "maximum engine rounds; 0 means no limit")
	pf.StringVar(&opts.model, "model", "tokamak", "field model: tokamak or islands")
	pf.Float64Var(&opts.q0, "q0", 2.5, "tokamak: on-axis safety factor")
	pf.Float64Var(&opts.q2, "q2", 0, "tokamak: safety factor shear, q(r) = q0 + q2·r²")
	pf.Float64Var(&opts.shape, "shape", 0, "tokamak: relative ripple of the flux surfaces")
	pf.IntVar(&opts.shapeM, "shape-m", 0, "tokamak: poloidal mode number of the ripple")
	pf.IntVar(&opts.islandM, "island-m", 3, "islands: number of islands")
	pf.IntVar(&opts.islandN, "island-n", 1, "islands: toroidal mode number")
	pf.Float64Var(&opts.islandWidth, "island-width", 0.1, "islands: island half width")
	pf.Float64Var(&opts.islandNu, "island-nu", 0.25, "islands: rotation inside an island per M turns")
	pf.IntVar(&opts.seeds, "seeds", 1, "number of seeds spread over [r-min, r-max]")
	pf.Float64Var(&opts.rMin, "r-min", 0.5, "minor radius of the first seed")
	pf.Float64Var(&opts.rMax, "r-max", 0.5, "minor radius of the last seed")
	pf.Float64Var(&opts.thetaDeg, "theta", 10, "poloidal angle of the seeds, degrees")

	root.AddCommand(newClassifyCmd(opts), newSearchCmd(opts), newConfigCmd(opts))

	return root
}

// loadConfig reads --config over the defaults and applies --verbosity when
// it was given.
func (o *options) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if cmd.Flags().Changed("verbosity") {
		cfg.Verbosity = o.verbosity
	}

	return cfg, nil
}

const (
	majorRadius = 3.0
	minorRadius = 1.0
)

// buildModel returns the validated field model named by --model.
func (o *options) buildModel() (field.Model, error) {
	switch o.model {
	case "tokamak":
		m := field.Tokamak{R0: majorRadius, Q0: o.q0, Q2: o.q2, MinorRadius: minorRadius, Shape: o.shape, ShapeM: o.shapeM}
		return m, m.Validate()
	case "islands":
		m := field.IslandChain{
			R0:          majorRadius,
			R1:          0.5,
			M:           o.islandM,
			N:           o.islandN,
			Width:       o.islandWidth,
			Nu:          o.islandNu,
			Theta0:      math.Pi / 3,
			MinorRadius: 0.9,
		}
		return m, m.Validate()
	}

	return nil, fmt.Errorf("%w %q", errUnknownModel, o.model)
}

// seedPoints spreads --seeds points over [r-min, r-max] at --theta.
func (o *options) seedPoints() []geom.Point {
	n := max(o.seeds, 1)
	th := o.thetaDeg * math.Pi / 180
	pts := make([]geom.Point, n)
	for i := range pts {
		r := o.rMin
		if n > 1 {
			r += (o.rMax - o.rMin) * float64(i) / float64(n-1)
		}
		pts[i] = geom.Pt(majorRadius+r*math.Cos(th), 0, r*math.Sin(th))
	}

	return pts
}
