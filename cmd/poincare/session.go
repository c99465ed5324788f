package main

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/poincare/config"
	"github.com/katalvlaran/poincare/engine"
	"github.com/katalvlaran/poincare/field"
)

func newClassifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Classify the fieldlines through the seed points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, opts, false)
		},
	}
}

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Classify, then refine every rational surface found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, opts, true)
		},
	}
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
}

// runSession runs the engine over the seed points and prints a YAML report
// with the run's metrics. Hitting the round limit is reported as settled: false, not as an error.
func runSession(cmd *cobra.Command, opts *options, withSearch bool) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	if withSearch {
		cfg.SearchEnabled = true
	}
	log := config.NewLogger(cfg.Verbosity, cmd.ErrOrStderr())

	model, err := opts.buildModel()
	if err != nil {
		return err
	}
	in, err := field.NewIntegrator(model, log)
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	e, err := engine.New(cfg, in, reg, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	for _, seed := range opts.seedPoints() {
		if _, err = e.Add(ctx, seed); err != nil {
			if errors.Is(err, engine.ErrRejectedSeed) {
				log.Warn("seed outside the model domain", "seed", seed)
				continue
			}
			return err
		}
	}
	rounds, err := e.Run(ctx, opts.rounds)
	if err != nil && !errors.Is(err, engine.ErrRoundLimit) {
		return err
	}

	rep := newReport(e, rounds, err == nil)
	if rep.Metrics, err = gatherMetrics(reg); err != nil {
		return err
	}
	out, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("poincare: report: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)

	return err
}
