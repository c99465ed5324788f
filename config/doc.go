// Package config holds the tunables of the classifier, the rational-surface
// search and the round engine, together with their YAML loader, validation
// and logger construction.
//
// A zero Config is not usable; start from Default() and apply Options, or
// Load a YAML file (missing keys keep their defaults):
//
//	cfg, err := config.Load("poincare.yaml")
//	if err != nil {
//		return err
//	}
//	log := config.NewLogger(cfg.Verbosity, os.Stderr)
//
// Validation is explicit (Validate) and returns sentinel errors that can be
// matched with errors.Is. Options panic on nonsensical values, since those
// are programmer errors rather than input errors.
package config
