package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/gosimulink/core"
	"github.com/hupe1980/gosimulink/logging"
	"github.com/hupe1980/gosimulink/session"
)

// Options holds dependency overrides passed to New().
type Options struct {
	// Provider starts engines for the sessions the runner opens. Defaults to
	// the session package default (the MATLAB process backend).
	Provider core.Provider

	// Logger receives lifecycle notices. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Runner coordinates manifest execution: opens the session, applies
// parameters, drives one run per sweep point and guarantees disconnection.
type Runner struct {
	provider core.Provider
	logger   logging.Logger
}

// New constructs a Runner with optional overrides.
func New(optFns ...func(o *Options)) *Runner {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{provider: opts.Provider, logger: opts.Logger}
}

// Run executes the manifest and returns results keyed by run label: "default"
// for a plain run, "<parameter>=<value>" per sweep point. The session is
// disconnected before returning, whatever the outcome.
func (r *Runner) Run(ctx context.Context, m *Manifest) (results map[string]core.Result, err error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	s, err := session.New(ctx, m.Model, func(o *session.Options) {
		o.OutputVariables = m.OutputVariables
		if r.provider != nil {
			o.Provider = r.provider
		}
		o.Logger = r.logger
	})
	if err != nil {
		return nil, err
	}

	defer func() {
		err = errors.Join(err, s.Close())
	}()

	if len(m.Parameters) > 0 {
		if err := s.SetParameters(ctx, core.ParameterSet(m.Parameters)); err != nil {
			return nil, err
		}
	}

	results = map[string]core.Result{}

	if m.Sweep == nil {
		res, err := r.runOnce(ctx, s, m)
		if err != nil {
			return nil, err
		}
		results["default"] = res
		return results, nil
	}

	for _, v := range m.Sweep.Values {
		if err := s.SetParameters(ctx, core.ParameterSet{m.Sweep.Parameter: v}); err != nil {
			return nil, err
		}

		res, err := r.runOnce(ctx, s, m)
		if err != nil {
			return nil, err
		}

		results[fmt.Sprintf("%s=%v", m.Sweep.Parameter, v)] = res
	}

	return results, nil
}

func (r *Runner) runOnce(ctx context.Context, s *session.ModelSession, m *Manifest) (core.Result, error) {
	return s.Run(ctx, func(o *session.RunOptions) {
		o.Start = m.Start
		o.Stop = m.Stop
	})
}
