// Package gosimulink provides a high-level façade for driving Simulink models
// through an external MATLAB engine process. Most applications interact with
// this package by:
//  1. Opening a session via Open() (optionally overriding the engine provider,
//     logger or output-variable set)
//  2. Injecting workspace parameters with SetParameters
//  3. Running a timed simulation with Run and harvesting the named output
//     signals as numeric series
//
// The façade delegates lifecycle management to session.ModelSession while
// keeping setup ergonomics concise. WithSession is the preferred entry point
// for one-shot work: it guarantees the engine is released however the callback
// exits, which matters because a MATLAB process is an expensive external
// resource.
package gosimulink

import (
	"context"
	"errors"

	"github.com/hupe1980/gosimulink/core"
	"github.com/hupe1980/gosimulink/logging"
	"github.com/hupe1980/gosimulink/session"
)

// RunOptions is re-exported so façade users can configure runs without
// importing the session package.
type RunOptions = session.RunOptions

// Options configures session construction through the façade.
type Options struct {
	// OutputVariables are the signal names harvested after each run. The
	// built-in time vector is always included.
	OutputVariables []string

	// AutoConnect starts the engine during Open. Enabled by default.
	AutoConnect bool

	// Provider starts the engine (defaults to the MATLAB process backend).
	Provider core.Provider

	// Logger defaults to NoOp if nil.
	Logger logging.Logger
}

// Open creates a session for the model at path. Unless disabled, the engine
// is started and the model loaded before Open returns. The caller owns the
// session and must pair it with Close (or Disconnect).
func Open(ctx context.Context, path string, optFns ...func(o *Options)) (*session.ModelSession, error) {
	opts := Options{
		AutoConnect: true,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return session.New(ctx, path, func(o *session.Options) {
		o.OutputVariables = opts.OutputVariables
		o.AutoConnect = opts.AutoConnect
		o.Logger = opts.Logger
		if opts.Provider != nil {
			o.Provider = opts.Provider
		}
	})
}

// WithSession opens a connected session, invokes fn and disconnects afterwards
// regardless of how fn exits. It is the scoped-acquisition construct callers
// should prefer over manual Connect/Disconnect pairing; any disconnect error
// is joined with fn's error.
func WithSession(
	ctx context.Context,
	path string,
	fn func(ctx context.Context, s *session.ModelSession) error,
	optFns ...func(o *Options),
) (err error) {
	s, err := Open(ctx, path, append(optFns, func(o *Options) { o.AutoConnect = true })...)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, s.Close())
	}()

	return fn(ctx, s)
}
