package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hupe1980/gosimulink/core"
	"github.com/hupe1980/gosimulink/logging"
	"github.com/hupe1980/gosimulink/matlab"
)

// State is the explicit connection state of a ModelSession.
type State int

const (
	// StateDisconnected means no engine handle is held.
	StateDisconnected State = iota
	// StateConnected means the session owns a running engine with the model loaded.
	StateConnected
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Options configures construction of a ModelSession.
type Options struct {
	// OutputVariables are the signal names read back after each run. The
	// built-in time vector is always included and duplicates are collapsed.
	OutputVariables []string

	// AutoConnect starts the engine during New. Enabled by default.
	AutoConnect bool

	// Provider starts the engine. Defaults to the MATLAB process backend.
	Provider core.Provider

	// Logger receives connect/disconnect notices and read-back warnings.
	// Defaults to NoOpLogger.
	Logger logging.Logger
}

// RunOptions bound the simulated timeline of one run. They bound simulation
// time, not wall-clock execution time.
type RunOptions struct {
	Start float64
	Stop  float64
}

// ModelSession manages one external engine connection and drives simulation
// runs of one model. It is a single-owner, synchronous handle: every operation
// is a blocking round-trip to the engine and the session is not safe for
// concurrent use.
//
// Contract:
//   - Connect and Disconnect are idempotent (notice logged, no side effect)
//   - Engine-layer errors propagate to the caller unchanged
//   - Per-variable read failures during Run are recovered: logged as warnings
//     and omitted from the result
type ModelSession struct {
	id       string
	path     string
	name     string
	outVars  []string
	provider core.Provider
	logger   logging.Logger

	eng   core.Engine
	state State
}

// New creates a session for the model at path. The path must exist; the model
// name is derived from the filename stem. Unless disabled via Options, the
// session connects immediately.
func New(ctx context.Context, path string, optFns ...func(o *Options)) (*ModelSession, error) {
	opts := Options{
		AutoConnect: true,
		Provider: func(ctx context.Context) (core.Engine, error) {
			return matlab.Start(ctx)
		},
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("path %q does not exist: %w", path, core.ErrModelNotFound)
		}
		return nil, err
	}

	base := filepath.Base(path)

	s := &ModelSession{
		id:       uuid.NewString(),
		path:     path,
		name:     strings.TrimSuffix(base, filepath.Ext(base)),
		outVars:  core.NormalizeOutputVariables(opts.OutputVariables),
		provider: opts.Provider,
		logger:   opts.Logger,
		state:    StateDisconnected,
	}

	if opts.AutoConnect {
		if err := s.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Connect starts the engine, registers the model directory on its search
// path, binds the model-name workspace variable and loads the model. Calling
// Connect on a connected session is a no-op.
func (s *ModelSession) Connect(ctx context.Context) error {
	if s.state == StateConnected {
		s.logger.Info("Engine already running", "model", s.name, "session_id", s.id)
		return nil
	}

	s.logger.Info("Connecting to engine", "model", s.name, "session_id", s.id)

	eng, err := s.provider(ctx)
	if err != nil {
		return err
	}

	if err := s.setup(ctx, eng); err != nil {
		// The engine started but the model did not load; release the process
		// before surfacing the engine-layer error unchanged.
		_ = eng.Quit()
		return err
	}

	s.eng = eng
	s.state = StateConnected

	return nil
}

func (s *ModelSession) setup(ctx context.Context, eng core.Engine) error {
	if err := eng.AddPath(ctx, filepath.Dir(s.path)); err != nil {
		return err
	}

	s.logger.Info("Loading model", "model", s.name, "session_id", s.id)

	if err := eng.Eval(ctx, fmt.Sprintf("model = '%s';", s.name)); err != nil {
		return err
	}

	return eng.LoadSystem(ctx, s.name)
}

// Disconnect closes the loaded model, terminates the engine session and
// releases the handle. Calling Disconnect on a disconnected session is a
// no-op. The handle is released even when the engine-side close fails.
func (s *ModelSession) Disconnect(ctx context.Context) error {
	if s.state == StateDisconnected {
		s.logger.Info("Engine not running", "model", s.name, "session_id", s.id)
		return nil
	}

	s.logger.Info("Disconnecting from engine", "model", s.name, "session_id", s.id)

	closeErr := s.eng.CloseSystem(ctx, s.name)
	quitErr := s.eng.Quit()

	s.eng = nil
	s.state = StateDisconnected

	return errors.Join(closeErr, quitErr)
}

// Close implements io.Closer by disconnecting. Intended for defer-based
// scoped release.
func (s *ModelSession) Close() error {
	return s.Disconnect(context.Background())
}

// SetParameters builds a single composite assignment command from the given
// set and submits it for execution in the engine's workspace. String values
// are quoted, numeric values are emitted literally; see
// core.ParameterSet.Command for the trust boundary.
func (s *ModelSession) SetParameters(ctx context.Context, params core.ParameterSet) error {
	if s.state != StateConnected {
		return core.ErrNotConnected
	}

	cmd := params.Command()
	if cmd == "" {
		return nil
	}

	return s.eng.Eval(ctx, cmd)
}

// Run sets the model's start/stop time parameters, executes the simulation
// and reads the session's output variables back as flattened numeric series.
//
// Output names whose bind or read fails are logged as warnings and omitted
// from the result; the run continues with the remaining names. Context
// cancellation is not recovered and aborts the run.
func (s *ModelSession) Run(ctx context.Context, optFns ...func(o *RunOptions)) (core.Result, error) {
	if s.state != StateConnected {
		return nil, core.ErrNotConnected
	}

	opts := RunOptions{Start: 0, Stop: 30}

	for _, fn := range optFns {
		fn(&opts)
	}

	cmd := fmt.Sprintf(
		"set_param(model, 'StartTime', '%s', 'StopTime', '%s'); out = sim(model);",
		formatTime(opts.Start), formatTime(opts.Stop),
	)
	if err := s.eng.Eval(ctx, cmd); err != nil {
		return nil, err
	}

	result := core.Result{}

	for _, name := range s.outVars {
		if err := s.eng.Eval(ctx, fmt.Sprintf("%s = out.%s;", name, name)); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			s.logger.Warn("Could not read output variable", "variable", name, "error", err)
			continue
		}

		m, err := s.eng.Workspace(ctx, name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			s.logger.Warn("Could not read output variable", "variable", name, "error", err)
			continue
		}

		result[name] = core.Flatten(m)
	}

	return result, nil
}

// Status reads the model's SimulationStatus field from the engine.
func (s *ModelSession) Status(ctx context.Context) (string, error) {
	if s.state != StateConnected {
		return "", core.ErrNotConnected
	}

	return s.eng.GetParam(ctx, s.name, "SimulationStatus")
}

// ID returns the session identifier.
func (s *ModelSession) ID() string { return s.id }

// Name returns the model name derived from the filename stem.
func (s *ModelSession) Name() string { return s.name }

// Path returns the model file path.
func (s *ModelSession) Path() string { return s.path }

// State returns the current connection state.
func (s *ModelSession) State() State { return s.state }

// Connected reports whether the session holds a running engine.
func (s *ModelSession) Connected() bool { return s.state == StateConnected }

// OutputVariables returns a copy of the normalized output-variable set.
func (s *ModelSession) OutputVariables() []string {
	out := make([]string, len(s.outVars))
	copy(out, s.outVars)
	return out
}

// String describes the session's model.
func (s *ModelSession) String() string {
	return fmt.Sprintf("Simulink model: %s", s.name)
}

func formatTime(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}
