package core

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// Engine is the contract for an external simulation engine session. It mirrors
// the small surface gosimulink needs from MATLAB: a search-path registration
// call, a generic "evaluate textual command in the workspace" call, model
// load/close, read access to named workspace variables and model parameters,
// and termination.
//
// All methods are blocking round-trips to the engine process; the context
// bounds waiting on the external side. Implementations are not required to be
// safe for concurrent use — a session owns its engine exclusively.
type Engine interface {
	// AddPath registers a directory on the engine's search path.
	AddPath(ctx context.Context, dir string) error

	// Eval executes a textual command in the engine's workspace. The command
	// is interpreted by the engine's scripting language; gosimulink never
	// parses it beyond string interpolation.
	Eval(ctx context.Context, cmd string) error

	// LoadSystem loads the model with the given name into the engine.
	LoadSystem(ctx context.Context, name string) error

	// CloseSystem closes a previously loaded model.
	CloseSystem(ctx context.Context, name string) error

	// Workspace reads a named workspace variable as a numeric matrix.
	Workspace(ctx context.Context, name string) (mat.Matrix, error)

	// GetParam reads a model parameter (e.g. "SimulationStatus") as text.
	GetParam(ctx context.Context, model, param string) (string, error)

	// Quit terminates the engine session and releases the process resource.
	// The engine must not be used afterwards.
	Quit() error
}

// Provider starts a new engine session. It is the single resource-acquisition
// point: every successful call must eventually be paired with Quit, which the
// session layer guarantees through its Connect/Disconnect lifecycle.
type Provider func(ctx context.Context) (Engine, error)
