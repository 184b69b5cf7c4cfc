package testutil

import (
	"context"
	"fmt"

	"github.com/hupe1980/gosimulink/core"
	"gonum.org/v1/gonum/mat"
)

// Interface compliance (compile-time assertion)
var _ core.Engine = (*FakeEngine)(nil)

// FakeEngine is an in-memory core.Engine recording every call. Workspace
// variables are served from the Vars map; failures are injected via EvalErrs
// and VarErrs keyed by exact command / variable name.
type FakeEngine struct {
	StartCount int
	QuitCount  int

	Paths  []string
	Evals  []string
	Loaded []string
	Closed []string
	Params map[string]string

	Vars     map[string]mat.Matrix
	EvalErrs map[string]error
	VarErrs  map[string]error
	StartErr error
}

// NewFakeEngine creates an empty fake with no pre-seeded variables.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		Params:   map[string]string{},
		Vars:     map[string]mat.Matrix{},
		EvalErrs: map[string]error{},
		VarErrs:  map[string]error{},
	}
}

// SetVar seeds a workspace variable as a column vector.
func (f *FakeEngine) SetVar(name string, values ...float64) {
	f.Vars[name] = mat.NewDense(len(values), 1, values)
}

// Provider returns a core.Provider handing out this fake, counting starts.
func (f *FakeEngine) Provider() core.Provider {
	return func(ctx context.Context) (core.Engine, error) {
		if f.StartErr != nil {
			return nil, f.StartErr
		}
		f.StartCount++
		return f, nil
	}
}

// AddPath records the registered directory.
func (f *FakeEngine) AddPath(_ context.Context, dir string) error {
	f.Paths = append(f.Paths, dir)
	return nil
}

// Eval records the command and returns an injected error when one matches.
// Like the real backend it refuses to submit on a done context.
func (f *FakeEngine) Eval(ctx context.Context, cmd string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Evals = append(f.Evals, cmd)
	return f.EvalErrs[cmd]
}

// LoadSystem records the load event.
func (f *FakeEngine) LoadSystem(_ context.Context, name string) error {
	f.Loaded = append(f.Loaded, name)
	return nil
}

// CloseSystem records the close event.
func (f *FakeEngine) CloseSystem(_ context.Context, name string) error {
	f.Closed = append(f.Closed, name)
	return nil
}

// Workspace serves a seeded variable or fails like a missing result field.
func (f *FakeEngine) Workspace(_ context.Context, name string) (mat.Matrix, error) {
	if err := f.VarErrs[name]; err != nil {
		return nil, err
	}
	m, ok := f.Vars[name]
	if !ok {
		return nil, fmt.Errorf("unrecognized variable %q", name)
	}
	return m, nil
}

// GetParam serves seeded model parameters keyed "model/param".
func (f *FakeEngine) GetParam(_ context.Context, model, param string) (string, error) {
	v, ok := f.Params[model+"/"+param]
	if !ok {
		return "", fmt.Errorf("unknown parameter %q on model %q", param, model)
	}
	return v, nil
}

// Quit counts shutdown events.
func (f *FakeEngine) Quit() error {
	f.QuitCount++
	return nil
}
