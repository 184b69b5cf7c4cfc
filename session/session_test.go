package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gosimulink/core"
	"github.com/hupe1980/gosimulink/internal/testutil"
)

// newModelFile creates an empty model file in a temp dir and returns its path.
func newModelFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plant.slx")
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))
	return path
}

func newSession(t *testing.T, fe *testutil.FakeEngine, optFns ...func(o *Options)) *ModelSession {
	t.Helper()
	s, err := New(context.Background(), newModelFile(t), append(optFns, func(o *Options) {
		o.Provider = fe.Provider()
	})...)
	require.NoError(t, err)
	return s
}

func TestNew_ModelNotFound(t *testing.T) {
	for _, path := range []string{"does/not/exist.slx", "/nope.slx", "plant"} {
		_, err := New(context.Background(), path)
		assert.ErrorIs(t, err, core.ErrModelNotFound, "path %q", path)
	}
}

func TestNew_DerivesNameAndOutputs(t *testing.T) {
	fe := testutil.NewFakeEngine()
	s := newSession(t, fe, func(o *Options) {
		o.OutputVariables = []string{"y", "tout", "y"}
	})

	assert.Equal(t, "plant", s.Name())
	assert.Equal(t, []string{"tout", "y"}, s.OutputVariables())
	assert.Equal(t, "Simulink model: plant", s.String())
	assert.NotEmpty(t, s.ID())
}

func TestNew_AutoConnect(t *testing.T) {
	fe := testutil.NewFakeEngine()
	s := newSession(t, fe)

	assert.Equal(t, 1, fe.StartCount)
	assert.Equal(t, []string{"plant"}, fe.Loaded)
	assert.Equal(t, StateConnected, s.State())
	assert.Contains(t, fe.Evals, "model = 'plant';")
	require.Len(t, fe.Paths, 1)
	assert.Equal(t, filepath.Dir(s.Path()), fe.Paths[0])
}

func TestNew_WithoutAutoConnect(t *testing.T) {
	fe := testutil.NewFakeEngine()
	s := newSession(t, fe, func(o *Options) { o.AutoConnect = false })

	assert.Equal(t, 0, fe.StartCount)
	assert.Equal(t, StateDisconnected, s.State())
	assert.False(t, s.Connected())
}

func TestConnect_Idempotent(t *testing.T) {
	fe := testutil.NewFakeEngine()
	s := newSession(t, fe)

	require.NoError(t, s.Connect(context.Background()))
	require.NoError(t, s.Connect(context.Background()))

	assert.Equal(t, 1, fe.StartCount, "engine startup must happen exactly once")
	assert.Len(t, fe.Loaded, 1)
}

func TestConnect_SetupFailureReleasesEngine(t *testing.T) {
	fe := testutil.NewFakeEngine()
	fe.EvalErrs["model = 'plant';"] = assert.AnError

	s := newSession(t, fe, func(o *Options) { o.AutoConnect = false })
	err := s.Connect(context.Background())

	assert.ErrorIs(t, err, assert.AnError, "engine-layer error must propagate unchanged")
	assert.Equal(t, StateDisconnected, s.State())
	assert.Equal(t, 1, fe.QuitCount, "started engine must be released on load failure")
}

func TestDisconnect_Idempotent(t *testing.T) {
	fe := testutil.NewFakeEngine()
	s := newSession(t, fe, func(o *Options) { o.AutoConnect = false })

	// Never connected: no shutdown events.
	require.NoError(t, s.Disconnect(context.Background()))
	assert.Equal(t, 0, fe.QuitCount)
	assert.Empty(t, fe.Closed)

	require.NoError(t, s.Connect(context.Background()))
	require.NoError(t, s.Disconnect(context.Background()))
	require.NoError(t, s.Disconnect(context.Background()))

	assert.Equal(t, 1, fe.QuitCount)
	assert.Equal(t, []string{"plant"}, fe.Closed)
	assert.Equal(t, StateDisconnected, s.State())
}

func TestClose_DelegatesToDisconnect(t *testing.T) {
	fe := testutil.NewFakeEngine()
	s := newSession(t, fe)

	require.NoError(t, s.Close())
	assert.Equal(t, 1, fe.QuitCount)
}

func TestSetParameters(t *testing.T) {
	fe := testutil.NewFakeEngine()
	s := newSession(t, fe)

	before := len(fe.Evals)
	require.NoError(t, s.SetParameters(context.Background(), core.ParameterSet{"Kp": 1.5, "mode": "auto"}))

	require.Len(t, fe.Evals, before+1, "composite command must be submitted exactly once")
	assert.Equal(t, "Kp = 1.5; mode = 'auto';", fe.Evals[before])
}

func TestSetParameters_Empty(t *testing.T) {
	fe := testutil.NewFakeEngine()
	s := newSession(t, fe)

	before := len(fe.Evals)
	require.NoError(t, s.SetParameters(context.Background(), nil))
	assert.Len(t, fe.Evals, before, "empty set submits nothing")
}

func TestSetParameters_NotConnected(t *testing.T) {
	fe := testutil.NewFakeEngine()
	s := newSession(t, fe, func(o *Options) { o.AutoConnect = false })

	err := s.SetParameters(context.Background(), core.ParameterSet{"Kp": 1})
	assert.ErrorIs(t, err, core.ErrNotConnected)
}

func TestRun_MissingOutputIsOmitted(t *testing.T) {
	fe := testutil.NewFakeEngine()
	fe.SetVar("tout", 0, 0.1, 0.2)

	s := newSession(t, fe, func(o *Options) {
		o.OutputVariables = []string{"tout", "y"}
	})

	res, err := s.Run(context.Background())
	require.NoError(t, err, "missing field must not fail the run")

	assert.Equal(t, []float64{0, 0.1, 0.2}, res.Time())
	assert.False(t, res.Has("y"))
	assert.Contains(t, fe.Evals, "y = out.y;", "bind must still be attempted")
}

func TestRun_DefaultBounds(t *testing.T) {
	fe := testutil.NewFakeEngine()
	fe.SetVar("tout", 0)
	s := newSession(t, fe)

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, fe.Evals, "set_param(model, 'StartTime', '0', 'StopTime', '30'); out = sim(model);")
}

func TestRun_SimulationFailureIsFatal(t *testing.T) {
	fe := testutil.NewFakeEngine()
	cmd := "set_param(model, 'StartTime', '0', 'StopTime', '30'); out = sim(model);"
	fe.EvalErrs[cmd] = assert.AnError

	s := newSession(t, fe)
	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRun_NotConnected(t *testing.T) {
	fe := testutil.NewFakeEngine()
	s := newSession(t, fe, func(o *Options) { o.AutoConnect = false })

	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrNotConnected)
}

func TestRun_CancelledContextAborts(t *testing.T) {
	fe := testutil.NewFakeEngine()
	fe.SetVar("tout", 0)
	s := newSession(t, fe)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatus(t *testing.T) {
	fe := testutil.NewFakeEngine()
	fe.Params["plant/SimulationStatus"] = "stopped"
	s := newSession(t, fe)

	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stopped", status)

	require.NoError(t, s.Disconnect(context.Background()))
	_, err = s.Status(context.Background())
	assert.ErrorIs(t, err, core.ErrNotConnected)
}

func TestEndToEnd(t *testing.T) {
	fe := testutil.NewFakeEngine()
	fe.SetVar("tout", 0, 1, 2)
	fe.SetVar("y1", 4, 5, 6)

	s := newSession(t, fe, func(o *Options) {
		o.OutputVariables = []string{"y1"}
	})

	assert.Equal(t, 1, fe.StartCount)
	assert.Len(t, fe.Loaded, 1)

	res, err := s.Run(context.Background(), func(o *RunOptions) { o.Stop = 10 })
	require.NoError(t, err)

	assert.Contains(t, fe.Evals, "set_param(model, 'StartTime', '0', 'StopTime', '10'); out = sim(model);")
	assert.Contains(t, fe.Evals, "tout = out.tout;")
	assert.Contains(t, fe.Evals, "y1 = out.y1;")
	assert.Equal(t, []float64{0, 1, 2}, res.Time())

	y1, ok := res.Signal("y1")
	assert.True(t, ok)
	assert.Equal(t, []float64{4, 5, 6}, y1)

	require.NoError(t, s.Disconnect(context.Background()))
	assert.Equal(t, []string{"plant"}, fe.Closed)
	assert.Equal(t, 1, fe.QuitCount)
}
