package matlab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestWrapCommand(t *testing.T) {
	wrapped := wrapCommand("x = 1;")

	assert.True(t, strings.HasPrefix(wrapped, "try, x = 1;,"))
	assert.Contains(t, wrapped, markerError)
	assert.Contains(t, wrapped, markerDone)
	assert.NotContains(t, wrapped, "\n", "wrapped command must stay on one line")
}

func TestPrintMatrixCommand(t *testing.T) {
	cmd := printMatrixCommand("tout")
	assert.Contains(t, cmd, "mat2str(tout)")
	assert.Contains(t, cmd, markerValue)
}

func TestPrintParamCommand(t *testing.T) {
	cmd := printParamCommand("plant", "SimulationStatus")
	assert.Contains(t, cmd, "get_param('plant', 'SimulationStatus')")
}

func TestParseMatrix_Scalar(t *testing.T) {
	m, err := ParseMatrix("5")
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 1, r)
	assert.Equal(t, 1, c)
	assert.Equal(t, 5.0, m.At(0, 0))
}

func TestParseMatrix_RowVector(t *testing.T) {
	m, err := ParseMatrix("[1 2.5 -3e-2]")
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 1, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []float64{1, 2.5, -0.03}, mat.Row(nil, 0, m))
}

func TestParseMatrix_ColumnVector(t *testing.T) {
	m, err := ParseMatrix("[0;0.1;0.2]")
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, c)
	assert.Equal(t, 0.1, m.At(1, 0))
}

func TestParseMatrix_Rectangular(t *testing.T) {
	m, err := ParseMatrix("[1 2;3 4]")
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4.0, m.At(1, 1))
}

func TestParseMatrix_Invalid(t *testing.T) {
	for _, in := range []string{"", "[]", "[1 2;3]", "[a b]", "abc"} {
		_, err := ParseMatrix(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestEvalError_Message(t *testing.T) {
	err := &EvalError{Command: "sim(model);", Message: "Unable to load model"}
	assert.Contains(t, err.Error(), "Unable to load model")
	assert.Contains(t, err.Error(), "sim(model);")
}
