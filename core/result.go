package core

import "gonum.org/v1/gonum/mat"

// Result maps output-variable names to flattened one-dimensional numeric
// series. It is produced fresh by each simulation run; names whose read-back
// failed are simply absent.
type Result map[string][]float64

// Has reports whether the named signal was successfully read back.
func (r Result) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Signal returns the named series and an existence flag.
func (r Result) Signal(name string) ([]float64, bool) {
	s, ok := r[name]
	return s, ok
}

// Time returns the built-in simulation time vector, or nil when its read-back
// failed.
func (r Result) Time() []float64 {
	return r[TimeVariable]
}

// Flatten converts a workspace matrix into a one-dimensional series in
// row-major order. Output signals are typically n×1 column vectors, in which
// case the order is immaterial.
func Flatten(m mat.Matrix) []float64 {
	if m == nil {
		return nil
	}

	rows, cols := m.Dims()
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out = append(out, m.At(i, j))
		}
	}

	return out
}
