package matlab

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Sentinel markers printed by the engine-side wrapper. They are chosen to be
// improbable in ordinary command echo output.
const (
	markerDone  = "<<gsl:done>>"
	markerError = "<<gsl:err>>"
	markerValue = "<<gsl:val>>"
)

// wrapCommand embeds a command in a try/catch block that reports errors and
// completion through sentinel markers. The wrapped form stays on a single
// line so the interpreter executes it as one statement list.
func wrapCommand(cmd string) string {
	return fmt.Sprintf(
		"try, %s, catch err, fprintf('%s%%s\\n', strrep(err.message, newline, ' ')), end; fprintf('%s\\n');",
		cmd, markerError, markerDone,
	)
}

// printMatrixCommand renders a workspace variable through mat2str so the
// value arrives as a single parseable line.
func printMatrixCommand(name string) string {
	return fmt.Sprintf("fprintf('%s%%s\\n', mat2str(%s));", markerValue, name)
}

// printParamCommand renders a model parameter value as text.
func printParamCommand(model, param string) string {
	return fmt.Sprintf("fprintf('%s%%s\\n', get_param('%s', '%s'));", markerValue, model, param)
}

// ParseMatrix converts mat2str output into a dense matrix. Accepted forms are
// a bare scalar ("5"), a row or column vector ("[1 2 3]", "[1;2;3]") and a
// rectangular matrix ("[1 2;3 4]").
func ParseMatrix(s string) (*mat.Dense, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty matrix literal")
	}

	if !strings.HasPrefix(s, "[") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing scalar %q: %w", s, err)
		}
		return mat.NewDense(1, 1, []float64{v}), nil
	}

	body := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
	if body == "" {
		return nil, fmt.Errorf("empty matrix")
	}

	rows := strings.Split(body, ";")
	var (
		data []float64
		cols int
	)
	for i, row := range rows {
		fields := strings.Fields(row)
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty row %d in matrix %q", i, s)
		}
		if cols == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("ragged matrix %q: row %d has %d columns, want %d", s, i, len(fields), cols)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing matrix element %q: %w", f, err)
			}
			data = append(data, v)
		}
	}

	return mat.NewDense(len(rows), cols, data), nil
}
