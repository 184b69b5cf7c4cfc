package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParameterSet is a transient mapping from parameter name to scalar value
// (string, integer or floating point). It is rendered into a single composite
// workspace command and discarded; sessions never retain it.
type ParameterSet map[string]any

// Command renders the set into one composite assignment command of the form
//
//	a = 1.5; b = 'auto';
//
// String values are single-quoted, numeric values are emitted in their literal
// form, and entries are separated by whitespace. Keys are rendered in sorted
// order so the resulting command is deterministic.
//
// Values are interpolated into the engine's scripting language verbatim. This
// is a trust boundary: parameter names and string values are not escaped, so
// they must come from trusted callers, matching the engine-side assignment
// contract exactly.
func (p ParameterSet) Command() string {
	if len(p) == 0 {
		return ""
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(" = ")
		b.WriteString(formatScalar(p[k]))
		b.WriteString("; ")
	}

	return strings.TrimRight(b.String(), " ")
}

// formatScalar renders one scalar value as an engine-side literal.
func formatScalar(v any) string {
	switch val := v.(type) {
	case string:
		return "'" + val + "'"
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case bool:
		// MATLAB has no bare boolean literal assignment shorthand; true/false
		// are built-in functions, so the name form works verbatim.
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
