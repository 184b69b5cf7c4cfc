package core

import "sort"

// TimeVariable is the built-in simulation time vector name. It is always part
// of a session's output-variable set regardless of what the caller supplies.
const TimeVariable = "tout"

// NormalizeOutputVariables collapses duplicates, injects TimeVariable and
// returns the names in sorted order. Empty names are dropped.
func NormalizeOutputVariables(vars []string) []string {
	seen := map[string]bool{TimeVariable: true}
	out := []string{TimeVariable}

	for _, v := range vars {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}

	sort.Strings(out)

	return out
}
