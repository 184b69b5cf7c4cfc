// Package runner executes declarative simulation manifests. A Manifest names
// a model file, the output variables to harvest, the simulated time bounds,
// base parameter assignments and an optional one-dimensional parameter sweep.
// The Runner opens one session per manifest, applies parameters, runs once per
// sweep point (or once when no sweep is declared) and always disconnects,
// even when a run fails.
package runner
