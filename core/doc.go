// Package core provides the foundational domain types and interfaces used by
// gosimulink. It defines the core abstractions for:
//
//   - Engine (the external MATLAB/Simulink process driven over a textual
//     evaluation interface)
//   - Provider (resource acquisition: starting a fresh engine)
//   - ParameterSet (transient name → scalar assignments rendered into a
//     workspace command)
//   - Result (named output signals read back as flattened numeric series)
//
// The package intentionally keeps implementation concerns (process handling,
// session lifecycle, manifest parsing) out of scope, exposing small interfaces
// to enable custom engine backends and test fakes.
package core
