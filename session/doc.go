// Package session implements the ModelSession: a stateful handle wrapping one
// external engine connection bound to one Simulink model file. The engine
// contract itself (core.Engine) lives in the core package to centralize domain
// contracts; keeping only the lifecycle here prevents higher level packages
// from depending on a concrete backend.
//
// A session moves between exactly two states, Disconnected and Connected.
// Connect and Disconnect are idempotent; SetParameters, Run and Status require
// a live connection. The engine process is an exclusively owned resource:
// every Connect must be paired with Disconnect (or Close), which the
// gosimulink.WithSession helper guarantees.
package session
