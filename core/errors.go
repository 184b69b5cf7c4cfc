package core

import "fmt"

var (
	// ErrModelNotFound is returned when a session is constructed with a model
	// path that does not exist on the filesystem.
	ErrModelNotFound = fmt.Errorf("model not found")

	// ErrNotConnected is returned when an operation requiring a running engine
	// is invoked on a disconnected session.
	ErrNotConnected = fmt.Errorf("engine not connected")
)
